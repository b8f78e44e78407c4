package crypto

import (
	"bytes"
	"encoding/hex"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// PublicKey is a NIS account public key, an Ed25519 point in compressed form.
type PublicKey [PublicKeySize]byte

func NewPublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if l := len(b); l != PublicKeySize {
		return pk, errors.Errorf("incorrect public key length %d, expected %d", l, PublicKeySize)
	}
	copy(pk[:], b)
	return pk, nil
}

func NewPublicKeyFromHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "failed to decode public key")
	}
	return NewPublicKeyFromBytes(b)
}

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// Verify checks a signature of the key owner over message.
func (k PublicKey) Verify(message, signature []byte) bool {
	return Verify(k, signature, message)
}

// Verify checks an NIS signature: Ed25519 with Keccak-512 in place of SHA-512.
// Signatures with a non-canonical S and the zero public key are rejected, as the node does.
func Verify(publicKey PublicKey, signature []byte, data []byte) bool {
	if len(signature) != SignatureSize || publicKey == (PublicKey{}) {
		return false
	}
	a, err := new(edwards25519.Point).SetBytes(publicKey[:])
	if err != nil {
		return false
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(signature[32:])
	if err != nil {
		return false
	}
	h := sha3.NewLegacyKeccak512()
	h.Write(signature[:32])
	h.Write(publicKey[:])
	h.Write(data)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return false
	}
	// R = [S]B - [k]A
	minusA := new(edwards25519.Point).Negate(a)
	r := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, s)
	return bytes.Equal(signature[:32], r.Bytes())
}
