package crypto

import (
	"encoding/hex"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const (
	DigestSize    = 32
	PublicKeySize = 32
	SignatureSize = 64
)

// Digest is a 256-bit hash; NIS transaction hashes are Keccak-256 digests of the canonical bytes.
type Digest [DigestSize]byte

func NewDigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if l := len(b); l != DigestSize {
		return d, errors.Errorf("incorrect digest length %d, expected %d", l, DigestSize)
	}
	copy(d[:], b)
	return d, nil
}

func NewDigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, errors.Wrap(err, "failed to decode digest")
	}
	return NewDigestFromBytes(b)
}

func MustDigestFromHex(s string) Digest {
	d, err := NewDigestFromHex(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Digest) Bytes() []byte {
	out := make([]byte, DigestSize)
	copy(out, d[:])
	return out
}

// String returns the lower-case hex form used by the NIS API.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Digest) UnmarshalJSON(value []byte) error {
	s, err := strconv.Unquote(string(value))
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal Digest from JSON")
	}
	v, err := NewDigestFromHex(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func Keccak256(data []byte) (digest Digest) {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(digest[:0])
	return
}

func Keccak512(data []byte) []byte {
	h := sha3.NewLegacyKeccak512()
	h.Write(data)
	return h.Sum(nil)
}
