package crypto

import (
	"strings"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// testSign produces an NIS signature for a key derived from seed the way NEM wallets derive keys.
func testSign(t *testing.T, seed string, message []byte) (PublicKey, []byte) {
	t.Helper()
	d := Keccak512([]byte(seed))
	a, err := edwards25519.NewScalar().SetBytesWithClamping(d[:32])
	require.NoError(t, err)
	pk, err := NewPublicKeyFromBytes(new(edwards25519.Point).ScalarBaseMult(a).Bytes())
	require.NoError(t, err)

	rh := sha3.NewLegacyKeccak512()
	rh.Write(d[32:])
	rh.Write(message)
	r, err := edwards25519.NewScalar().SetUniformBytes(rh.Sum(nil))
	require.NoError(t, err)
	rb := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	kh := sha3.NewLegacyKeccak512()
	kh.Write(rb)
	kh.Write(pk[:])
	kh.Write(message)
	k, err := edwards25519.NewScalar().SetUniformBytes(kh.Sum(nil))
	require.NoError(t, err)
	s := edwards25519.NewScalar().MultiplyAdd(k, a, r)
	return pk, append(rb, s.Bytes()...)
}

func TestVerify(t *testing.T) {
	msg := []byte("canonical transaction bytes")
	pk, sig := testSign(t, "alice", msg)
	require.Len(t, sig, SignatureSize)

	assert.True(t, Verify(pk, sig, msg))
	assert.True(t, pk.Verify(msg, sig))

	assert.False(t, Verify(pk, sig, []byte("other bytes")))
	other, _ := testSign(t, "bob", msg)
	assert.False(t, Verify(other, sig, msg))

	broken := append([]byte(nil), sig...)
	broken[10] ^= 0x01
	assert.False(t, Verify(pk, broken, msg))

	assert.False(t, Verify(pk, sig[:63], msg))
	assert.False(t, Verify(PublicKey{}, sig, msg))
}

func TestVerifyNonCanonicalS(t *testing.T) {
	msg := []byte("message")
	pk, sig := testSign(t, "carol", msg)
	// S + l encodes the same scalar but is not canonical.
	l := []byte{
		0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
	}
	s := sig[32:]
	sum := make([]byte, 32)
	carry := 0
	for i := 0; i < 32; i++ {
		v := int(s[i]) + int(l[i]) + carry
		sum[i] = byte(v)
		carry = v >> 8
	}
	if carry != 0 || sum[31]&0xe0 != 0 {
		t.Skip("S + l does not fit into 253 bits")
	}
	forged := append(append([]byte(nil), sig[:32]...), sum...)
	assert.False(t, Verify(pk, forged, msg))
}

func TestNewPublicKey(t *testing.T) {
	h := "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04"
	pk, err := NewPublicKeyFromHex(h)
	require.NoError(t, err)
	assert.Equal(t, h, pk.String())

	_, err = NewPublicKeyFromHex(h[:62])
	assert.EqualError(t, err, "incorrect public key length 31, expected 32")
	_, err = NewPublicKeyFromHex(strings.Repeat("x", 64))
	assert.Error(t, err)
}
