// Package apostille checks NEM apostille hashes against the notarized files.
//
// An apostille hash is the hex string "fe4e5459" followed by one header byte and the file digest.
// The low bits of the header name the hash algorithm, the 0x80 bit marks a private apostille whose
// digest part is a signature over the hex digest of the file.
package apostille

import (
	"bytes"
	"crypto/md5"  // #nosec: MD5 apostilles exist on chain and must still be audited
	"crypto/sha1" // #nosec
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/crypto/sha3"
)

// Checksum is the magic prefix of every apostille hash.
const Checksum = "fe4e5459"

const signedFlag = 0x80

type Algorithm byte

const (
	MD5       Algorithm = 0x01
	SHA1      Algorithm = 0x02
	SHA256    Algorithm = 0x03
	Keccak256 Algorithm = 0x08
	Keccak512 Algorithm = 0x09
)

func (a Algorithm) String() string {
	switch a {
	case MD5:
		return "MD5"
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case Keccak256:
		return "SHA3-256"
	case Keccak512:
		return "SHA3-512"
	default:
		return fmt.Sprintf("Algorithm(0x%02x)", byte(a))
	}
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil // #nosec
	case SHA1:
		return sha1.New(), nil // #nosec
	case SHA256:
		return sha256.New(), nil
	case Keccak256:
		return sha3.NewLegacyKeccak256(), nil
	case Keccak512:
		return sha3.NewLegacyKeccak512(), nil
	default:
		return nil, errors.Errorf("unknown apostille hash algorithm 0x%02x", byte(a))
	}
}

// Hash is a parsed apostille hash.
type Hash struct {
	Signed    bool
	Algorithm Algorithm
	// Digest is the file digest, or the signature over it for private apostilles.
	Digest []byte
}

// ParseHash splits an apostille hash into its parts. Hex is accepted in either case.
func ParseHash(s string) (Hash, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < len(Checksum)+2 {
		return Hash{}, errors.Errorf("apostille hash is too short: %d characters", len(s))
	}
	if c := s[:len(Checksum)]; c != Checksum {
		return Hash{}, errors.Errorf("invalid checksum: %s", c)
	}
	header, err := hex.DecodeString(s[len(Checksum) : len(Checksum)+2])
	if err != nil {
		return Hash{}, errors.Wrap(err, "invalid apostille header")
	}
	h := Hash{
		Signed:    header[0]&signedFlag != 0,
		Algorithm: Algorithm(header[0] &^ signedFlag),
	}
	if _, err := h.Algorithm.newHash(); err != nil {
		return Hash{}, err
	}
	if h.Digest, err = hex.DecodeString(s[len(Checksum)+2:]); err != nil {
		return Hash{}, errors.Wrap(err, "invalid apostille digest")
	}
	if len(h.Digest) == 0 {
		return Hash{}, errors.New("empty apostille digest")
	}
	return h, nil
}

func (h Hash) String() string {
	header := byte(h.Algorithm)
	if h.Signed {
		header |= signedFlag
	}
	return Checksum + hex.EncodeToString([]byte{header}) + hex.EncodeToString(h.Digest)
}

// Verifier checks a signature made by the owner of a private apostille.
// Implementations hold the owner's public key.
type Verifier interface {
	Verify(message, signature []byte) bool
}

// NewHash computes the public apostille hash of the content read from r.
func NewHash(r io.Reader, algorithm Algorithm) (Hash, error) {
	d, err := digest(r, algorithm)
	if err != nil {
		return Hash{}, err
	}
	return Hash{Algorithm: algorithm, Digest: d}, nil
}

// Audit reports whether the file at path matches the apostille hash.
// Private apostilles need a verifier; without one they can not be audited.
func Audit(fs afero.Fs, path string, apostilleHash string, verifier Verifier) (bool, error) {
	h, err := ParseHash(apostilleHash)
	if err != nil {
		return false, err
	}
	if h.Signed && verifier == nil {
		return false, errors.New("private apostille requires a verifier")
	}
	f, err := fs.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to open file %q", path)
	}
	defer func() {
		_ = f.Close()
	}()
	d, err := digest(f, h.Algorithm)
	if err != nil {
		return false, errors.Wrapf(err, "failed to hash file %q", path)
	}
	if h.Signed {
		return verifier.Verify([]byte(hex.EncodeToString(d)), h.Digest), nil
	}
	return bytes.Equal(d, h.Digest), nil
}

func digest(r io.Reader, algorithm Algorithm) ([]byte, error) {
	hh, err := algorithm.newHash()
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(hh, r); err != nil {
		return nil, err
	}
	return hh.Sum(nil), nil
}
