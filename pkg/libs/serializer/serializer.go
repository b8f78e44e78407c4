package serializer

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
)

// AbsentLength is the length prefix written in place of a value that is not present at all.
// It is the little-endian image of -1 as a 32-bit integer.
const AbsentLength uint32 = math.MaxUint32

// Serializer writes NIS wire primitives: little-endian fixed-width integers and
// values framed by a 4-byte little-endian length.
type Serializer struct {
	w io.Writer
	n int
}

func New(w io.Writer) *Serializer {
	return &Serializer{
		w: w,
		n: 0,
	}
}

func (a *Serializer) Write(b []byte) (int, error) {
	n, err := a.w.Write(b)
	if err != nil {
		return 0, err
	}
	a.n += n
	return n, nil
}

func (a *Serializer) Uint32(v uint32) error {
	buf := [4]byte{}
	binary.LittleEndian.PutUint32(buf[:], v)
	n, err := a.w.Write(buf[:])
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

func (a *Serializer) Uint64(v uint64) error {
	buf := [8]byte{}
	binary.LittleEndian.PutUint64(buf[:], v)
	n, err := a.w.Write(buf[:])
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

// Int32 writes the two's complement image of v, used for signed deltas like cosignatory changes.
func (a *Serializer) Int32(v int32) error {
	return a.Uint32(uint32(v)) // #nosec: two's complement image is the wire format
}

// Len writes n as a 4-byte length prefix.
func (a *Serializer) Len(n int) error {
	l, err := Len32(n)
	if err != nil {
		return err
	}
	return a.Uint32(l)
}

func (a *Serializer) Bytes(b []byte) error {
	n, err := a.w.Write(b)
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

func (a *Serializer) BytesWithUInt32Len(data []byte) error {
	if err := a.Len(len(data)); err != nil {
		return err
	}
	return a.Bytes(data)
}

// Absent writes the sentinel used for a missing optional value.
func (a *Serializer) Absent() error {
	return a.Uint32(AbsentLength)
}

// String writes a present string as length followed by its bytes. An empty string is a zero length.
func (a *Serializer) String(s string) error {
	if err := a.Len(len(s)); err != nil {
		return err
	}
	n, err := io.WriteString(a.w, s)
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

// SafeString writes a string where nil means absent and encodes as the -1 sentinel.
func (a *Serializer) SafeString(s *string) error {
	if s == nil {
		return a.Absent()
	}
	return a.String(*s)
}

// BinString frames a raw byte string the same way as SafeString: nil is absent, empty is a zero length.
func (a *Serializer) BinString(b []byte) error {
	if b == nil {
		return a.Absent()
	}
	return a.BytesWithUInt32Len(b)
}

func (a *Serializer) N() int64 {
	return int64(a.n)
}

// Len32 converts a length to the 32-bit form used in length prefixes.
func Len32(n int) (uint32, error) {
	l, err := safecast.ToUint32(n)
	if err != nil {
		return 0, errors.Wrapf(err, "length %d does not fit into 4 bytes", n)
	}
	if l == AbsentLength {
		return 0, errors.Errorf("length %d collides with the absence sentinel", n)
	}
	return l, nil
}
