package deserializer

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/wavesplatform/gonem/pkg/libs/serializer"
)

// Deserializer reads NIS wire primitives written by serializer.Serializer.
type Deserializer struct {
	b []byte
}

func NewDeserializer(b []byte) *Deserializer {
	return &Deserializer{
		b: b,
	}
}

func (a *Deserializer) Uint32() (uint32, error) {
	if len(a.b) < 4 {
		return 0, errors.Errorf(
			"not enough bytes to deserialize uint32, expected at least %d, found %d",
			4,
			len(a.b))
	}
	out := binary.LittleEndian.Uint32(a.b[:4])
	a.b = a.b[4:]
	return out, nil
}

func (a *Deserializer) Int32() (int32, error) {
	v, err := a.Uint32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil // #nosec: two's complement image is the wire format
}

func (a *Deserializer) Uint64() (uint64, error) {
	l := 8
	if len(a.b) < l {
		return 0, errors.Errorf(
			"not enough bytes to deserialize uint64, expected at least %d, found %d",
			l,
			len(a.b))
	}
	out := binary.LittleEndian.Uint64(a.b[:l])
	a.b = a.b[l:]
	return out, nil
}

// Len returns the number of bytes left.
func (a *Deserializer) Len() int {
	return len(a.b)
}

func (a *Deserializer) Bytes(length uint) ([]byte, error) {
	if length > uint(len(a.b)) {
		return nil, errors.Errorf(
			"not enough bytes to deserialize Bytes, expected %d, found %d",
			length,
			len(a.b))
	}
	out := a.b[:length]
	a.b = a.b[length:]
	return out, nil
}

// Expect consumes a 4-byte value and fails unless it equals v.
func (a *Deserializer) Expect(v uint32) error {
	got, err := a.Uint32()
	if err != nil {
		return err
	}
	if got != v {
		return errors.Errorf("unexpected value %d, expected %d", got, v)
	}
	return nil
}

func (a *Deserializer) BytesWithUInt32Len() ([]byte, error) {
	l, err := a.Uint32()
	if err != nil {
		return nil, err
	}
	return a.Bytes(uint(l))
}

// BinString reads a length-framed byte string; nil is returned for the absence sentinel.
func (a *Deserializer) BinString() ([]byte, error) {
	l, err := a.Uint32()
	if err != nil {
		return nil, err
	}
	if l == serializer.AbsentLength {
		return nil, nil
	}
	b, err := a.Bytes(uint(l))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// SafeString reads a length-framed string; nil is returned for the absence sentinel.
func (a *Deserializer) SafeString() (*string, error) {
	b, err := a.BinString()
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	s := string(b)
	return &s, nil
}

// Sub splits off the next length-prefixed block into its own Deserializer.
func (a *Deserializer) Sub() (*Deserializer, error) {
	b, err := a.BytesWithUInt32Len()
	if err != nil {
		return nil, err
	}
	return NewDeserializer(b), nil
}
