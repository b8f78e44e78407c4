package proto

import (
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/wavesplatform/gonem/pkg/errs"
	"github.com/wavesplatform/gonem/pkg/libs/serializer"
)

const (
	jsonNull = "null"

	// Fixed markers of a cosignatory modification: the modification's own length and the key length.
	modificationLen   = 40
	cosignatoryKeyLen = 32
	// Length of the minimum cosignatories block, a single 32-bit relative change.
	minCosignatoriesLen = 4
	// Bytes a message block adds on top of its payload: type and payload length.
	messageOverhead = 8
)

// Message types.
const (
	PlainMessage  uint32 = 1
	SecureMessage uint32 = 2
)

// Importance transfer modes.
const (
	ActivateRemoteHarvesting   uint32 = 1
	DeactivateRemoteHarvesting uint32 = 2
)

// Cosignatory modification types.
const (
	AddCosignatory    uint32 = 1
	DeleteCosignatory uint32 = 2
)

// Mosaic supply change types.
const (
	IncreaseSupply uint32 = 1
	DecreaseSupply uint32 = 2
)

// Levy fee types.
const (
	AbsoluteLevy   uint32 = 1
	PercentileLevy uint32 = 2
)

// HexBytes is a byte slice that is represented in JSON as a hex string, the way NIS transfers keys, hashes and payloads.
type HexBytes []byte

func NewHexBytesFromString(s string) (HexBytes, error) {
	if s == "" {
		return HexBytes{}, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex string")
	}
	return b, nil
}

func MustHexBytesFromString(s string) HexBytes {
	b, err := NewHexBytesFromString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(b.String())), nil
}

func (b *HexBytes) UnmarshalJSON(value []byte) error {
	s := string(value)
	if s == jsonNull {
		*b = nil
		return nil
	}
	s, err := strconv.Unquote(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: string(value), Type: reflect.TypeOf(*b)}
	}
	v, err := NewHexBytesFromString(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "non-hex string", Type: reflect.TypeOf(*b)}
	}
	*b = v
	return nil
}

// MosaicID names a mosaic inside its namespace, for example "nem:xem".
type MosaicID struct {
	NamespaceID string `json:"namespaceId"`
	Name        string `json:"name"`
}

func (m MosaicID) String() string {
	return m.NamespaceID + ":" + m.Name
}

func (m MosaicID) validate() error {
	if m.NamespaceID == "" {
		return errs.NewMalformedField("namespaceId", "missing")
	}
	if m.Name == "" {
		return errs.NewMalformedField("name", "missing")
	}
	return nil
}

// Serialize writes the identifier block: total length, namespace and name as strings.
func (m MosaicID) Serialize(s *serializer.Serializer) error {
	if err := m.validate(); err != nil {
		return err
	}
	return writeBlock(s, func(s *serializer.Serializer) error {
		if err := s.String(m.NamespaceID); err != nil {
			return err
		}
		return s.String(m.Name)
	})
}

// MosaicAttachment is an amount of a mosaic carried by a transfer.
type MosaicAttachment struct {
	MosaicID MosaicID `json:"mosaicId"`
	Quantity uint64   `json:"quantity"`
}

func (a MosaicAttachment) Serialize(s *serializer.Serializer) error {
	return writeBlock(s, func(s *serializer.Serializer) error {
		if err := a.MosaicID.Serialize(s); err != nil {
			return errs.Nest(err, "mosaicId")
		}
		return s.Uint64(a.Quantity)
	})
}

// Property is a single name/value pair of a mosaic definition.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (p Property) Serialize(s *serializer.Serializer) error {
	return writeBlock(s, func(s *serializer.Serializer) error {
		if err := s.String(p.Name); err != nil {
			return err
		}
		return s.String(p.Value)
	})
}

// Levy is the optional fee charged when a mosaic is transferred.
type Levy struct {
	Type      uint32   `json:"type"`
	Recipient string   `json:"recipient"`
	MosaicID  MosaicID `json:"mosaicId"`
	Fee       uint64   `json:"fee"`
}

// serializeLevy writes a zero length for a missing levy, otherwise the length-prefixed levy block.
func serializeLevy(s *serializer.Serializer, l *Levy) error {
	if l == nil {
		return s.Uint32(0)
	}
	if l.Recipient == "" {
		return errs.NewMalformedField("recipient", "missing")
	}
	return writeBlock(s, func(s *serializer.Serializer) error {
		if err := s.Uint32(l.Type); err != nil {
			return err
		}
		if err := s.String(l.Recipient); err != nil {
			return err
		}
		if err := l.MosaicID.Serialize(s); err != nil {
			return errs.Nest(err, "mosaicId")
		}
		return s.Uint64(l.Fee)
	})
}

// MosaicDefinition describes a new mosaic or a change of an existing one.
type MosaicDefinition struct {
	Creator     HexBytes   `json:"creator"`
	ID          MosaicID   `json:"id"`
	Description string     `json:"description"`
	Properties  []Property `json:"properties"`
	Levy        *Levy      `json:"levy,omitempty"`
}

func (d MosaicDefinition) Serialize(s *serializer.Serializer) error {
	if len(d.Creator) == 0 {
		return errs.NewMalformedField("creator", "missing")
	}
	properties, err := sortProperties(d.Properties)
	if err != nil {
		return err
	}
	return writeBlock(s, func(s *serializer.Serializer) error {
		if err := s.BytesWithUInt32Len(d.Creator); err != nil {
			return err
		}
		if err := d.ID.Serialize(s); err != nil {
			return errs.Nest(err, "id")
		}
		if err := s.String(d.Description); err != nil {
			return err
		}
		if err := s.Len(len(properties)); err != nil {
			return err
		}
		for _, p := range properties {
			if err := p.Serialize(s); err != nil {
				return err
			}
		}
		if err := serializeLevy(s, d.Levy); err != nil {
			return errs.Nest(err, "levy")
		}
		return nil
	})
}

// Message is the optional note of a transfer. The payload is raw bytes, encrypted for secure messages.
type Message struct {
	Payload HexBytes `json:"payload"`
	Type    uint32   `json:"type"`
}

func serializeMessage(s *serializer.Serializer, m *Message) error {
	if m == nil || len(m.Payload) == 0 {
		return s.Uint32(0)
	}
	l, err := serializer.Len32(len(m.Payload) + messageOverhead)
	if err != nil {
		return err
	}
	if err := s.Uint32(l); err != nil {
		return err
	}
	if err := s.Uint32(m.Type); err != nil {
		return err
	}
	return s.BytesWithUInt32Len(m.Payload)
}

// Modification adds or removes a cosignatory of a multisig account.
type Modification struct {
	ModificationType   uint32   `json:"modificationType"`
	CosignatoryAccount HexBytes `json:"cosignatoryAccount"`
}

func (m Modification) Serialize(s *serializer.Serializer) error {
	if l := len(m.CosignatoryAccount); l != cosignatoryKeyLen {
		return errs.NewMalformedFieldf("cosignatoryAccount", "expected %d bytes public key, got %d", cosignatoryKeyLen, l)
	}
	if err := s.Uint32(modificationLen); err != nil {
		return err
	}
	if err := s.Uint32(m.ModificationType); err != nil {
		return err
	}
	if err := s.Uint32(cosignatoryKeyLen); err != nil {
		return err
	}
	return s.Bytes(m.CosignatoryAccount)
}

// MinCosignatories is the relative change of the number of cosignatories required to sign.
type MinCosignatories struct {
	RelativeChange int32 `json:"relativeChange"`
}

// OtherHash references the inner transaction a multisig signature cosigns.
type OtherHash struct {
	Data HexBytes `json:"data"`
}
