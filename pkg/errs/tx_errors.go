package errs

import "fmt"

// UnsupportedTransactionType is returned when a transaction, or a transaction wrapped by a
// multisig transaction, carries a type tag the encoder does not know.
type UnsupportedTransactionType struct {
	ValidationErrorImpl
	txType  uint32
	message string
}

func NewUnsupportedTransactionType(txType uint32) *UnsupportedTransactionType {
	return &UnsupportedTransactionType{
		txType:  txType,
		message: fmt.Sprintf("unsupported transaction type 0x%04x", txType),
	}
}

func (a UnsupportedTransactionType) Error() string {
	return a.message
}

func (a UnsupportedTransactionType) TxType() uint32 {
	return a.txType
}

func (a UnsupportedTransactionType) Extend(message string) error {
	return &UnsupportedTransactionType{txType: a.txType, message: fmtExtend(a, message)}
}

func (a UnsupportedTransactionType) Is(target error) bool {
	switch target.(type) {
	case UnsupportedTransactionType, *UnsupportedTransactionType:
		return true
	default:
		return false
	}
}

// MalformedField is returned when a required field is missing or has the wrong shape.
type MalformedField struct {
	ValidationErrorImpl
	field   string
	message string
}

func NewMalformedField(field, message string) *MalformedField {
	return &MalformedField{field: field, message: message}
}

func NewMalformedFieldf(field, format string, args ...any) *MalformedField {
	return NewMalformedField(field, fmt.Sprintf(format, args...))
}

func (a MalformedField) Error() string {
	return fmt.Sprintf("malformed field %q: %s", a.field, a.message)
}

// Field returns the dotted path of the offending field.
func (a MalformedField) Field() string {
	return a.field
}

func (a MalformedField) Extend(message string) error {
	return NewMalformedField(a.field, fmtExtend(fmt.Errorf("%s", a.message), message))
}

func (a MalformedField) Nest(parent string) error {
	return NewMalformedField(parent+"."+a.field, a.message)
}

func (a MalformedField) Is(target error) bool {
	switch target.(type) {
	case MalformedField, *MalformedField:
		return true
	default:
		return false
	}
}
