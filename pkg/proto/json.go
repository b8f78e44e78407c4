package proto

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/wavesplatform/gonem/pkg/errs"
)

// GuessTransactionType reads the "type" tag of a JSON transaction descriptor.
func GuessTransactionType(data []byte) (TransactionType, error) {
	if !gjson.ValidBytes(data) {
		return 0, errs.NewMalformedField("descriptor", "invalid JSON")
	}
	r := gjson.GetBytes(data, "type")
	if !r.Exists() {
		return 0, errs.NewMalformedField("type", "missing")
	}
	if r.Type != gjson.Number || r.Num < 0 || r.Num > math.MaxUint32 || r.Num != math.Trunc(r.Num) {
		return 0, errs.NewMalformedFieldf("type", "expected 32-bit unsigned integer, got %s", r.Raw)
	}
	return TransactionType(r.Uint()), nil
}

// UnmarshalTransactionJSON decodes a JSON transaction descriptor using NIS field names
// into the transaction its "type" tag names.
func UnmarshalTransactionJSON(data []byte) (Transaction, error) {
	t, err := GuessTransactionType(data)
	if err != nil {
		return nil, err
	}
	tx, ok := newTransaction(t)
	if !ok {
		return nil, errs.NewUnsupportedTransactionType(uint32(t))
	}
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, jsonFieldError(err)
	}
	return tx, nil
}

// TransactionFromMap accepts a descriptor as plain key/value data, as produced by decoding arbitrary JSON.
func TransactionFromMap(m map[string]any) (Transaction, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errs.NewMalformedField("descriptor", err.Error())
	}
	return UnmarshalTransactionJSON(data)
}

func (tx *Multisig) UnmarshalJSON(data []byte) error {
	type shadowed Multisig
	tmp := struct {
		*shadowed
		OtherTrans json.RawMessage `json:"otherTrans"`
	}{shadowed: (*shadowed)(tx)}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return jsonFieldError(err)
	}
	if len(tmp.OtherTrans) == 0 || string(tmp.OtherTrans) == jsonNull {
		tx.OtherTrans = nil
		return nil
	}
	inner, err := UnmarshalTransactionJSON(tmp.OtherTrans)
	if err != nil {
		return errs.Nest(err, "otherTrans")
	}
	tx.OtherTrans = inner
	return nil
}

// UnmarshalJSON treats the empty levy object NIS reports for mosaics without a levy as no levy.
func (d *MosaicDefinition) UnmarshalJSON(data []byte) error {
	type shadowed MosaicDefinition
	if err := json.Unmarshal(data, (*shadowed)(d)); err != nil {
		return errs.Nest(jsonFieldError(err), "mosaicDefinition")
	}
	if d.Levy != nil && *d.Levy == (Levy{}) {
		d.Levy = nil
	}
	return nil
}

// jsonFieldError converts JSON decoding failures into field errors, naming the field when the decoder knows it.
func jsonFieldError(err error) error {
	var fe *errs.MalformedField
	if errors.As(err, &fe) {
		return err
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return errs.NewMalformedFieldf(jsonFieldPath(ute.Field), "expected %s, got %s", ute.Type, ute.Value)
	}
	var ut *errs.UnsupportedTransactionType
	if errors.As(err, &ut) {
		return err
	}
	return errs.NewMalformedField("descriptor", err.Error())
}

// jsonFieldPath drops the names of embedded structs, like Common, that newer decoders put into
// the field path of a type error. Descriptor field names all start with a lower case letter.
func jsonFieldPath(field string) string {
	parts := strings.Split(field, ".")
	out := parts[:0]
	for _, p := range parts {
		if r, _ := utf8.DecodeRuneInString(p); unicode.IsUpper(r) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}
