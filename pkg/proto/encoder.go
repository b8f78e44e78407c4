package proto

import (
	"reflect"
	"strconv"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/wavesplatform/gonem/pkg/errs"
	"github.com/wavesplatform/gonem/pkg/libs/serializer"
)

// MarshalTransaction returns the canonical bytes of tx: the common header followed by the
// type specific payload. These are the bytes that get signed and announced.
// Nothing is returned unless the whole transaction was encoded.
func MarshalTransaction(tx Transaction) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := serializeTransaction(serializer.New(buf), tx, false); err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// EncodeDescriptor decodes a JSON transaction descriptor and returns its canonical bytes.
func EncodeDescriptor(data []byte) ([]byte, error) {
	tx, err := UnmarshalTransactionJSON(data)
	if err != nil {
		return nil, err
	}
	return MarshalTransaction(tx)
}

// writeBlock writes whatever f produces prefixed with its length.
func writeBlock(s *serializer.Serializer, f func(s *serializer.Serializer) error) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := f(serializer.New(buf)); err != nil {
		return err
	}
	return s.BytesWithUInt32Len(buf.B)
}

// serializeTransaction writes header and payload. Inner transactions of a multisig
// wrapper may not be multisig transactions themselves.
func serializeTransaction(s *serializer.Serializer, tx Transaction, inner bool) error {
	if isNilTransaction(tx) {
		return errs.NewMalformedField("transaction", "missing")
	}
	t := tx.GetType()
	if err := checkDeclaredType(t, tx.GetCommon().Type); err != nil {
		return err
	}
	if inner && (t == MultisigTransaction || t == MultisigSignatureTransaction) {
		return errs.NewUnsupportedTransactionType(uint32(t)).Extend("multisig inner transaction")
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := serializePayload(serializer.New(buf), tx); err != nil {
		return err
	}
	if err := serializeCommon(s, t, tx.GetCommon()); err != nil {
		return err
	}
	return s.Bytes(buf.B)
}

// isNilTransaction also catches nil pointers of a concrete variant held by the interface.
func isNilTransaction(tx Transaction) bool {
	if tx == nil {
		return true
	}
	v := reflect.ValueOf(tx)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// checkDeclaredType accepts a zero declared type as "same as the variant".
func checkDeclaredType(variant, declared TransactionType) error {
	switch {
	case declared == 0 || declared == variant:
		return nil
	case !declared.Valid():
		return errs.NewUnsupportedTransactionType(uint32(declared))
	default:
		return errs.NewMalformedFieldf("type", "declared type %s does not match %s transaction", declared, variant)
	}
}

func serializeCommon(s *serializer.Serializer, t TransactionType, c *Common) error {
	if len(c.Signer) == 0 {
		return errs.NewMalformedField("signer", "missing")
	}
	if err := s.Uint32(uint32(t)); err != nil {
		return err
	}
	if err := s.Uint32(uint32(c.Version)); err != nil {
		return err
	}
	if err := s.Uint32(c.TimeStamp); err != nil {
		return err
	}
	if err := s.BytesWithUInt32Len(c.Signer); err != nil {
		return err
	}
	if err := s.Uint64(c.Fee); err != nil {
		return err
	}
	return s.Uint32(c.Deadline)
}

func serializePayload(s *serializer.Serializer, tx Transaction) error {
	switch tx := tx.(type) {
	case *Transfer:
		return serializeTransfer(s, tx)
	case *ImportanceTransfer:
		return serializeImportanceTransfer(s, tx)
	case *MultisigAggregateModification:
		return serializeMultisigAggregateModification(s, tx)
	case *MultisigSignature:
		return serializeMultisigSignature(s, tx)
	case *Multisig:
		return serializeMultisig(s, tx)
	case *ProvisionNamespace:
		return serializeProvisionNamespace(s, tx)
	case *MosaicDefinitionCreation:
		return serializeMosaicDefinitionCreation(s, tx)
	case *MosaicSupplyChange:
		return serializeMosaicSupplyChange(s, tx)
	default:
		return errs.NewUnsupportedTransactionType(uint32(tx.GetType()))
	}
}

func serializeTransfer(s *serializer.Serializer, tx *Transfer) error {
	if tx.Recipient == "" {
		return errs.NewMalformedField("recipient", "missing")
	}
	if err := s.String(tx.Recipient); err != nil {
		return err
	}
	if err := s.Uint64(tx.Amount); err != nil {
		return err
	}
	if err := serializeMessage(s, tx.Message); err != nil {
		return err
	}
	if len(tx.Mosaics) == 0 {
		return nil
	}
	if err := s.Len(len(tx.Mosaics)); err != nil {
		return err
	}
	for i, m := range tx.Mosaics {
		if err := m.Serialize(s); err != nil {
			return errs.Nest(err, "mosaics["+strconv.Itoa(i)+"]")
		}
	}
	return nil
}

func serializeImportanceTransfer(s *serializer.Serializer, tx *ImportanceTransfer) error {
	if len(tx.RemoteAccount) == 0 {
		return errs.NewMalformedField("remoteAccount", "missing")
	}
	if err := s.Uint32(tx.Mode); err != nil {
		return err
	}
	return s.BytesWithUInt32Len(tx.RemoteAccount)
}

func serializeMultisigAggregateModification(s *serializer.Serializer, tx *MultisigAggregateModification) error {
	if err := s.Len(len(tx.Modifications)); err != nil {
		return err
	}
	for i, m := range tx.Modifications {
		if err := m.Serialize(s); err != nil {
			return errs.Nest(err, "modifications["+strconv.Itoa(i)+"]")
		}
	}
	var change int32
	if tx.MinCosignatories != nil {
		change = tx.MinCosignatories.RelativeChange
	}
	if err := s.Uint32(minCosignatoriesLen); err != nil {
		return err
	}
	return s.Int32(change)
}

func serializeMultisigSignature(s *serializer.Serializer, tx *MultisigSignature) error {
	if len(tx.OtherHash.Data) == 0 {
		return errs.NewMalformedField("otherHash.data", "missing")
	}
	if tx.OtherAccount == "" {
		return errs.NewMalformedField("otherAccount", "missing")
	}
	err := writeBlock(s, func(s *serializer.Serializer) error {
		return s.BytesWithUInt32Len(tx.OtherHash.Data)
	})
	if err != nil {
		return err
	}
	return s.String(tx.OtherAccount)
}

func serializeMultisig(s *serializer.Serializer, tx *Multisig) error {
	if isNilTransaction(tx.OtherTrans) {
		return errs.NewMalformedField("otherTrans", "missing")
	}
	err := writeBlock(s, func(s *serializer.Serializer) error {
		return serializeTransaction(s, tx.OtherTrans, true)
	})
	if err != nil {
		return errs.Nest(err, "otherTrans")
	}
	return nil
}

func serializeProvisionNamespace(s *serializer.Serializer, tx *ProvisionNamespace) error {
	if tx.RentalFeeSink == "" {
		return errs.NewMalformedField("rentalFeeSink", "missing")
	}
	if tx.NewPart == "" {
		return errs.NewMalformedField("newPart", "missing")
	}
	if err := s.String(tx.RentalFeeSink); err != nil {
		return err
	}
	if err := s.Uint64(tx.RentalFee); err != nil {
		return err
	}
	if err := s.String(tx.NewPart); err != nil {
		return err
	}
	return s.SafeString(tx.Parent)
}

func serializeMosaicDefinitionCreation(s *serializer.Serializer, tx *MosaicDefinitionCreation) error {
	if tx.CreationFeeSink == "" {
		return errs.NewMalformedField("creationFeeSink", "missing")
	}
	if err := tx.MosaicDefinition.Serialize(s); err != nil {
		return errs.Nest(err, "mosaicDefinition")
	}
	if err := s.String(tx.CreationFeeSink); err != nil {
		return err
	}
	return s.Uint64(tx.CreationFee)
}

func serializeMosaicSupplyChange(s *serializer.Serializer, tx *MosaicSupplyChange) error {
	if err := tx.MosaicID.Serialize(s); err != nil {
		return errs.Nest(err, "mosaicId")
	}
	if err := s.Uint32(tx.SupplyType); err != nil {
		return err
	}
	return s.Uint64(tx.Delta)
}
