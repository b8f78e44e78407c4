package proto

import (
	"github.com/pkg/errors"

	"github.com/wavesplatform/gonem/pkg/errs"
	"github.com/wavesplatform/gonem/pkg/libs/deserializer"
)

// UnmarshalTransaction parses canonical transaction bytes back into a transaction.
// The bytes must hold exactly one transaction.
func UnmarshalTransaction(data []byte) (Transaction, error) {
	d := deserializer.NewDeserializer(data)
	tx, err := deserializeTransaction(d, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal transaction")
	}
	if l := d.Len(); l != 0 {
		return nil, errors.Errorf("failed to unmarshal transaction: %d unexpected trailing bytes", l)
	}
	return tx, nil
}

func deserializeTransaction(d *deserializer.Deserializer, inner bool) (Transaction, error) {
	c, err := deserializeCommon(d)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	tx, ok := newTransaction(c.Type)
	if !ok {
		return nil, errs.NewUnsupportedTransactionType(uint32(c.Type))
	}
	if inner && (c.Type == MultisigTransaction || c.Type == MultisigSignatureTransaction) {
		return nil, errs.NewUnsupportedTransactionType(uint32(c.Type)).Extend("multisig inner transaction")
	}
	*tx.GetCommon() = c
	if err := deserializePayload(d, tx); err != nil {
		return nil, errors.Wrapf(err, "%s payload", c.Type)
	}
	return tx, nil
}

func deserializeCommon(d *deserializer.Deserializer) (Common, error) {
	var (
		c   Common
		err error
	)
	t, err := d.Uint32()
	if err != nil {
		return Common{}, err
	}
	c.Type = TransactionType(t)
	v, err := d.Uint32()
	if err != nil {
		return Common{}, err
	}
	c.Version = Version(v)
	if c.TimeStamp, err = d.Uint32(); err != nil {
		return Common{}, err
	}
	if c.Signer, err = copyBytes(d.BytesWithUInt32Len()); err != nil {
		return Common{}, err
	}
	if c.Fee, err = d.Uint64(); err != nil {
		return Common{}, err
	}
	if c.Deadline, err = d.Uint32(); err != nil {
		return Common{}, err
	}
	return c, nil
}

func deserializePayload(d *deserializer.Deserializer, tx Transaction) error {
	switch tx := tx.(type) {
	case *Transfer:
		return deserializeTransfer(d, tx)
	case *ImportanceTransfer:
		return deserializeImportanceTransfer(d, tx)
	case *MultisigAggregateModification:
		return deserializeMultisigAggregateModification(d, tx)
	case *MultisigSignature:
		return deserializeMultisigSignature(d, tx)
	case *Multisig:
		return deserializeMultisig(d, tx)
	case *ProvisionNamespace:
		return deserializeProvisionNamespace(d, tx)
	case *MosaicDefinitionCreation:
		return deserializeMosaicDefinitionCreation(d, tx)
	case *MosaicSupplyChange:
		return deserializeMosaicSupplyChange(d, tx)
	default:
		return errs.NewUnsupportedTransactionType(uint32(tx.GetType()))
	}
}

func deserializeTransfer(d *deserializer.Deserializer, tx *Transfer) error {
	var err error
	if tx.Recipient, err = presentString(d); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if tx.Amount, err = d.Uint64(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if tx.Message, err = deserializeMessage(d); err != nil {
		return errors.Wrap(err, "message")
	}
	if d.Len() == 0 {
		return nil
	}
	n, err := d.Uint32()
	if err != nil {
		return errors.Wrap(err, "mosaics")
	}
	tx.Mosaics = make([]MosaicAttachment, 0, min(int(n), d.Len()))
	for i := uint32(0); i < n; i++ {
		sub, err := d.Sub()
		if err != nil {
			return errors.Wrapf(err, "mosaic %d", i)
		}
		var m MosaicAttachment
		if m.MosaicID, err = deserializeMosaicID(sub); err != nil {
			return errors.Wrapf(err, "mosaic %d", i)
		}
		if m.Quantity, err = sub.Uint64(); err != nil {
			return errors.Wrapf(err, "mosaic %d", i)
		}
		tx.Mosaics = append(tx.Mosaics, m)
	}
	return nil
}

func deserializeMessage(d *deserializer.Deserializer) (*Message, error) {
	l, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	if l == 0 {
		return nil, nil
	}
	m := &Message{}
	if m.Type, err = d.Uint32(); err != nil {
		return nil, err
	}
	if m.Payload, err = copyBytes(d.BytesWithUInt32Len()); err != nil {
		return nil, err
	}
	if exp := uint64(len(m.Payload)) + messageOverhead; uint64(l) != exp {
		return nil, errors.Errorf("message length %d does not match payload length %d", l, len(m.Payload))
	}
	return m, nil
}

func deserializeImportanceTransfer(d *deserializer.Deserializer, tx *ImportanceTransfer) error {
	var err error
	if tx.Mode, err = d.Uint32(); err != nil {
		return errors.Wrap(err, "mode")
	}
	if tx.RemoteAccount, err = copyBytes(d.BytesWithUInt32Len()); err != nil {
		return errors.Wrap(err, "remoteAccount")
	}
	return nil
}

func deserializeMultisigAggregateModification(d *deserializer.Deserializer, tx *MultisigAggregateModification) error {
	n, err := d.Uint32()
	if err != nil {
		return errors.Wrap(err, "modifications")
	}
	tx.Modifications = make([]Modification, 0, min(int(n), d.Len()))
	for i := uint32(0); i < n; i++ {
		var m Modification
		if err := d.Expect(modificationLen); err != nil {
			return errors.Wrapf(err, "modification %d", i)
		}
		if m.ModificationType, err = d.Uint32(); err != nil {
			return errors.Wrapf(err, "modification %d", i)
		}
		if err := d.Expect(cosignatoryKeyLen); err != nil {
			return errors.Wrapf(err, "modification %d", i)
		}
		if m.CosignatoryAccount, err = copyBytes(d.Bytes(cosignatoryKeyLen)); err != nil {
			return errors.Wrapf(err, "modification %d", i)
		}
		tx.Modifications = append(tx.Modifications, m)
	}
	if err := d.Expect(minCosignatoriesLen); err != nil {
		return errors.Wrap(err, "minCosignatories")
	}
	change, err := d.Int32()
	if err != nil {
		return errors.Wrap(err, "minCosignatories")
	}
	tx.MinCosignatories = &MinCosignatories{RelativeChange: change}
	return nil
}

func deserializeMultisigSignature(d *deserializer.Deserializer, tx *MultisigSignature) error {
	sub, err := d.Sub()
	if err != nil {
		return errors.Wrap(err, "otherHash")
	}
	if tx.OtherHash.Data, err = copyBytes(sub.BytesWithUInt32Len()); err != nil {
		return errors.Wrap(err, "otherHash")
	}
	if sub.Len() != 0 {
		return errors.New("otherHash: unexpected trailing bytes")
	}
	if tx.OtherAccount, err = presentString(d); err != nil {
		return errors.Wrap(err, "otherAccount")
	}
	return nil
}

func deserializeMultisig(d *deserializer.Deserializer, tx *Multisig) error {
	sub, err := d.Sub()
	if err != nil {
		return errors.Wrap(err, "otherTrans")
	}
	inner, err := deserializeTransaction(sub, true)
	if err != nil {
		return errors.Wrap(err, "otherTrans")
	}
	if sub.Len() != 0 {
		return errors.New("otherTrans: unexpected trailing bytes")
	}
	tx.OtherTrans = inner
	return nil
}

func deserializeProvisionNamespace(d *deserializer.Deserializer, tx *ProvisionNamespace) error {
	var err error
	if tx.RentalFeeSink, err = presentString(d); err != nil {
		return errors.Wrap(err, "rentalFeeSink")
	}
	if tx.RentalFee, err = d.Uint64(); err != nil {
		return errors.Wrap(err, "rentalFee")
	}
	if tx.NewPart, err = presentString(d); err != nil {
		return errors.Wrap(err, "newPart")
	}
	if tx.Parent, err = d.SafeString(); err != nil {
		return errors.Wrap(err, "parent")
	}
	return nil
}

func deserializeMosaicDefinitionCreation(d *deserializer.Deserializer, tx *MosaicDefinitionCreation) error {
	var err error
	if tx.MosaicDefinition, err = deserializeMosaicDefinition(d); err != nil {
		return errors.Wrap(err, "mosaicDefinition")
	}
	if tx.CreationFeeSink, err = presentString(d); err != nil {
		return errors.Wrap(err, "creationFeeSink")
	}
	if tx.CreationFee, err = d.Uint64(); err != nil {
		return errors.Wrap(err, "creationFee")
	}
	return nil
}

func deserializeMosaicSupplyChange(d *deserializer.Deserializer, tx *MosaicSupplyChange) error {
	var err error
	if tx.MosaicID, err = deserializeMosaicID(d); err != nil {
		return errors.Wrap(err, "mosaicId")
	}
	if tx.SupplyType, err = d.Uint32(); err != nil {
		return errors.Wrap(err, "supplyType")
	}
	if tx.Delta, err = d.Uint64(); err != nil {
		return errors.Wrap(err, "delta")
	}
	return nil
}

func deserializeMosaicDefinition(d *deserializer.Deserializer) (MosaicDefinition, error) {
	var (
		md  MosaicDefinition
		err error
	)
	sub, err := d.Sub()
	if err != nil {
		return md, err
	}
	if md.Creator, err = copyBytes(sub.BytesWithUInt32Len()); err != nil {
		return md, errors.Wrap(err, "creator")
	}
	if md.ID, err = deserializeMosaicID(sub); err != nil {
		return md, errors.Wrap(err, "id")
	}
	if md.Description, err = presentString(sub); err != nil {
		return md, errors.Wrap(err, "description")
	}
	n, err := sub.Uint32()
	if err != nil {
		return md, errors.Wrap(err, "properties")
	}
	md.Properties = make([]Property, 0, min(int(n), sub.Len()))
	for i := uint32(0); i < n; i++ {
		p, err := deserializeProperty(sub)
		if err != nil {
			return md, errors.Wrapf(err, "property %d", i)
		}
		md.Properties = append(md.Properties, p)
	}
	if md.Levy, err = deserializeLevy(sub); err != nil {
		return md, errors.Wrap(err, "levy")
	}
	if sub.Len() != 0 {
		return md, errors.New("unexpected trailing bytes")
	}
	return md, nil
}

func deserializeProperty(d *deserializer.Deserializer) (Property, error) {
	var (
		p   Property
		err error
	)
	sub, err := d.Sub()
	if err != nil {
		return p, err
	}
	if p.Name, err = presentString(sub); err != nil {
		return p, err
	}
	if p.Value, err = presentString(sub); err != nil {
		return p, err
	}
	return p, nil
}

func deserializeLevy(d *deserializer.Deserializer) (*Levy, error) {
	sub, err := d.Sub()
	if err != nil {
		return nil, err
	}
	if sub.Len() == 0 {
		return nil, nil
	}
	l := &Levy{}
	if l.Type, err = sub.Uint32(); err != nil {
		return nil, err
	}
	if l.Recipient, err = presentString(sub); err != nil {
		return nil, err
	}
	if l.MosaicID, err = deserializeMosaicID(sub); err != nil {
		return nil, err
	}
	if l.Fee, err = sub.Uint64(); err != nil {
		return nil, err
	}
	return l, nil
}

func deserializeMosaicID(d *deserializer.Deserializer) (MosaicID, error) {
	var (
		id  MosaicID
		err error
	)
	sub, err := d.Sub()
	if err != nil {
		return id, err
	}
	if id.NamespaceID, err = presentString(sub); err != nil {
		return id, errors.Wrap(err, "namespaceId")
	}
	if id.Name, err = presentString(sub); err != nil {
		return id, errors.Wrap(err, "name")
	}
	return id, nil
}

// presentString reads a string that may not be absent.
func presentString(d *deserializer.Deserializer) (string, error) {
	s, err := d.SafeString()
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", errors.New("unexpected absent value")
	}
	return *s, nil
}

func copyBytes(b []byte, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
