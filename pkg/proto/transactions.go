package proto

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/wavesplatform/gonem/pkg/crypto"
	"github.com/wavesplatform/gonem/pkg/errs"
)

// TransactionType is the numeric tag NIS puts at the head of every transaction.
type TransactionType uint32

// All transaction types supported.
const (
	TransferTransaction                      TransactionType = 0x0101
	ImportanceTransferTransaction            TransactionType = 0x0801
	MultisigAggregateModificationTransaction TransactionType = 0x1001
	MultisigSignatureTransaction             TransactionType = 0x1002
	MultisigTransaction                      TransactionType = 0x1004
	ProvisionNamespaceTransaction            TransactionType = 0x2001
	MosaicDefinitionCreationTransaction      TransactionType = 0x4001
	MosaicSupplyChangeTransaction            TransactionType = 0x4002
)

func (t TransactionType) String() string {
	switch t {
	case TransferTransaction:
		return "Transfer"
	case ImportanceTransferTransaction:
		return "ImportanceTransfer"
	case MultisigAggregateModificationTransaction:
		return "MultisigAggregateModification"
	case MultisigSignatureTransaction:
		return "MultisigSignature"
	case MultisigTransaction:
		return "Multisig"
	case ProvisionNamespaceTransaction:
		return "ProvisionNamespace"
	case MosaicDefinitionCreationTransaction:
		return "MosaicDefinitionCreation"
	case MosaicSupplyChangeTransaction:
		return "MosaicSupplyChange"
	default:
		return fmt.Sprintf("TransactionType(0x%04x)", uint32(t))
	}
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransferTransaction, ImportanceTransferTransaction, MultisigAggregateModificationTransaction,
		MultisigSignatureTransaction, MultisigTransaction, ProvisionNamespaceTransaction,
		MosaicDefinitionCreationTransaction, MosaicSupplyChangeTransaction:
		return true
	default:
		return false
	}
}

// Version carries the network identifier in its high byte and the transaction version in the low one,
// e.g. 0x98000001 for version 1 on the test network.
type Version uint32

// NewVersion combines a network identifier and a transaction version.
func NewVersion(network byte, version byte) Version {
	return Version(uint32(network)<<24 | uint32(version))
}

func (v Version) Network() byte {
	return byte(v >> 24)
}

func (v Version) Number() byte {
	return byte(v)
}

// UnmarshalJSON accepts both the unsigned form and the signed 32-bit form NIS nodes respond with.
func (v *Version) UnmarshalJSON(data []byte) error {
	if string(data) == jsonNull {
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil || n < math.MinInt32 || n > math.MaxUint32 {
		return &json.UnmarshalTypeError{Value: "number " + string(data), Type: reflect.TypeOf(*v)}
	}
	*v = Version(uint32(n))
	return nil
}

// Common holds the fields every transaction starts with.
type Common struct {
	Type      TransactionType `json:"type"`
	Version   Version         `json:"version"`
	TimeStamp uint32          `json:"timeStamp"`
	Signer    HexBytes        `json:"signer"`
	Fee       uint64          `json:"fee"`
	Deadline  uint32          `json:"deadline"`
}

func (c *Common) GetCommon() *Common {
	return c
}

// Transaction is implemented only by the eight transaction structs of this package.
type Transaction interface {
	GetType() TransactionType
	GetCommon() *Common
	MarshalBinary() ([]byte, error)
	isTransaction()
}

// Transfer moves XEM and optionally mosaics to a recipient address.
type Transfer struct {
	Common
	Recipient string             `json:"recipient"`
	Amount    uint64             `json:"amount"`
	Message   *Message           `json:"message,omitempty"`
	Mosaics   []MosaicAttachment `json:"mosaics,omitempty"`
}

func (tx *Transfer) GetType() TransactionType {
	return TransferTransaction
}

func (tx *Transfer) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*Transfer) isTransaction() {}

// ImportanceTransfer delegates harvesting to a remote account.
type ImportanceTransfer struct {
	Common
	Mode          uint32   `json:"mode"`
	RemoteAccount HexBytes `json:"remoteAccount"`
}

func (tx *ImportanceTransfer) GetType() TransactionType {
	return ImportanceTransferTransaction
}

func (tx *ImportanceTransfer) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*ImportanceTransfer) isTransaction() {}

// MultisigAggregateModification converts an account to multisig or changes its cosignatories.
// A nil MinCosignatories is written as a zero relative change.
type MultisigAggregateModification struct {
	Common
	Modifications    []Modification    `json:"modifications"`
	MinCosignatories *MinCosignatories `json:"minCosignatories,omitempty"`
}

func (tx *MultisigAggregateModification) GetType() TransactionType {
	return MultisigAggregateModificationTransaction
}

func (tx *MultisigAggregateModification) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*MultisigAggregateModification) isTransaction() {}

// MultisigSignature is a cosignatory's approval of a pending multisig transaction.
type MultisigSignature struct {
	Common
	OtherHash    OtherHash `json:"otherHash"`
	OtherAccount string    `json:"otherAccount"`
}

func (tx *MultisigSignature) GetType() TransactionType {
	return MultisigSignatureTransaction
}

func (tx *MultisigSignature) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*MultisigSignature) isTransaction() {}

// Multisig wraps an inner transaction issued on behalf of a multisig account.
type Multisig struct {
	Common
	OtherTrans Transaction `json:"otherTrans"`
}

func (tx *Multisig) GetType() TransactionType {
	return MultisigTransaction
}

func (tx *Multisig) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*Multisig) isTransaction() {}

// ProvisionNamespace rents a root namespace, or a sub-namespace when Parent is set.
type ProvisionNamespace struct {
	Common
	RentalFeeSink string  `json:"rentalFeeSink"`
	RentalFee     uint64  `json:"rentalFee"`
	NewPart       string  `json:"newPart"`
	Parent        *string `json:"parent"`
}

func (tx *ProvisionNamespace) GetType() TransactionType {
	return ProvisionNamespaceTransaction
}

func (tx *ProvisionNamespace) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*ProvisionNamespace) isTransaction() {}

type MosaicDefinitionCreation struct {
	Common
	MosaicDefinition MosaicDefinition `json:"mosaicDefinition"`
	CreationFeeSink  string           `json:"creationFeeSink"`
	CreationFee      uint64           `json:"creationFee"`
}

func (tx *MosaicDefinitionCreation) GetType() TransactionType {
	return MosaicDefinitionCreationTransaction
}

func (tx *MosaicDefinitionCreation) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*MosaicDefinitionCreation) isTransaction() {}

type MosaicSupplyChange struct {
	Common
	MosaicID   MosaicID `json:"mosaicId"`
	SupplyType uint32   `json:"supplyType"`
	Delta      uint64   `json:"delta"`
}

func (tx *MosaicSupplyChange) GetType() TransactionType {
	return MosaicSupplyChangeTransaction
}

func (tx *MosaicSupplyChange) MarshalBinary() ([]byte, error) {
	return MarshalTransaction(tx)
}

func (*MosaicSupplyChange) isTransaction() {}

// newTransaction returns an empty transaction of the given type.
func newTransaction(t TransactionType) (Transaction, bool) {
	switch t {
	case TransferTransaction:
		return &Transfer{}, true
	case ImportanceTransferTransaction:
		return &ImportanceTransfer{}, true
	case MultisigAggregateModificationTransaction:
		return &MultisigAggregateModification{}, true
	case MultisigSignatureTransaction:
		return &MultisigSignature{}, true
	case MultisigTransaction:
		return &Multisig{}, true
	case ProvisionNamespaceTransaction:
		return &ProvisionNamespace{}, true
	case MosaicDefinitionCreationTransaction:
		return &MosaicDefinitionCreation{}, true
	case MosaicSupplyChangeTransaction:
		return &MosaicSupplyChange{}, true
	default:
		return nil, false
	}
}

// TransactionHash returns the NIS hash of the transaction: Keccak-256 of its canonical bytes.
func TransactionHash(tx Transaction) (crypto.Digest, error) {
	b, err := MarshalTransaction(tx)
	if err != nil {
		return crypto.Digest{}, errors.Wrap(err, "failed to calculate transaction hash")
	}
	return crypto.Keccak256(b), nil
}

// RequestAnnounce is the body of the announce request: canonical bytes and their signature, both in hex.
type RequestAnnounce struct {
	Data      HexBytes `json:"data"`
	Signature HexBytes `json:"signature"`
}

// NewRequestAnnounce pairs the canonical bytes of tx with a signature produced over them by an external signer.
func NewRequestAnnounce(tx Transaction, signature []byte) (RequestAnnounce, error) {
	if l := len(signature); l != crypto.SignatureSize {
		return RequestAnnounce{}, errors.Errorf("invalid signature length %d, expected %d", l, crypto.SignatureSize)
	}
	b, err := MarshalTransaction(tx)
	if err != nil {
		return RequestAnnounce{}, errors.Wrap(err, "failed to create announce request")
	}
	return RequestAnnounce{Data: b, Signature: signature}, nil
}

// VerifySignature reports whether signature was made by the transaction signer over its canonical bytes.
func VerifySignature(tx Transaction, signature []byte) (bool, error) {
	if isNilTransaction(tx) {
		return false, errs.NewMalformedField("transaction", "missing")
	}
	pk, err := crypto.NewPublicKeyFromBytes(tx.GetCommon().Signer)
	if err != nil {
		return false, errs.NewMalformedField("signer", err.Error())
	}
	b, err := MarshalTransaction(tx)
	if err != nil {
		return false, errors.Wrap(err, "failed to verify signature")
	}
	return crypto.Verify(pk, signature, b), nil
}
