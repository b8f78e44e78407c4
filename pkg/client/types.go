package client

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/wavesplatform/gonem/pkg/proto"
)

// Result codes of a NIS announce result.
const (
	AnnounceCodeNeutral = 0
	AnnounceCodeSuccess = 1
)

// HashData is the way NIS wraps hashes: {"data": "<hex>"}, or {} when there is no hash.
type HashData struct {
	Data proto.HexBytes `json:"data,omitempty"`
}

func (h HashData) Empty() bool {
	return len(h.Data) == 0
}

// AnnounceResult is the node's answer to an announce request.
type AnnounceResult struct {
	Type                 int      `json:"type"`
	Code                 int      `json:"code"`
	Message              string   `json:"message"`
	TransactionHash      HashData `json:"transactionHash"`
	InnerTransactionHash HashData `json:"innerTransactionHash"`
}

func (r AnnounceResult) Ok() bool {
	return r.Code == AnnounceCodeSuccess
}

type TransactionMetaData struct {
	ID        int64    `json:"id"`
	Height    uint64   `json:"height"`
	Hash      HashData `json:"hash"`
	InnerHash HashData `json:"innerHash"`
}

// TransactionMetaDataPair is a confirmed transaction together with its block metadata.
type TransactionMetaDataPair struct {
	Meta        TransactionMetaData
	Transaction proto.Transaction
	Signature   proto.HexBytes
}

func (p *TransactionMetaDataPair) UnmarshalJSON(data []byte) error {
	tmp := struct {
		Meta        TransactionMetaData `json:"meta"`
		Transaction json.RawMessage     `json:"transaction"`
	}{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	tx, err := proto.UnmarshalTransactionJSON(tmp.Transaction)
	if err != nil {
		return errors.Wrap(err, "transaction")
	}
	sig, err := signatureOf(tmp.Transaction)
	if err != nil {
		return err
	}
	p.Meta = tmp.Meta
	p.Transaction = tx
	p.Signature = sig
	return nil
}

// TransactionsField decodes a JSON array of mixed transaction types.
type TransactionsField []proto.Transaction

func (tf *TransactionsField) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "TransactionsField: UnmarshalJSON")
	}
	out := make([]proto.Transaction, len(raw))
	for i, r := range raw {
		tx, err := proto.UnmarshalTransactionJSON(r)
		if err != nil {
			return errors.Wrapf(err, "transaction %d", i)
		}
		out[i] = tx
	}
	*tf = out
	return nil
}

// Block is a NIS block as reported by the explorer endpoints.
type Block struct {
	TimeStamp     uint32            `json:"timeStamp"`
	Signature     proto.HexBytes    `json:"signature"`
	PrevBlockHash HashData          `json:"prevBlockHash"`
	Type          int               `json:"type"`
	Transactions  TransactionsField `json:"transactions"`
	Version       proto.Version     `json:"version"`
	Signer        proto.HexBytes    `json:"signer"`
	Height        uint64            `json:"height"`
}

// ExplorerTransfer is a transaction of an explorer block with its hashes.
type ExplorerTransfer struct {
	Tx        proto.Transaction
	Hash      proto.HexBytes
	InnerHash proto.HexBytes
	Signature proto.HexBytes
}

func (e *ExplorerTransfer) UnmarshalJSON(data []byte) error {
	tmp := struct {
		Tx        json.RawMessage `json:"tx"`
		Hash      proto.HexBytes  `json:"hash"`
		InnerHash proto.HexBytes  `json:"innerHash"`
	}{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	tx, err := proto.UnmarshalTransactionJSON(tmp.Tx)
	if err != nil {
		return errors.Wrap(err, "tx")
	}
	sig, err := signatureOf(tmp.Tx)
	if err != nil {
		return err
	}
	*e = ExplorerTransfer{Tx: tx, Hash: tmp.Hash, InnerHash: tmp.InnerHash, Signature: sig}
	return nil
}

type ExplorerBlock struct {
	Txes       []ExplorerTransfer `json:"txes"`
	Block      Block              `json:"block"`
	Hash       proto.HexBytes     `json:"hash"`
	Difficulty uint64             `json:"difficulty"`
}

func signatureOf(tx []byte) (proto.HexBytes, error) {
	r := gjson.GetBytes(tx, "signature")
	if !r.Exists() {
		return nil, nil
	}
	sig, err := proto.NewHexBytesFromString(r.String())
	if err != nil {
		return nil, errors.Wrap(err, "signature")
	}
	return sig, nil
}
