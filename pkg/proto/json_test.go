package proto

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/gonem/pkg/errs"
)

const transferJSON = `{
	"timeStamp": 9111526,
	"amount": 1000000,
	"fee": 50000,
	"recipient": "TALICEROONSJCPHC63F52V6FY3SDMSVAEUGHMB7C",
	"type": 257,
	"deadline": 9154726,
	"message": {},
	"version": -1744830463,
	"signer": "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04"
}`

func TestUnmarshalTransactionJSONTransfer(t *testing.T) {
	tx, err := UnmarshalTransactionJSON([]byte(transferJSON))
	require.NoError(t, err)
	transfer, ok := tx.(*Transfer)
	require.True(t, ok)
	assert.Equal(t, Version(testNetworkV1), transfer.Version)
	assert.Equal(t, byte(0x98), transfer.Version.Network())
	assert.Equal(t, byte(1), transfer.Version.Number())

	fromJSON, err := MarshalTransaction(tx)
	require.NoError(t, err)
	expected, err := MarshalTransaction(testTransfer())
	require.NoError(t, err)
	assert.Equal(t, expected, fromJSON)

	b, err := EncodeDescriptor([]byte(transferJSON))
	require.NoError(t, err)
	assert.Equal(t, expected, b)
}

func TestUnmarshalTransactionJSONMultisig(t *testing.T) {
	data := `{
		"type": 4100,
		"version": 2550136833,
		"timeStamp": 9111526,
		"signer": "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04",
		"fee": 50000,
		"deadline": 9154726,
		"otherTrans": ` + transferJSON + `
	}`
	tx, err := UnmarshalTransactionJSON([]byte(data))
	require.NoError(t, err)
	ms, ok := tx.(*Multisig)
	require.True(t, ok)
	require.IsType(t, &Transfer{}, ms.OtherTrans)

	b, err := MarshalTransaction(tx)
	require.NoError(t, err)
	expected, err := MarshalTransaction(&Multisig{Common: testCommon(MultisigTransaction, testNetworkV1), OtherTrans: testTransfer()})
	require.NoError(t, err)
	assert.Equal(t, expected, b)
}

func TestUnmarshalTransactionJSONMosaicDefinition(t *testing.T) {
	data := `{
		"type": 16385, "version": 2550136833, "timeStamp": 9111526, "fee": 50000, "deadline": 9154726,
		"signer": "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04",
		"creationFeeSink": "TBMOSAICOD4F54EE5CDMR23CCBGOAM2XSJBR5OLC",
		"creationFee": 10000000,
		"mosaicDefinition": {
			"creator": "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04",
			"id": {"namespaceId": "alice.vouchers", "name": "alice's gift vouchers"},
			"description": "precious vouchers",
			"properties": [
				{"name": "transferable", "value": "false"},
				{"name": "supplyMutable", "value": "true"},
				{"name": "initialSupply", "value": "1000"},
				{"name": "divisibility", "value": "3"}
			],
			"levy": {
				"type": 1,
				"recipient": "TALICEROONSJCPHC63F52V6FY3SDMSVAEUGHMB7C",
				"mosaicId": {"namespaceId": "nem", "name": "xem"},
				"fee": 10
			}
		}
	}`
	b, err := EncodeDescriptor([]byte(data))
	require.NoError(t, err)
	expected, err := MarshalTransaction(testMosaicDefinitionCreation())
	require.NoError(t, err)
	assert.Equal(t, expected, b)
}

func TestUnmarshalTransactionJSONNamespaceParent(t *testing.T) {
	for _, test := range []struct {
		parent   string
		expected *string
	}{
		{`"parent": null,`, nil},
		{``, nil},
		{`"parent": "",`, strPtr("")},
		{`"parent": "alice",`, strPtr("alice")},
	} {
		data := `{"type": 8193, "version": 2550136833, "newPart": "vouchers", ` + test.parent + ` "rentalFee": 1}`
		tx, err := UnmarshalTransactionJSON([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, test.expected, tx.(*ProvisionNamespace).Parent, test.parent)
	}
}

func TestTransactionFromMap(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(transferJSON), &m))
	tx, err := TransactionFromMap(m)
	require.NoError(t, err)
	b, err := MarshalTransaction(tx)
	require.NoError(t, err)
	expected, err := MarshalTransaction(testTransfer())
	require.NoError(t, err)
	assert.Equal(t, expected, b)
}

func TestUnmarshalTransactionJSONErrors(t *testing.T) {
	for _, test := range []struct {
		data  string
		field string
	}{
		{`{"type": 257, "signer": "zz"}`, "signer"},
		{`{"type": 257, "amount": "many"}`, "amount"},
		{`{"type": 257, "amount": -1}`, "amount"},
		{`{"type": 257, "version": "one"}`, "version"},
		{`{"type": "transfer"}`, "type"},
		{`{"amount": 1}`, "type"},
		{`{"type": 257,`, "descriptor"},
		{`{"type": 16385, "mosaicDefinition": {"creator": "xyz"}}`, "mosaicDefinition.creator"},
		{`{"type": 4100, "otherTrans": {"type": 257, "signer": 5}}`, "otherTrans.signer"},
	} {
		_, err := UnmarshalTransactionJSON([]byte(test.data))
		var fe *errs.MalformedField
		if assert.True(t, errors.As(err, &fe), test.data) {
			assert.Equal(t, test.field, fe.Field(), test.data)
		}
	}
}

func TestJSONFieldPath(t *testing.T) {
	for _, test := range []struct {
		field    string
		expected string
	}{
		{"signer", "signer"},
		{"Common.signer", "signer"},
		{"Common.version", "version"},
		{"otherTrans.Common.signer", "otherTrans.signer"},
		{"mosaicDefinition.creator", "mosaicDefinition.creator"},
	} {
		assert.Equal(t, test.expected, jsonFieldPath(test.field), test.field)
	}
}

func TestUnmarshalTransactionJSONUnsupportedType(t *testing.T) {
	_, err := UnmarshalTransactionJSON([]byte(`{"type": 39321}`))
	assert.ErrorIs(t, err, errs.UnsupportedTransactionType{})

	_, err = EncodeDescriptor([]byte(`{"type": 4100, "otherTrans": {"type": 39321}}`))
	assert.ErrorIs(t, err, errs.UnsupportedTransactionType{})
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	for _, tx := range allTestTransactions() {
		data, err := json.Marshal(tx)
		require.NoError(t, err)
		decoded, err := UnmarshalTransactionJSON(data)
		require.NoError(t, err, string(data))
		assert.Equal(t, tx, decoded)
	}
}

func TestUnmarshalMosaicDefinitionEmptyLevy(t *testing.T) {
	var d MosaicDefinition
	require.NoError(t, json.Unmarshal([]byte(`{"creator": "00", "levy": {}}`), &d))
	assert.Nil(t, d.Levy)

	require.NoError(t, json.Unmarshal([]byte(`{"levy": {"type": 2, "fee": 5}}`), &d))
	require.NotNil(t, d.Levy)
	assert.Equal(t, PercentileLevy, d.Levy.Type)
}
