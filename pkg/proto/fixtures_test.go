package proto

import (
	"encoding/binary"
)

const (
	testSigner      = "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04"
	testCosignatory = "462ee976890916e54fa825d26bdd0235f5eb5b6a143c199ab0ae5ee9328e08ce"
	testRemote      = "cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04d90c08"
	testInnerHash   = "44e4968e5aa35fe182d4def5958e23cf941c9b7f52ccf10e8bc6a0ef4b6a4b2a"
	testRecipient   = "TALICEROONSJCPHC63F52V6FY3SDMSVAEUGHMB7C"
	testNetworkV1   = 0x98000001
	testNetworkV2   = 0x98000002
)

func testCommon(t TransactionType, version Version) Common {
	return Common{
		Type:      t,
		Version:   version,
		TimeStamp: 9111526,
		Signer:    MustHexBytesFromString(testSigner),
		Fee:       50000,
		Deadline:  9154726,
	}
}

func strPtr(s string) *string {
	return &s
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func str(s string) []byte {
	return cat(le32(uint32(len(s))), []byte(s))
}

func block(parts ...[]byte) []byte {
	b := cat(parts...)
	return cat(le32(uint32(len(b))), b)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func testHeader(t TransactionType, version Version) []byte {
	return cat(
		le32(uint32(t)),
		le32(uint32(version)),
		le32(9111526),
		block(MustHexBytesFromString(testSigner)),
		le64(50000),
		le32(9154726),
	)
}

func testTransfer() *Transfer {
	return &Transfer{
		Common:    testCommon(TransferTransaction, testNetworkV1),
		Recipient: testRecipient,
		Amount:    1000000,
	}
}

func testMosaicDefinitionCreation() *MosaicDefinitionCreation {
	return &MosaicDefinitionCreation{
		Common: testCommon(MosaicDefinitionCreationTransaction, testNetworkV1),
		MosaicDefinition: MosaicDefinition{
			Creator:     MustHexBytesFromString(testSigner),
			ID:          MosaicID{NamespaceID: "alice.vouchers", Name: "alice's gift vouchers"},
			Description: "precious vouchers",
			Properties: []Property{
				{Name: "divisibility", Value: "3"},
				{Name: "initialSupply", Value: "1000"},
				{Name: "supplyMutable", Value: "true"},
				{Name: "transferable", Value: "false"},
			},
			Levy: &Levy{
				Type:      AbsoluteLevy,
				Recipient: testRecipient,
				MosaicID:  MosaicID{NamespaceID: "nem", Name: "xem"},
				Fee:       10,
			},
		},
		CreationFeeSink: "TBMOSAICOD4F54EE5CDMR23CCBGOAM2XSJBR5OLC",
		CreationFee:     10000000,
	}
}

// allTestTransactions returns one transaction of each type, with fields the decoder restores exactly.
func allTestTransactions() []Transaction {
	return []Transaction{
		testTransfer(),
		&Transfer{
			Common:    testCommon(TransferTransaction, testNetworkV2),
			Recipient: testRecipient,
			Amount:    0,
			Message:   &Message{Payload: []byte("hello"), Type: PlainMessage},
			Mosaics: []MosaicAttachment{
				{MosaicID: MosaicID{NamespaceID: "nem", Name: "xem"}, Quantity: 1500000},
				{MosaicID: MosaicID{NamespaceID: "alice.vouchers", Name: "gift"}, Quantity: 1},
			},
		},
		&ImportanceTransfer{
			Common:        testCommon(ImportanceTransferTransaction, testNetworkV1),
			Mode:          ActivateRemoteHarvesting,
			RemoteAccount: MustHexBytesFromString(testRemote),
		},
		&MultisigAggregateModification{
			Common: testCommon(MultisigAggregateModificationTransaction, testNetworkV2),
			Modifications: []Modification{
				{ModificationType: AddCosignatory, CosignatoryAccount: MustHexBytesFromString(testCosignatory)},
				{ModificationType: DeleteCosignatory, CosignatoryAccount: MustHexBytesFromString(testRemote)},
			},
			MinCosignatories: &MinCosignatories{RelativeChange: -1},
		},
		&MultisigSignature{
			Common:       testCommon(MultisigSignatureTransaction, testNetworkV1),
			OtherHash:    OtherHash{Data: MustHexBytesFromString(testInnerHash)},
			OtherAccount: "TBUSUKWVVPS7LZO4ZOQS7CLQSNCNGS2VGTFTAZAS",
		},
		&Multisig{
			Common:     testCommon(MultisigTransaction, testNetworkV1),
			OtherTrans: testTransfer(),
		},
		&ProvisionNamespace{
			Common:        testCommon(ProvisionNamespaceTransaction, testNetworkV1),
			RentalFeeSink: "TAMESPACEWH4MKFMBCVFERDPOOP4FK7MTDJEYP35",
			RentalFee:     100000000,
			NewPart:       "vouchers",
			Parent:        strPtr("alice"),
		},
		&ProvisionNamespace{
			Common:        testCommon(ProvisionNamespaceTransaction, testNetworkV1),
			RentalFeeSink: "TAMESPACEWH4MKFMBCVFERDPOOP4FK7MTDJEYP35",
			RentalFee:     5000000000,
			NewPart:       "alice",
		},
		testMosaicDefinitionCreation(),
		&MosaicSupplyChange{
			Common:     testCommon(MosaicSupplyChangeTransaction, testNetworkV1),
			MosaicID:   MosaicID{NamespaceID: "alice.vouchers", Name: "gift"},
			SupplyType: IncreaseSupply,
			Delta:      5000,
		},
	}
}
