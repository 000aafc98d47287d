package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vesseliq/backend/internal/models"
)

func testTransfer() *models.SettlementTransfer {
	return &models.SettlementTransfer{
		TransactionID: "tx123",
		ReferenceID:   "ref123",
		FromAccount:   "NO9386011117947",
		ToAccount:     "1234567890",
		Amount:        499.00,
		Currency:      "EUR",
		BankCode:      "DNBANOKK",
	}
}

func TestSettlementService_SettlePurchase(t *testing.T) {
	service := NewSettlementService()

	t.Run("successful settlement", func(t *testing.T) {
		transfer := testTransfer()

		msgID, err := service.SettlePurchase(transfer)
		assert.NoError(t, err)
		assert.NotEmpty(t, msgID)
		assert.Equal(t, "SETTLED", transfer.Status)
	})

	t.Run("invalid transfer is rejected before building the message", func(t *testing.T) {
		transfer := testTransfer()
		transfer.Currency = "EURO" // not a 3-letter code

		_, err := service.SettlePurchase(transfer)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid settlement transfer")
		assert.Empty(t, transfer.Status)
	})
}

func TestSettlementService_CreatePacs008(t *testing.T) {
	service := NewSettlementService()

	t.Run("create valid pacs008", func(t *testing.T) {
		transfer := testTransfer()

		doc, err := service.CreatePacs008(transfer)
		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.NotEmpty(t, doc.GrpHdr.MsgId)
		assert.Equal(t, "1", string(doc.GrpHdr.NbOfTxs))
		assert.Equal(t, "EUR", string(doc.GrpHdr.TtlIntrBkSttlmAmt.Ccy))
		assert.Equal(t, transfer.Amount, doc.GrpHdr.TtlIntrBkSttlmAmt.Value)
		assert.Len(t, doc.CdtTrfTxInf, 1)
		assert.Equal(t, string(*doc.CdtTrfTxInf[0].PmtId.InstrId), transfer.TransactionID)
		assert.Equal(t, string(doc.CdtTrfTxInf[0].PmtId.EndToEndId), transfer.ReferenceID)
	})
}

func TestSettlementService_CreatePacs002(t *testing.T) {
	service := NewSettlementService()

	t.Run("create valid pacs002", func(t *testing.T) {
		transfer := testTransfer()

		doc, err := service.CreatePacs002(transfer, "ACCP")
		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.NotEmpty(t, doc.GrpHdr.MsgId)
		assert.Len(t, doc.TxInfAndSts, 1)
		assert.Equal(t, string(*doc.TxInfAndSts[0].OrgnlInstrId), transfer.TransactionID)
		assert.Equal(t, string(*doc.TxInfAndSts[0].OrgnlEndToEndId), transfer.ReferenceID)
		assert.Equal(t, string(*doc.TxInfAndSts[0].TxSts), "ACCP")
	})
}

func TestSettlementService_ConvertToXML(t *testing.T) {
	service := NewSettlementService()

	t.Run("convert to XML", func(t *testing.T) {
		doc, err := service.CreatePacs008(testTransfer())
		assert.NoError(t, err)

		xmlString, err := service.ConvertToXML(doc)
		assert.NoError(t, err)
		assert.NotEmpty(t, xmlString)
		assert.Contains(t, xmlString, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
		assert.Contains(t, xmlString, "tx123")
		assert.Contains(t, xmlString, "EUR")
	})

	t.Run("convert invalid struct", func(t *testing.T) {
		invalidStruct := make(chan int)

		xmlString, err := service.ConvertToXML(invalidStruct)
		assert.Error(t, err)
		assert.Empty(t, xmlString)
		assert.Contains(t, err.Error(), "failed to marshal XML")
	})
}

func TestSettlementService_SendToSettlement(t *testing.T) {
	service := NewSettlementService()

	t.Run("send to settlement", func(t *testing.T) {
		doc, err := service.CreatePacs008(testTransfer())
		assert.NoError(t, err)

		err = service.SendToSettlement(doc)
		assert.NoError(t, err)
	})

	t.Run("send invalid document", func(t *testing.T) {
		invalidDoc := make(chan int)

		err := service.SendToSettlement(invalidDoc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal XML")
	})
}
