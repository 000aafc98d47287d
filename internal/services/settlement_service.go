package services

import (
	"encoding/xml"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
	"github.com/vesseliq/backend/internal/models"
)

// SettlementService builds ISO 20022 messages for the fiat leg of credit
// purchases. Credit purchases settle against the operator's bank through
// pacs.008 credit transfers; pacs.002 status reports acknowledge them.
type SettlementService struct {
	validator *ValidationHelper
}

func NewSettlementService() *SettlementService {
	return &SettlementService{
		validator: NewValidationHelper(),
	}
}

// SettlePurchase validates the transfer, builds the pacs.008 message and
// hands it to the settlement system. Returns the generated message id.
func (ss *SettlementService) SettlePurchase(transfer *models.SettlementTransfer) (string, error) {
	if err := ss.validator.ValidateStruct(transfer); err != nil {
		return "", fmt.Errorf("invalid settlement transfer: %w", err)
	}

	pacs008, err := ss.CreatePacs008(transfer)
	if err != nil {
		return "", err
	}

	if err := ss.SendToSettlement(pacs008); err != nil {
		return "", err
	}

	transfer.Status = "SETTLED"
	return string(pacs008.GrpHdr.MsgId), nil
}

// AcknowledgePurchase builds and dispatches the pacs.002 status report for a
// settled transfer. Status is an external payment status code (ACCP, RJCT,
// ACSC).
func (ss *SettlementService) AcknowledgePurchase(transfer *models.SettlementTransfer, status string) error {
	pacs002, err := ss.CreatePacs002(transfer, status)
	if err != nil {
		return err
	}
	return ss.SendToSettlement(pacs002)
}

func (ss *SettlementService) SendToSettlement(doc interface{}) error {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal XML: %w", err)
	}

	// TODO: post to the settlement gateway once ops provisions the endpoint
	log.Printf("[SETTLEMENT] Dispatching message (%d bytes)", len(xmlData))
	return nil
}

// CreatePacs008 creates a pacs.008 FIToFICustomerCreditTransfer message for
// the fiat leg of a credit purchase.
func (ss *SettlementService) CreatePacs008(transfer *models.SettlementTransfer) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	msgId := uuid.New().String()
	creDtTm := time.Now()
	settlementDate := time.Now()

	doc := &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:   common.Max35Text(msgId),
			CreDtTm: common.ISODateTime(creDtTm),
			NbOfTxs: "1",
			TtlIntrBkSttlmAmt: &pacs_v08.ActiveCurrencyAndAmount{
				Ccy:   common.ActiveCurrencyCode(transfer.Currency),
				Value: transfer.Amount,
			},
			IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG", // Clearing
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    &[]common.Max35Text{common.Max35Text(transfer.TransactionID)}[0],
					EndToEndId: common.Max35Text(transfer.ReferenceID),
					TxId:       &[]common.Max35Text{common.Max35Text(transfer.TransactionID)}[0],
				},
				IntrBkSttlmAmt: pacs_v08.ActiveCurrencyAndAmount{
					Ccy:   common.ActiveCurrencyCode(transfer.Currency),
					Value: transfer.Amount,
				},
				IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
				ChrgBr:        "SLEV",
				DbtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier("VESSELIQ")}[0],
					},
				},
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(transfer.FromAccount)}[0],
				},
				CdtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						ClrSysMmbId: &pacs_v08.ClearingSystemMemberIdentification2{
							MmbId: common.Max35Text(transfer.BankCode),
						},
					},
				},
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(transfer.ToAccount)}[0],
				},
			},
		},
	}

	return doc, nil
}

// CreatePacs002 creates a pacs.002 payment status report.
func (ss *SettlementService) CreatePacs002(transfer *models.SettlementTransfer, status string) (*pacs_v08.FIToFIPaymentStatusReportV08, error) {
	msgId := uuid.New().String()
	creDtTm := time.Now()

	doc := &pacs_v08.FIToFIPaymentStatusReportV08{
		GrpHdr: pacs_v08.GroupHeader53{
			MsgId:   common.Max35Text(msgId),
			CreDtTm: common.ISODateTime(creDtTm),
		},
		TxInfAndSts: []pacs_v08.PaymentTransaction80{
			{
				OrgnlInstrId:    &[]common.Max35Text{common.Max35Text(transfer.TransactionID)}[0],
				OrgnlEndToEndId: &[]common.Max35Text{common.Max35Text(transfer.ReferenceID)}[0],
				OrgnlTxId:       &[]common.Max35Text{common.Max35Text(transfer.TransactionID)}[0],
				TxSts:           &[]pacs_v08.ExternalPaymentTransactionStatus1Code{pacs_v08.ExternalPaymentTransactionStatus1Code(status)}[0],
			},
		},
	}

	return doc, nil
}

// ConvertToXML converts an ISO 20022 document to an XML string.
func (ss *SettlementService) ConvertToXML(doc interface{}) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}
