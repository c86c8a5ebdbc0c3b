package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeTransactionPriced   = "transaction.priced"
	EventTypeTransactionRejected = "transaction.rejected"
)

type TransactionPricedEvent struct {
	BaseEvent
	PartnerKey         string          `json:"partner_key"`
	PartnerRefNo       string          `json:"partner_ref_no"`
	TotalAmount        int64           `json:"total_amount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
}

func NewTransactionPricedEvent(partnerKey, partnerRefNo string, totalAmount int64, pct, totalDiscount, finalAmount decimal.Decimal) *TransactionPricedEvent {
	return &TransactionPricedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionPriced,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"partner_key":         partnerKey,
				"partner_ref_no":      partnerRefNo,
				"total_amount":        totalAmount,
				"discount_percentage": pct.String(),
				"total_discount":      totalDiscount.String(),
				"final_amount":        finalAmount.String(),
			},
		},
		PartnerKey:         partnerKey,
		PartnerRefNo:       partnerRefNo,
		TotalAmount:        totalAmount,
		DiscountPercentage: pct,
		TotalDiscount:      totalDiscount,
		FinalAmount:        finalAmount,
	}
}

type TransactionRejectedEvent struct {
	BaseEvent
	PartnerKey   string   `json:"partner_key"`
	PartnerRefNo string   `json:"partner_ref_no"`
	Reasons      []string `json:"reasons"`
}

func NewTransactionRejectedEvent(partnerKey, partnerRefNo string, reasons []string) *TransactionRejectedEvent {
	return &TransactionRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionRejected,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"partner_key":    partnerKey,
				"partner_ref_no": partnerRefNo,
				"reasons":        reasons,
			},
		},
		PartnerKey:   partnerKey,
		PartnerRefNo: partnerRefNo,
		Reasons:      reasons,
	}
}

// AuditLogger returns a handler that writes every transaction event to lg.
func AuditLogger(lg *slog.Logger) Handler {
	return func(_ context.Context, event Event) error {
		lg.Info("transaction audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
}
