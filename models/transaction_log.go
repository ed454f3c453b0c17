package models

import "time"

// TransactionLog statuses. Every attempt starts Pending and is
// finalized exactly once; failed attempts are kept, never overwritten.
const (
	TranPending = "pending"
	TranSuccess = "success"
	TranError   = "error"
)

// TransactionLog is the audit row for one card-terminal attempt. It is
// the engine's only durable state and the sole input to sequence
// derivation, so rows are append-only: a retry creates a new row.
type TransactionLog struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	TranCode         string  `gorm:"index;not null" json:"tran_code"`
	TranType         string  `gorm:"not null" json:"tran_type"`
	RequestDocument  string  `gorm:"type:text;not null" json:"request_document"`
	ResponseDocument *string `gorm:"type:text" json:"response_document,omitempty"`
	SequenceNo       string  `gorm:"not null" json:"sequence_no"`
	MerchantID       string  `gorm:"not null" json:"merchant_id"`
	DeviceID         string  `gorm:"index;not null" json:"device_id"`
	InvoiceNo        string  `json:"invoice_no"`
	AmountMinorUnits *int64  `json:"amount,omitempty"`
	OrderID          *uint   `gorm:"index" json:"order_id,omitempty"`
	Status           string  `gorm:"type:enum('pending','success','error');default:'pending'" json:"status"`
	TextResponse     *string `json:"text_response,omitempty"`
	DSIXReturnCode   *string `json:"dsix_return_code,omitempty"`
	BatchNo          *string `json:"batch_no,omitempty"`
	AuthCode         *string `json:"auth_code,omitempty"`
	RefNo            *string `json:"ref_no,omitempty"`
	CardType         *string `json:"card_type,omitempty"`
	CardLast4        *string `json:"card_last4,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
