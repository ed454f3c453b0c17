package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values for an order.
const (
	OrderUnpaid        = "unpaid"
	OrderPartiallyPaid = "partially_paid"
	OrderPaid          = "paid"
	OrderCancelled     = "cancelled"
	OrderReturned      = "returned"
)

// Payment methods.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Split modes for collecting an order across multiple tenders.
const (
	SplitNone     = ""
	SplitByAmount = "amount"
	SplitByItem   = "item"
)

// Order is the payment aggregate. All money fields are minor currency
// units (cents). TotalAmount is derived:
// subtotal + tip - campaign discount - coupon - points, floored at 0.
type Order struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Subtotal       int64   `gorm:"not null;default:0" json:"subtotal"`
	TipAmount      int64   `gorm:"not null;default:0" json:"tip_amount"`
	DiscountAmount int64   `gorm:"not null;default:0" json:"discount_amount"`
	CouponDiscount int64   `gorm:"not null;default:0" json:"coupon_discount"`
	PointsDiscount int64   `gorm:"not null;default:0" json:"points_discount"`
	TotalAmount    int64   `gorm:"not null;default:0" json:"total_amount"`
	PaymentStatus  string  `gorm:"type:enum('unpaid','partially_paid','paid','cancelled','returned');default:'unpaid'" json:"payment_status"`
	SplitMode      string  `gorm:"default:''" json:"split_mode"`
	SplitCount     int     `gorm:"not null;default:0" json:"split_count"`
	Note           *string `gorm:"type:text" json:"note,omitempty"`

	Items    []OrderItem `json:"items"`
	Payments []Payment   `json:"payments"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem tracks PaidQuantity so split-by-item payments can be
// repeated without charging the same unit twice.
type OrderItem struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	OrderID      uint  `gorm:"index;not null" json:"order_id"`
	ItemID       uint  `gorm:"not null" json:"item_id"`
	Item         Item  `json:"item"`
	Quantity     int   `gorm:"not null" json:"quantity"`
	PaidQuantity int   `gorm:"not null;default:0" json:"paid_quantity"`
	UnitPrice    int64 `gorm:"not null" json:"unit_price"`
	OptionPrice  int64 `gorm:"not null;default:0" json:"option_price"`
	Subtotal     int64 `gorm:"not null" json:"subtotal"`
}

// Payment is one recorded tender against an order. TransactionRef
// points at the engine's TransactionLog row for card payments; the
// order never owns that row, it only references it.
type Payment struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderID        uint          `gorm:"index;not null" json:"order_id"`
	Method         string        `gorm:"type:enum('cash','card');not null" json:"method"`
	Amount         int64         `gorm:"not null" json:"amount"`
	TransactionRef *uint         `json:"transaction_ref,omitempty"`
	Items          []PaymentItem `json:"items,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PaymentItem is present only for split-by-item payments.
type PaymentItem struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	PaymentID   uint `gorm:"index;not null" json:"payment_id"`
	OrderItemID uint `gorm:"not null" json:"order_item_id"`
	Quantity    int  `gorm:"not null" json:"quantity"`
}

// RemainingAmount is the unpaid portion of the total, never negative.
func (o *Order) RemainingAmount() int64 {
	remaining := o.TotalAmount - o.PaidAmount()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PaidAmount sums all recorded payments.
func (o *Order) PaidAmount() int64 {
	var sum int64
	for _, p := range o.Payments {
		sum += p.Amount
	}
	return sum
}
