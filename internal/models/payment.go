package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment tracks a Razorpay order through signature verification.
// A failed verification is terminal; reconciliation is manual.
type Payment struct {
	Base
	UserID            string            `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpenseID         *string           `gorm:"type:uuid" json:"expense_id,omitempty"`
	Amount            decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency          string            `gorm:"size:3;not null;default:INR" json:"currency"`
	Status            PaymentStatus     `gorm:"not null;default:created" json:"status"`
	RazorpayOrderID   string            `gorm:"uniqueIndex;not null" json:"razorpay_order_id"`
	RazorpayPaymentID string            `json:"razorpay_payment_id,omitempty"`
	Signature         string            `json:"-"`
	Notes             map[string]string `gorm:"serializer:json" json:"notes,omitempty"`
	VerifiedAt        *time.Time        `json:"verified_at,omitempty"`
}
