package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Payment tracks one gateway order for a booking. The booking may only be
// confirmed after its payment reaches "captured" with a verified signature.
type Payment struct {
	ID                int64         `json:"payment_id"`
	BookingID         string        `json:"booking_id"`
	RazorpayOrderID   string        `json:"razorpay_order_id"`
	RazorpayPaymentID string        `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string        `json:"-"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	Status            PaymentStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
