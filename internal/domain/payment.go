package domain

import "time"

// Payment statuses as reported by the payment processors
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"

	// PaymentStatusPaid marks a settled fee payment; the annual-fee predicate
	// matches on this value.
	PaymentStatusPaid = "Paid"
)

// Payment represents a payment record against a fee or fine
type Payment struct {
	ID                int64             `json:"id"`
	ResidentID        int64             `json:"resident_id"`
	FeeID             *int64            `json:"fee_id,omitempty"`
	FineID            *int64            `json:"fine_id,omitempty"`
	Amount            float64           `json:"amount"`
	Currency          string            `json:"currency"`
	Status            string            `json:"status"`
	FeeType           string            `json:"fee_type,omitempty"`
	PaymentMethod     string            `json:"payment_method"`
	ExternalPaymentID string            `json:"external_payment_id,omitempty"`
	PaymentDate       time.Time         `json:"payment_date"`
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// RecordPaymentRequest represents a payment creation request
type RecordPaymentRequest struct {
	FeeID         *int64            `json:"fee_id"`
	FineID        *int64            `json:"fine_id"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	FeeType       string            `json:"fee_type"`
	PaymentMethod string            `json:"payment_method"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata"`
}

// ConfirmPaymentRequest carries a processor confirmation outcome
type ConfirmPaymentRequest struct {
	Status string `json:"status"`
}

// PaymentStats aggregates a resident's payment history by status
type PaymentStats struct {
	ResidentID             int64   `json:"resident_id"`
	TotalPaid              float64 `json:"total_paid"`
	TotalPending           float64 `json:"total_pending"`
	TotalFailed            float64 `json:"total_failed"`
	TotalTransactions      int     `json:"total_transactions"`
	SuccessfulTransactions int     `json:"successful_transactions"`
}
