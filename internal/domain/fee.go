package domain

import "time"

// Fee/fine type discriminators stored in the fees table
const (
	FeeTypeFee  = "Fee"
	FeeTypeFine = "Fine"
)

// Fee statuses
const (
	FeeStatusPending = "Pending"
	FeeStatusPaid    = "Paid"
	FeeStatusOverdue = "Overdue"
)

// AnnualFeeName tags the yearly obligation on persisted fees and on
// qualifying payments.
const AnnualFeeName = "Annual HOA Fee"

// Fee represents a persisted fee or fine row. Fines carry FeeTypeFine; every
// other row is treated as a plain fee.
type Fee struct {
	ID          int64      `json:"id"`
	ResidentID  int64      `json:"resident_id"`
	Year        int        `json:"year,omitempty"`
	Name        string     `json:"name"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	FeeType     string     `json:"fee_type"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address,omitempty"`
	DateIssued  time.Time  `json:"date_issued"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SyntheticFee is the standing annual obligation computed on demand for a
// homeowner. It is never persisted.
type SyntheticFee struct {
	Name    string    `json:"name"`
	Year    int       `json:"year"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"due_date"`
	Status  string    `json:"status"`
	IsLate  bool      `json:"is_late"`
}

// AddFineRequest represents a fine issuance request
type AddFineRequest struct {
	Address     string     `json:"address"`
	HomeownerID int64      `json:"homeowner_id"`
	Amount      float64    `json:"amount"`
	Reason      string     `json:"reason"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateYearFeesRequest represents a bulk year-fee generation request
type CreateYearFeesRequest struct {
	Year        int     `json:"year"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// HomeownerPaymentStatus summarizes one homeowner's standing against the
// annual fee
type HomeownerPaymentStatus struct {
	ResidentID      int64   `json:"resident_id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Address         string  `json:"address"`
	UserType        string  `json:"user_type"`
	PaymentStatus   string  `json:"payment_status"`
	AnnualFeeAmount float64 `json:"annual_fee_amount"`
}
