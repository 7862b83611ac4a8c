package domain

import "time"

// Resident represents a member of the community
type Resident struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Address       string    `json:"address"`
	UnitNumber    string    `json:"unit_number,omitempty"`
	IsResident    bool      `json:"is_resident"`
	IsRenter      bool      `json:"is_renter"`
	IsBoardMember bool      `json:"is_board_member"`
	IsActive      bool      `json:"is_active"`
	IsBlocked     bool      `json:"is_blocked"`
	BlockReason   string    `json:"block_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsHomeowner reports whether the resident is subject to annual fees
func (r *Resident) IsHomeowner() bool {
	return r.IsResident && !r.IsRenter
}

// UserType returns the resident's role label used by the ledger
func (r *Resident) UserType() string {
	if r.IsBoardMember {
		return UserTypeBoardMember
	}
	if r.IsHomeowner() {
		return UserTypeHomeowner
	}
	return UserTypeRenter
}

// Resident role labels
const (
	UserTypeHomeowner   = "homeowner"
	UserTypeBoardMember = "board-member"
	UserTypeRenter      = "renter"
)

// CreateResidentRequest represents a resident creation request
type CreateResidentRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Address       string `json:"address"`
	UnitNumber    string `json:"unit_number"`
	IsResident    bool   `json:"is_resident"`
	IsRenter      bool   `json:"is_renter"`
	IsBoardMember bool   `json:"is_board_member"`
}

// UpdateResidentRequest represents a partial resident update. Nil fields are
// left unchanged.
type UpdateResidentRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	UnitNumber    *string `json:"unit_number"`
	IsResident    *bool   `json:"is_resident"`
	IsRenter      *bool   `json:"is_renter"`
	IsBoardMember *bool   `json:"is_board_member"`
	IsActive      *bool   `json:"is_active"`
}

// LoginRequest represents an authentication request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token issued on successful login
type LoginResponse struct {
	Token    string   `json:"token"`
	Resident Resident `json:"resident"`
}

// AuthClaims represents the validated session claims placed on the request
// context by the auth middleware
type AuthClaims struct {
	ResidentID    int64  `json:"resident_id"`
	Email         string `json:"email"`
	IsBoardMember bool   `json:"is_board_member"`
}
