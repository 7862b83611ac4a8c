package repository

import (
	"context"

	"hoa-backend/internal/domain"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	// Create persists a new poll and fills in its generated ID
	Create(ctx context.Context, poll *domain.Poll) error

	// GetByID retrieves a poll by ID, returning nil when absent
	GetByID(ctx context.Context, id int64) (*domain.Poll, error)

	// List retrieves all polls, newest first
	List(ctx context.Context) ([]domain.Poll, error)

	// Update writes all mutable columns of the poll
	Update(ctx context.Context, poll *domain.Poll) error

	// Delete removes the poll row
	Delete(ctx context.Context, id int64) error
}

// VoteRepository defines the interface for vote data operations
type VoteRepository interface {
	// Upsert inserts a vote or overwrites the selection of an existing
	// (poll, user) row, preserving its created_at
	Upsert(ctx context.Context, vote *domain.Vote) error

	// GetByPollAndUser retrieves one resident's vote on a poll, nil when absent
	GetByPollAndUser(ctx context.Context, pollID, userID int64) (*domain.Vote, error)

	// ListByPoll retrieves all votes for a poll
	ListByPoll(ctx context.Context, pollID int64) ([]domain.Vote, error)

	// ListAll retrieves every vote in one scan, for batch tallying
	ListAll(ctx context.Context) ([]domain.Vote, error)

	// ListByUser retrieves all of a resident's votes
	ListByUser(ctx context.Context, userID int64) ([]domain.Vote, error)

	// DeleteByPoll removes all votes for a poll
	DeleteByPoll(ctx context.Context, pollID int64) error
}

// ResidentRepository defines the interface for resident data operations
type ResidentRepository interface {
	Create(ctx context.Context, resident *domain.Resident) error
	GetByID(ctx context.Context, id int64) (*domain.Resident, error)
	GetByEmail(ctx context.Context, email string) (*domain.Resident, error)
	List(ctx context.Context) ([]domain.Resident, error)
	Update(ctx context.Context, resident *domain.Resident) error
	Delete(ctx context.Context, id int64) error
}

// FeeRepository defines the interface for persisted fee and fine rows
type FeeRepository interface {
	Create(ctx context.Context, fee *domain.Fee) error
	GetByID(ctx context.Context, id int64) (*domain.Fee, error)

	// ListFees retrieves every row that is not a fine
	ListFees(ctx context.Context) ([]domain.Fee, error)

	// ListFines retrieves every fine row
	ListFines(ctx context.Context) ([]domain.Fee, error)

	ListFeesByResident(ctx context.Context, residentID int64) ([]domain.Fee, error)
	ListFinesByResident(ctx context.Context, residentID int64) ([]domain.Fee, error)

	// UpdateStatus sets the status of a fee/fine row
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error)
	ListByResident(ctx context.Context, residentID int64) ([]domain.Payment, error)

	// UpdateStatus patches a payment's status by external ID
	UpdateStatus(ctx context.Context, externalID, status string) error

	// HasPaidAnnualFee reports whether a settled annual-fee payment exists for
	// the resident in the given year
	HasPaidAnnualFee(ctx context.Context, residentID int64, year int) (bool, error)

	// GetStats aggregates the resident's payment history by status
	GetStats(ctx context.Context, residentID int64) (*domain.PaymentStats, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Poll     PollRepository
	Vote     VoteRepository
	Resident ResidentRepository
	Fee      FeeRepository
	Payment  PaymentRepository
}
