package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"hoa-backend/internal/domain"
)

// fixedClock freezes time for deterministic expiry, lateness and year
// matching in tests.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type fakePollRepo struct {
	polls  map[int64]domain.Poll
	nextID int64
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[int64]domain.Poll)}
}

func (r *fakePollRepo) Create(_ context.Context, poll *domain.Poll) error {
	r.nextID++
	poll.ID = r.nextID
	r.polls[poll.ID] = *poll
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id int64) (*domain.Poll, error) {
	poll, ok := r.polls[id]
	if !ok {
		return nil, nil
	}
	copied := poll
	return &copied, nil
}

func (r *fakePollRepo) List(_ context.Context) ([]domain.Poll, error) {
	ids := make([]int64, 0, len(r.polls))
	for id := range r.polls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	polls := make([]domain.Poll, 0, len(ids))
	for _, id := range ids {
		polls = append(polls, r.polls[id])
	}
	return polls, nil
}

func (r *fakePollRepo) Update(_ context.Context, poll *domain.Poll) error {
	if _, ok := r.polls[poll.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.polls[poll.ID] = *poll
	return nil
}

func (r *fakePollRepo) Delete(_ context.Context, id int64) error {
	delete(r.polls, id)
	return nil
}

type fakeVoteRepo struct {
	votes        map[string]domain.Vote
	listAllCalls int
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]domain.Vote)}
}

func voteKey(pollID, userID int64) string {
	return fmt.Sprintf("%d/%d", pollID, userID)
}

func (r *fakeVoteRepo) Upsert(_ context.Context, vote *domain.Vote) error {
	key := voteKey(vote.PollID, vote.UserID)
	if existing, ok := r.votes[key]; ok {
		existing.SelectedOptions = vote.SelectedOptions
		r.votes[key] = existing
		vote.CreatedAt = existing.CreatedAt
		return nil
	}
	r.votes[key] = *vote
	return nil
}

func (r *fakeVoteRepo) GetByPollAndUser(_ context.Context, pollID, userID int64) (*domain.Vote, error) {
	vote, ok := r.votes[voteKey(pollID, userID)]
	if !ok {
		return nil, nil
	}
	copied := vote
	return &copied, nil
}

func (r *fakeVoteRepo) ListByPoll(_ context.Context, pollID int64) ([]domain.Vote, error) {
	var votes []domain.Vote
	for _, vote := range r.votes {
		if vote.PollID == pollID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (r *fakeVoteRepo) ListAll(_ context.Context) ([]domain.Vote, error) {
	r.listAllCalls++
	var votes []domain.Vote
	for _, vote := range r.votes {
		votes = append(votes, vote)
	}
	return votes, nil
}

func (r *fakeVoteRepo) ListByUser(_ context.Context, userID int64) ([]domain.Vote, error) {
	var votes []domain.Vote
	for _, vote := range r.votes {
		if vote.UserID == userID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (r *fakeVoteRepo) DeleteByPoll(_ context.Context, pollID int64) error {
	for key, vote := range r.votes {
		if vote.PollID == pollID {
			delete(r.votes, key)
		}
	}
	return nil
}

type fakeResidentRepo struct {
	residents map[int64]domain.Resident
	nextID    int64
}

func newFakeResidentRepo() *fakeResidentRepo {
	return &fakeResidentRepo{residents: make(map[int64]domain.Resident)}
}

func (r *fakeResidentRepo) Create(_ context.Context, resident *domain.Resident) error {
	r.nextID++
	resident.ID = r.nextID
	r.residents[resident.ID] = *resident
	return nil
}

func (r *fakeResidentRepo) GetByID(_ context.Context, id int64) (*domain.Resident, error) {
	resident, ok := r.residents[id]
	if !ok {
		return nil, nil
	}
	copied := resident
	return &copied, nil
}

func (r *fakeResidentRepo) GetByEmail(_ context.Context, email string) (*domain.Resident, error) {
	for _, resident := range r.residents {
		if resident.Email == email {
			copied := resident
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeResidentRepo) List(_ context.Context) ([]domain.Resident, error) {
	ids := make([]int64, 0, len(r.residents))
	for id := range r.residents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	residents := make([]domain.Resident, 0, len(ids))
	for _, id := range ids {
		residents = append(residents, r.residents[id])
	}
	return residents, nil
}

func (r *fakeResidentRepo) Update(_ context.Context, resident *domain.Resident) error {
	if _, ok := r.residents[resident.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.residents[resident.ID] = *resident
	return nil
}

func (r *fakeResidentRepo) Delete(_ context.Context, id int64) error {
	delete(r.residents, id)
	return nil
}

type fakeFeeRepo struct {
	fees   map[int64]domain.Fee
	nextID int64
}

func newFakeFeeRepo() *fakeFeeRepo {
	return &fakeFeeRepo{fees: make(map[int64]domain.Fee)}
}

func (r *fakeFeeRepo) Create(_ context.Context, fee *domain.Fee) error {
	r.nextID++
	fee.ID = r.nextID
	r.fees[fee.ID] = *fee
	return nil
}

func (r *fakeFeeRepo) GetByID(_ context.Context, id int64) (*domain.Fee, error) {
	fee, ok := r.fees[id]
	if !ok {
		return nil, nil
	}
	copied := fee
	return &copied, nil
}

func (r *fakeFeeRepo) ListFees(_ context.Context) ([]domain.Fee, error) {
	return r.filter(func(f domain.Fee) bool { return f.FeeType != domain.FeeTypeFine }), nil
}

func (r *fakeFeeRepo) ListFines(_ context.Context) ([]domain.Fee, error) {
	return r.filter(func(f domain.Fee) bool { return f.FeeType == domain.FeeTypeFine }), nil
}

func (r *fakeFeeRepo) ListFeesByResident(_ context.Context, residentID int64) ([]domain.Fee, error) {
	return r.filter(func(f domain.Fee) bool {
		return f.ResidentID == residentID && f.FeeType != domain.FeeTypeFine
	}), nil
}

func (r *fakeFeeRepo) ListFinesByResident(_ context.Context, residentID int64) ([]domain.Fee, error) {
	return r.filter(func(f domain.Fee) bool {
		return f.ResidentID == residentID && f.FeeType == domain.FeeTypeFine
	}), nil
}

func (r *fakeFeeRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	fee, ok := r.fees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	fee.Status = status
	r.fees[id] = fee
	return nil
}

func (r *fakeFeeRepo) filter(keep func(domain.Fee) bool) []domain.Fee {
	ids := make([]int64, 0, len(r.fees))
	for id := range r.fees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var fees []domain.Fee
	for _, id := range ids {
		if keep(r.fees[id]) {
			fees = append(fees, r.fees[id])
		}
	}
	return fees
}

type fakePaymentRepo struct {
	payments map[int64]domain.Payment
	nextID   int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]domain.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.nextID++
	payment.ID = r.nextID
	r.payments[payment.ID] = *payment
	return nil
}

func (r *fakePaymentRepo) GetByExternalID(_ context.Context, externalID string) (*domain.Payment, error) {
	for _, payment := range r.payments {
		if payment.ExternalPaymentID == externalID {
			copied := payment
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) ListByResident(_ context.Context, residentID int64) ([]domain.Payment, error) {
	var payments []domain.Payment
	for _, payment := range r.payments {
		if payment.ResidentID == residentID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, externalID, status string) error {
	for id, payment := range r.payments {
		if payment.ExternalPaymentID == externalID {
			payment.Status = status
			r.payments[id] = payment
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakePaymentRepo) HasPaidAnnualFee(_ context.Context, residentID int64, year int) (bool, error) {
	for _, payment := range r.payments {
		if payment.ResidentID == residentID &&
			payment.FeeType == domain.AnnualFeeName &&
			payment.Status == domain.PaymentStatusPaid &&
			payment.PaymentDate.Year() == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) GetStats(_ context.Context, residentID int64) (*domain.PaymentStats, error) {
	stats := &domain.PaymentStats{ResidentID: residentID}
	for _, payment := range r.payments {
		if payment.ResidentID != residentID {
			continue
		}
		stats.TotalTransactions++
		switch payment.Status {
		case domain.PaymentStatusSucceeded:
			stats.TotalPaid += payment.Amount
			stats.SuccessfulTransactions++
		case domain.PaymentStatusPending:
			stats.TotalPending += payment.Amount
		case domain.PaymentStatusFailed:
			stats.TotalFailed += payment.Amount
		}
	}
	return stats, nil
}
