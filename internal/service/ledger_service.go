package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/repository"
	"hoa-backend/pkg/errors"
)

// Fines fall due 30 days after issuance when no due date is supplied.
const defaultFineDueDays = 30

// LedgerService implements the fee/fine ledger: synthetic annual-fee
// derivation, persisted year fees and fines, payments and per-resident
// payment statistics.
type LedgerService struct {
	feeRepo         repository.FeeRepository
	paymentRepo     repository.PaymentRepository
	residentRepo    repository.ResidentRepository
	cache           *CacheService
	clock           Clock
	annualFeeAmount float64
	logger          *zap.Logger
}

func NewLedgerService(
	feeRepo repository.FeeRepository,
	paymentRepo repository.PaymentRepository,
	residentRepo repository.ResidentRepository,
	cache *CacheService,
	clock Clock,
	annualFeeAmount float64,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		feeRepo:         feeRepo,
		paymentRepo:     paymentRepo,
		residentRepo:    residentRepo,
		cache:           cache,
		clock:           clock,
		annualFeeAmount: annualFeeAmount,
		logger:          logger,
	}
}

// GetUserFees derives the standing annual obligation for a resident. Renters
// get an empty list; homeowners and board members get exactly one synthetic
// fee for the current calendar year, due December 31. Nothing is persisted.
func (s *LedgerService) GetUserFees(userType string, hasPaid bool) []domain.SyntheticFee {
	if userType != domain.UserTypeHomeowner && userType != domain.UserTypeBoardMember {
		return []domain.SyntheticFee{}
	}

	now := s.clock.Now()
	year := now.Year()
	dueDate := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	status := domain.FeeStatusPending
	if hasPaid {
		status = domain.FeeStatusPaid
	}

	return []domain.SyntheticFee{{
		Name:    domain.AnnualFeeName,
		Year:    year,
		Amount:  s.annualFeeAmount,
		DueDate: dueDate,
		Status:  status,
		IsLate:  !hasPaid && now.After(dueDate),
	}}
}

// HasPaidAnnualFee reports whether the resident has a settled annual-fee
// payment dated in the current year
func (s *LedgerService) HasPaidAnnualFee(ctx context.Context, residentID int64) (bool, error) {
	year := s.clock.Now().Year()

	if paid, ok := s.cache.GetAnnualFeePaid(ctx, residentID, year); ok {
		return paid, nil
	}

	paid, err := s.paymentRepo.HasPaidAnnualFee(ctx, residentID, year)
	if err != nil {
		return false, errors.NewInternalError("failed to check annual fee payment", err)
	}

	s.cache.SetAnnualFeePaid(ctx, residentID, year, paid)
	return paid, nil
}

// GetAllHomeownersPaymentStatus loads every resident, filters to homeowners
// and reports each one's standing against the annual fee. This is a full
// scan per homeowner, fine at community scale.
func (s *LedgerService) GetAllHomeownersPaymentStatus(ctx context.Context) ([]domain.HomeownerPaymentStatus, error) {
	residents, err := s.residentRepo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list residents", err)
	}

	statuses := make([]domain.HomeownerPaymentStatus, 0, len(residents))
	for i := range residents {
		resident := &residents[i]
		if !resident.IsHomeowner() {
			continue
		}

		paid, err := s.HasPaidAnnualFee(ctx, resident.ID)
		if err != nil {
			return nil, err
		}

		paymentStatus := domain.FeeStatusPending
		if paid {
			paymentStatus = domain.FeeStatusPaid
		}

		statuses = append(statuses, domain.HomeownerPaymentStatus{
			ResidentID:      resident.ID,
			FirstName:       resident.FirstName,
			LastName:        resident.LastName,
			Email:           resident.Email,
			Address:         resident.Address,
			UserType:        resident.UserType(),
			PaymentStatus:   paymentStatus,
			AnnualFeeAmount: s.annualFeeAmount,
		})
	}

	return statuses, nil
}

// CreateYearFees inserts one persisted fee row per homeowner for the given
// year and returns the count. The loop is best-effort, not transactional:
// a failure partway through keeps the rows already written. Re-running for
// the same year duplicates rows.
func (s *LedgerService) CreateYearFees(ctx context.Context, req *domain.CreateYearFeesRequest) (int, error) {
	if req.Year <= 0 {
		return 0, errors.NewValidationError("year is required", nil)
	}
	if req.Amount <= 0 {
		return 0, errors.NewValidationError("amount must be positive", nil)
	}

	residents, err := s.residentRepo.List(ctx)
	if err != nil {
		return 0, errors.NewInternalError("failed to list residents", err)
	}

	now := s.clock.Now()
	dueDate := time.Date(req.Year, time.December, 31, 23, 59, 59, 0, time.UTC)

	created := 0
	for i := range residents {
		resident := &residents[i]
		if !resident.IsHomeowner() {
			continue
		}

		fee := &domain.Fee{
			ResidentID:  resident.ID,
			Year:        req.Year,
			Name:        domain.AnnualFeeName,
			Amount:      req.Amount,
			DueDate:     dueDate,
			FeeType:     domain.FeeTypeFee,
			Status:      domain.FeeStatusPending,
			Description: req.Description,
			Address:     resident.Address,
			DateIssued:  now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.feeRepo.Create(ctx, fee); err != nil {
			s.logger.Error("year fee creation aborted",
				zap.Int("year", req.Year),
				zap.Int("created", created),
				zap.Int64("resident_id", resident.ID),
				zap.Error(err))
			return created, errors.NewInternalError("failed to create year fees", err)
		}
		created++
	}

	s.logger.Info("year fees created",
		zap.Int("year", req.Year),
		zap.Int("count", created))

	return created, nil
}

// AddFine issues a fine against a property. The due date defaults to 30 days
// from issuance.
func (s *LedgerService) AddFine(ctx context.Context, req *domain.AddFineRequest) (*domain.Fee, error) {
	if req.Amount <= 0 {
		return nil, errors.NewValidationError("amount must be positive", nil)
	}
	if req.Reason == "" {
		return nil, errors.NewValidationError("reason is required", nil)
	}

	now := s.clock.Now()
	dueDate := now.AddDate(0, 0, defaultFineDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	fine := &domain.Fee{
		ResidentID:  req.HomeownerID,
		Name:        req.Reason,
		Amount:      req.Amount,
		DueDate:     dueDate,
		FeeType:     domain.FeeTypeFine,
		Status:      domain.FeeStatusPending,
		Reason:      req.Reason,
		Description: req.Description,
		Address:     req.Address,
		DateIssued:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.feeRepo.Create(ctx, fine); err != nil {
		return nil, errors.NewInternalError("failed to create fine", err)
	}

	s.logger.Info("fine issued",
		zap.Int64("fine_id", fine.ID),
		zap.Int64("homeowner_id", req.HomeownerID),
		zap.Float64("amount", req.Amount))

	return fine, nil
}

// UpdateFineStatus sets a fine's status. Any of the three states is reachable
// from any other; there is no transition validation.
func (s *LedgerService) UpdateFineStatus(ctx context.Context, fineID int64, status string) (*domain.Fee, error) {
	switch status {
	case domain.FeeStatusPaid, domain.FeeStatusPending, domain.FeeStatusOverdue:
	default:
		return nil, errors.NewValidationError("status must be Paid, Pending or Overdue", nil)
	}

	fine, err := s.feeRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load fine", err)
	}
	if fine == nil {
		return nil, errors.NewNotFoundError("fine not found")
	}

	if err := s.feeRepo.UpdateStatus(ctx, fineID, status); err != nil {
		return nil, errors.NewInternalError("failed to update fine status", err)
	}
	fine.Status = status
	fine.UpdatedAt = s.clock.Now()

	return fine, nil
}

// GetAllFees returns every persisted row that is not a fine
func (s *LedgerService) GetAllFees(ctx context.Context) ([]domain.Fee, error) {
	fees, err := s.feeRepo.ListFees(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list fees", err)
	}
	return fees, nil
}

// GetAllFines returns every fine row
func (s *LedgerService) GetAllFines(ctx context.Context) ([]domain.Fee, error) {
	fines, err := s.feeRepo.ListFines(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list fines", err)
	}
	return fines, nil
}

// GetHomeownerFees returns a resident's persisted non-fine rows
func (s *LedgerService) GetHomeownerFees(ctx context.Context, residentID int64) ([]domain.Fee, error) {
	fees, err := s.feeRepo.ListFeesByResident(ctx, residentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list fees", err)
	}
	return fees, nil
}

// GetHomeownerFines returns a resident's fine rows
func (s *LedgerService) GetHomeownerFines(ctx context.Context, residentID int64) ([]domain.Fee, error) {
	fines, err := s.feeRepo.ListFinesByResident(ctx, residentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list fines", err)
	}
	return fines, nil
}

// RecordPayment inserts a pending payment record with a generated external
// identifier for the processor round-trip
func (s *LedgerService) RecordPayment(ctx context.Context, residentID int64, req *domain.RecordPaymentRequest) (*domain.Payment, error) {
	if req.Amount <= 0 {
		return nil, errors.NewValidationError("amount must be positive", nil)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := s.clock.Now()
	payment := &domain.Payment{
		ResidentID:        residentID,
		FeeID:             req.FeeID,
		FineID:            req.FineID,
		Amount:            req.Amount,
		Currency:          currency,
		Status:            domain.PaymentStatusPending,
		FeeType:           req.FeeType,
		PaymentMethod:     req.PaymentMethod,
		ExternalPaymentID: uuid.NewString(),
		PaymentDate:       now,
		Description:       req.Description,
		Metadata:          req.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, errors.NewInternalError("failed to record payment", err)
	}

	s.logger.Info("payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("resident_id", residentID),
		zap.String("external_payment_id", payment.ExternalPaymentID))

	return payment, nil
}

// ConfirmPayment applies a processor confirmation outcome to a payment
func (s *LedgerService) ConfirmPayment(ctx context.Context, externalID string, status string) (*domain.Payment, error) {
	switch status {
	case domain.PaymentStatusSucceeded, domain.PaymentStatusFailed,
		domain.PaymentStatusCanceled, domain.PaymentStatusPaid:
	default:
		return nil, errors.NewValidationError("unknown payment status", map[string]interface{}{"status": status})
	}

	payment, err := s.paymentRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load payment", err)
	}
	if payment == nil {
		return nil, errors.NewNotFoundError("payment not found")
	}

	if err := s.paymentRepo.UpdateStatus(ctx, externalID, status); err != nil {
		return nil, errors.NewInternalError("failed to update payment status", err)
	}
	payment.Status = status
	payment.UpdatedAt = s.clock.Now()

	// A settled annual-fee payment flips the cached paid flag for the year
	if payment.FeeType == domain.AnnualFeeName {
		s.cache.InvalidateAnnualFeePaid(ctx, payment.ResidentID, payment.PaymentDate.Year())
	}

	s.logger.Info("payment confirmed",
		zap.String("external_payment_id", externalID),
		zap.String("status", status))

	return payment, nil
}

// GetResidentPaymentStats aggregates a resident's payment history by status
func (s *LedgerService) GetResidentPaymentStats(ctx context.Context, residentID int64) (*domain.PaymentStats, error) {
	stats, err := s.paymentRepo.GetStats(ctx, residentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to get payment stats", err)
	}
	return stats, nil
}
