package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/repository"
	"hoa-backend/pkg/errors"
)

// ResidentService manages resident records. Email uniqueness is enforced at
// write time: a check-then-write plus mapping of the database unique
// violation, so a race between two creates still surfaces as a conflict.
type ResidentService struct {
	residentRepo repository.ResidentRepository
	clock        Clock
	logger       *zap.Logger
}

func NewResidentService(residentRepo repository.ResidentRepository, clock Clock, logger *zap.Logger) *ResidentService {
	return &ResidentService{
		residentRepo: residentRepo,
		clock:        clock,
		logger:       logger,
	}
}

// CreateResident validates and persists a new resident
func (s *ResidentService) CreateResident(ctx context.Context, req *domain.CreateResidentRequest) (*domain.Resident, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, errors.NewValidationError("email is required", nil)
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, errors.NewValidationError("first and last name are required", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters", nil)
	}

	existing, err := s.residentRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("a resident with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	now := s.clock.Now()
	resident := &domain.Resident{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         email,
		PasswordHash:  string(hash),
		Address:       req.Address,
		UnitNumber:    req.UnitNumber,
		IsResident:    req.IsResident,
		IsRenter:      req.IsRenter,
		IsBoardMember: req.IsBoardMember,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.residentRepo.Create(ctx, resident); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("a resident with this email already exists")
		}
		return nil, errors.NewInternalError("failed to create resident", err)
	}

	s.logger.Info("resident created",
		zap.Int64("resident_id", resident.ID),
		zap.String("user_type", resident.UserType()))

	return resident, nil
}

// UpdateResident applies a partial update. Changing the email to another
// resident's email conflicts; re-submitting the current email succeeds.
func (s *ResidentService) UpdateResident(ctx context.Context, id int64, req *domain.UpdateResidentRequest) (*domain.Resident, error) {
	resident, err := s.residentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load resident", err)
	}
	if resident == nil {
		return nil, errors.NewNotFoundError("resident not found")
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, errors.NewValidationError("email is required", nil)
		}
		if email != resident.Email {
			other, err := s.residentRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, errors.NewInternalError("failed to check email", err)
			}
			if other != nil && other.ID != id {
				return nil, errors.NewConflictError("a resident with this email already exists")
			}
		}
		resident.Email = email
	}
	if req.FirstName != nil {
		resident.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		resident.LastName = *req.LastName
	}
	if req.Address != nil {
		resident.Address = *req.Address
	}
	if req.UnitNumber != nil {
		resident.UnitNumber = *req.UnitNumber
	}
	if req.IsResident != nil {
		resident.IsResident = *req.IsResident
	}
	if req.IsRenter != nil {
		resident.IsRenter = *req.IsRenter
	}
	if req.IsBoardMember != nil {
		resident.IsBoardMember = *req.IsBoardMember
	}
	if req.IsActive != nil {
		resident.IsActive = *req.IsActive
	}
	resident.UpdatedAt = s.clock.Now()

	if err := s.residentRepo.Update(ctx, resident); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("a resident with this email already exists")
		}
		return nil, errors.NewInternalError("failed to update resident", err)
	}

	return resident, nil
}

// GetResident retrieves a resident by ID
func (s *ResidentService) GetResident(ctx context.Context, id int64) (*domain.Resident, error) {
	resident, err := s.residentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load resident", err)
	}
	if resident == nil {
		return nil, errors.NewNotFoundError("resident not found")
	}
	return resident, nil
}

// ListResidents retrieves all residents
func (s *ResidentService) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	residents, err := s.residentRepo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list residents", err)
	}
	return residents, nil
}

// DeleteResident removes a resident record
func (s *ResidentService) DeleteResident(ctx context.Context, id int64) error {
	resident, err := s.residentRepo.GetByID(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to load resident", err)
	}
	if resident == nil {
		return errors.NewNotFoundError("resident not found")
	}

	if err := s.residentRepo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete resident", err)
	}

	s.logger.Info("resident deleted", zap.Int64("resident_id", id))
	return nil
}

// BlockResident marks a resident as blocked with a reason
func (s *ResidentService) BlockResident(ctx context.Context, id int64, reason string) (*domain.Resident, error) {
	return s.setBlocked(ctx, id, true, reason)
}

// UnblockResident clears a resident's blocked state
func (s *ResidentService) UnblockResident(ctx context.Context, id int64) (*domain.Resident, error) {
	return s.setBlocked(ctx, id, false, "")
}

func (s *ResidentService) setBlocked(ctx context.Context, id int64, blocked bool, reason string) (*domain.Resident, error) {
	resident, err := s.residentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load resident", err)
	}
	if resident == nil {
		return nil, errors.NewNotFoundError("resident not found")
	}

	resident.IsBlocked = blocked
	resident.BlockReason = reason
	resident.UpdatedAt = s.clock.Now()

	if err := s.residentRepo.Update(ctx, resident); err != nil {
		return nil, errors.NewInternalError("failed to update resident", err)
	}

	return resident, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
