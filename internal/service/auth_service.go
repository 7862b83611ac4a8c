package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/repository"
	"hoa-backend/pkg/errors"
)

const tokenLifetime = 24 * time.Hour

// AuthService issues and validates resident session tokens
type AuthService struct {
	residentRepo repository.ResidentRepository
	jwtSecret    []byte
	clock        Clock
	logger       *zap.Logger
}

func NewAuthService(residentRepo repository.ResidentRepository, jwtSecret string, clock Clock, logger *zap.Logger) *AuthService {
	return &AuthService{
		residentRepo: residentRepo,
		jwtSecret:    []byte(jwtSecret),
		clock:        clock,
		logger:       logger,
	}
}

type sessionClaims struct {
	ResidentID    int64  `json:"resident_id"`
	Email         string `json:"email"`
	IsBoardMember bool   `json:"is_board_member"`
	jwt.RegisteredClaims
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	resident, err := s.residentRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, errors.NewInternalError("failed to load resident", err)
	}
	if resident == nil {
		return nil, errors.NewAuthenticationError("invalid email or password")
	}
	if resident.IsBlocked {
		return nil, errors.NewAuthorizationError("account is blocked")
	}
	if !resident.IsActive {
		return nil, errors.NewAuthorizationError("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(resident.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAuthenticationError("invalid email or password")
	}

	token, err := s.issueToken(resident)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("resident logged in", zap.Int64("resident_id", resident.ID))

	return &domain.LoginResponse{Token: token, Resident: *resident}, nil
}

// ValidateToken parses and verifies a session token
func (s *AuthService) ValidateToken(tokenString string) (*domain.AuthClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAuthenticationError("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return nil, errors.NewAuthenticationError("invalid or expired token")
	}

	return &domain.AuthClaims{
		ResidentID:    claims.ResidentID,
		Email:         claims.Email,
		IsBoardMember: claims.IsBoardMember,
	}, nil
}

func (s *AuthService) issueToken(resident *domain.Resident) (string, error) {
	now := s.clock.Now()
	claims := sessionClaims{
		ResidentID:    resident.ID,
		Email:         resident.Email,
		IsBoardMember: resident.IsBoardMember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   resident.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
