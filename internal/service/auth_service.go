package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	RecordLogin(ctx context.Context, id uint, at time.Time) error
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(userRepo UserRepository, jwtManager *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, auditSvc: auditSvc, log: log}
}

// EnsureClinician creates the configured clinician account on first boot.
// An already existing account is left untouched, password included.
func (s *AuthService) EnsureClinician(ctx context.Context, email, password, name string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing clinician password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return fmt.Errorf("creating clinician account: %w", err)
	}

	s.log.Info("clinician account provisioned", zap.String("email", email))
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the email exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.RecordLogin(ctx, user.ID, time.Now())

	pair, err := s.jwtManager.GenerateTokenPair(&auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        user.Email,
		Action:       "login",
		ResourceType: "user",
		IPAddress:    ip,
	})

	s.log.Info("user logged in",
		zap.Uint("user_id", user.ID),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(&auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
}
