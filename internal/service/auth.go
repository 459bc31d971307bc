// Package service: AuthService handles admin and business owner logins
// and the JWT sessions that protect the back-office routes.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const bcryptCost = 12

// AdminAccount is the single back-office administrator.
type AdminAccount struct {
	Email    string
	Password string
}

// AuthService orchestrates the two login flows.
type AuthService struct {
	owners     port.OwnerStore
	admin      AdminAccount
	jwtSecret  []byte
	sessionTTL time.Duration
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	owners port.OwnerStore,
	admin AdminAccount,
	jwtSecret string,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		owners:     owners,
		admin:      admin,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		validate:   newValidator(),
		logger:     logger,
	}
}

// ============================================================
// Admin login: POST /v1/admin/login
// ============================================================

func (s *AuthService) AdminLogin(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	_, span := authTracer.Start(ctx, "AuthService.AdminLogin")
	defer span.End()

	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(req.Email)), []byte(strings.ToLower(s.admin.Email))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) == 1
	if !emailOK || !passOK {
		s.logger.Warn("admin login: invalid credentials", zap.String("email", req.Email))
		return nil, &domain.ErrUnauthorized{Message: "invalid email or password"}
	}

	token, err := s.signSession(domain.Session{Role: domain.RoleAdmin, Subject: s.admin.Email})
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	s.logger.Info("admin logged in")
	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.sessionTTL.Seconds()),
		Role:        domain.RoleAdmin,
		Subject:     s.admin.Email,
	}, nil
}

// ============================================================
// Owner login: POST /v1/owner/login
// ============================================================

func (s *AuthService) OwnerLogin(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.OwnerLogin")
	defer span.End()
	span.SetAttributes(attribute.String("email", req.Email))

	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	var owner *domain.BusinessOwner
	for i := range owners {
		if strings.EqualFold(owners[i].Email, req.Email) {
			owner = &owners[i]
			break
		}
	}
	if owner == nil {
		s.logger.Warn("owner login: unknown email", zap.String("email", req.Email))
		return nil, &domain.ErrUnauthorized{Message: "invalid email or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("owner login: failed password attempt", zap.String("owner_id", owner.ID))
		return nil, &domain.ErrUnauthorized{Message: "invalid email or password"}
	}

	token, err := s.signSession(domain.Session{Role: domain.RoleOwner, Subject: owner.ID, ProviderID: owner.ProviderID})
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	s.logger.Info("owner logged in",
		zap.String("owner_id", owner.ID),
		zap.Int64("provider_id", owner.ProviderID),
	)
	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.sessionTTL.Seconds()),
		Role:        domain.RoleOwner,
		Subject:     owner.ID,
		ProviderID:  owner.ProviderID,
	}, nil
}

// SessionTTL is how long an issued token stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
