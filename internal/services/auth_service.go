package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/clinical-data-api/internal/auth"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	store storage.Storage
	audit *AuditService
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Storage, audit *AuditService) *AuthService {
	return &AuthService{
		store: store,
		audit: audit,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and records the LOGIN audit entry. A successful
// login writes exactly one entry; a failed one writes none.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.Authenticate(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.RecordLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials without touching the audit trail.
func (s *AuthService) Authenticate(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// RecordLogin writes the LOGIN entry for an authenticated user. Unlike other
// audit writes its failure is reported, since a login must not go unrecorded.
func (s *AuthService) RecordLogin(ctx context.Context, userID uint64) error {
	_, err := s.audit.Record(ctx, userID, models.AuditActionLogin, "auth", "User logged in")
	return err
}

// Logout records the end of a session for userID.
func (s *AuthService) Logout(ctx context.Context, userID uint64) {
	s.audit.recordBestEffort(ctx, userID, models.AuditActionLogout, "auth", "User logged out")
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
