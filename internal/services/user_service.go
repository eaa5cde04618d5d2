package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/clinical-data-api/internal/auth"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

// UserService manages user accounts.
type UserService struct {
	store storage.Storage
	audit *AuditService
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Storage, audit *AuditService) *UserService {
	return &UserService{
		store: store,
		audit: audit,
	}
}

// CreateUserInput represents the information required to create a user.
type CreateUserInput struct {
	Username    string
	Password    string
	Role        models.Role
	FullName    string
	Institution string
	IsActive    *bool
}

// UpdateUserInput lists the fields to change. Nil fields are left untouched.
type UpdateUserInput struct {
	Username    *string
	Password    *string
	Role        *models.Role
	FullName    *string
	Institution *string
	IsActive    *bool
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create hashes the password and stores a new user. Role defaults to
// researcher and accounts start active unless told otherwise.
func (s *UserService) Create(ctx context.Context, actorID uint64, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	role := input.Role
	if role == "" {
		role = models.RoleResearcher
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	user, err := s.store.CreateUser(ctx, models.NewUser{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     input.FullName,
		Institution:  input.Institution,
		IsActive:     active,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.recordBestEffort(ctx, actorID, models.AuditActionCreate, userResource(user.ID), "Created user "+user.Username)
	return user, nil
}

// Update merges input over the stored user.
func (s *UserService) Update(ctx context.Context, actorID, id uint64, input UpdateUserInput) (*models.User, error) {
	patch := models.UserPatch{
		Role:        input.Role,
		FullName:    input.FullName,
		Institution: input.Institution,
		IsActive:    input.IsActive,
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if err := s.ensureUsernameFree(ctx, username, id); err != nil {
			return nil, err
		}
		patch.Username = &username
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		patch.PasswordHash = &hash
	}

	user, err := s.store.UpdateUser(ctx, id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.audit.recordBestEffort(ctx, actorID, models.AuditActionUpdate, userResource(id), "Updated user "+user.Username)
	return user, nil
}

// Delete removes the user, failing with ErrUserNotFound when it does not exist.
func (s *UserService) Delete(ctx context.Context, actorID, id uint64) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.recordBestEffort(ctx, actorID, models.AuditActionDelete, userResource(id), "Deleted user "+user.Username)
	return nil
}

// ensureUsernameFree fails with ErrUsernameTaken when another user (not
// selfID) already holds username.
func (s *UserService) ensureUsernameFree(ctx context.Context, username string, selfID uint64) error {
	existing, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrUsernameTaken
	}
	return nil
}

func userResource(id uint64) string {
	return fmt.Sprintf("users/%d", id)
}
