package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// UserService manages accounts: self-service profile changes and the
// administrative create/update paths that need password hashing.
type UserService struct {
	users ports.UserRepository
	creds *CredentialStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users ports.UserRepository, creds *CredentialStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, creds: creds, log: log, now: time.Now}
}

// UpdateMe applies the profile fields an identity may change itself.
func (s *UserService) UpdateMe(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.Email != nil {
		e := normalizeEmail(*patch.Email)
		patch.Email = &e
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return s.users.FindByID(ctx, userID)
	}
	return s.users.FindByIDAndUpdate(ctx, userID, changes)
}

// DeleteMe deactivates the account. Inactive users are hidden from every
// query but the document is kept.
func (s *UserService) DeleteMe(ctx context.Context, userID string) error {
	if _, err := s.users.FindByIDAndUpdate(ctx, userID, domain.Changes{"active": false}); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user deactivated")
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "Invalid role: %s", role)
	}
	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Photo:    in.Photo,
		Role:     role,
		Password: hash,
		Active:   true,
	})
}

// UpdateUser is the administrative partial update. A new password is hashed
// and marks the moment existing sessions stop being valid.
func (s *UserService) UpdateUser(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	changes := domain.Changes{}
	if in.Name != nil {
		changes["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		changes["email"] = normalizeEmail(*in.Email)
	}
	if in.Photo != nil {
		changes["photo"] = *in.Photo
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.Errorf(domain.ErrValidation, "Invalid role: %s", *in.Role)
		}
		changes["role"] = *in.Role
	}
	if in.Password != nil {
		hash, err := s.creds.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		changes["password"] = hash
		changes["passwordChangedAt"] = s.now().Add(-passwordChangeSkew).UTC()
	}

	if len(changes) == 0 {
		return s.users.FindByID(ctx, userID)
	}
	updated, err := s.users.FindByIDAndUpdate(ctx, userID, changes)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Int("fields", len(changes)).Msg("user updated by admin")
	return updated, nil
}
