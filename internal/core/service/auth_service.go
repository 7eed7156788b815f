package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// Client-facing messages. Login failures share one message so responses do
// not reveal which emails are registered.
const (
	msgIncorrectLogin    = "Incorrect email or password"
	msgMissingLogin      = "Please provide email and password!"
	msgInvalidToken      = "Invalid or expired token. Please log in again."
	msgUserGone          = "The user belonging to this token no longer exists."
	msgPasswordChanged   = "User recently changed password! Please log in again."
	msgResetInvalid      = "Token is invalid or has expired"
	msgWrongCurrent      = "Your current password is wrong."
	msgResetEmailFailure = "There was an error sending the email. Try again later!"
)

// passwordChangeSkew backdates passwordChangedAt so a token issued in the same
// second as the change is still accepted.
const passwordChangeSkew = time.Second

// AuthService implements signup, login, password recovery and token-based
// identity resolution.
type AuthService struct {
	users  ports.UserRepository
	creds  *CredentialStore
	tokens *TokenService
	mailer ports.Mailer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	creds *CredentialStore,
	tokens *TokenService,
	mailer ports.Mailer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		creds:  creds,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// Signup registers a new identity with the default role and logs it in.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Session, error) {
	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Photo:    in.Photo,
		Role:     domain.RoleUser,
		Password: hash,
		Active:   true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID.Hex()).Msg("user signed up")
	return s.session(created)
}

// Login verifies credentials and issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, domain.Errorf(domain.ErrValidation, msgMissingLogin)
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrUnauthenticated, msgIncorrectLogin)
		}
		return nil, err
	}
	if !s.creds.Verify(password, user.Password) {
		return nil, domain.Errorf(domain.ErrUnauthenticated, msgIncorrectLogin)
	}

	return s.session(user)
}

// Authenticate resolves the identity behind token. It only reads state.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUnauthenticated, msgInvalidToken)
	}

	user, err := s.users.FindByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, domain.Errorf(domain.ErrUnauthenticated, msgUserGone)
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.Errorf(domain.ErrUnauthenticated, msgUserGone)
	}
	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, domain.Errorf(domain.ErrUnauthenticated, msgPasswordChanged)
	}
	return user, nil
}

// ForgotPassword stores a reset token for email and mails the plaintext. An
// unknown email is not reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, link ports.ResetLink) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	reset, err := s.tokens.IssueResetToken()
	if err != nil {
		return err
	}
	id := user.ID.Hex()
	if err := s.users.SetResetToken(ctx, id, reset.Hashed, reset.Expires); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, link(reset.Plain)); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("failed to send password reset email")
		if clearErr := s.users.ClearResetToken(ctx, id); clearErr != nil {
			s.log.Warn().Err(clearErr).Str("user_id", id).Msg("failed to clear reset token")
		}
		return domain.Errorf(domain.ErrInternal, msgResetEmailFailure)
	}

	s.log.Info().Str("user_id", id).Msg("password reset token sent")
	return nil
}

// ResetPassword consumes a reset token and logs the user in.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*domain.Session, error) {
	user, err := s.users.FindByResetToken(ctx, HashResetToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrValidation, msgResetInvalid)
		}
		return nil, err
	}

	var expires time.Time
	if user.PasswordResetExpires != nil {
		expires = *user.PasswordResetExpires
	}
	if !s.tokens.VerifyResetToken(token, user.PasswordResetToken, expires) {
		if clearErr := s.users.ClearResetToken(ctx, user.ID.Hex()); clearErr != nil {
			s.log.Warn().Err(clearErr).Str("user_id", user.ID.Hex()).Msg("failed to clear expired reset token")
		}
		return nil, domain.Errorf(domain.ErrValidation, msgResetInvalid)
	}

	if err := s.changePassword(ctx, user, password); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID.Hex()).Msg("password reset")
	return s.session(user)
}

// UpdatePassword changes the password of a logged-in user after confirming
// the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, password string) (*domain.Session, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.creds.Verify(current, user.Password) {
		return nil, domain.Errorf(domain.ErrUnauthenticated, msgWrongCurrent)
	}

	if err := s.changePassword(ctx, user, password); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Msg("password updated")
	return s.session(user)
}

func (s *AuthService) changePassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := s.creds.Hash(password)
	if err != nil {
		return err
	}
	changedAt := s.now().Add(-passwordChangeSkew).UTC()
	if err := s.users.SetPassword(ctx, user.ID.Hex(), hash, changedAt); err != nil {
		return err
	}
	user.Password = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	return nil
}

func (s *AuthService) session(user *domain.User) (*domain.Session, error) {
	token, exp, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &domain.Session{Token: token, ExpiresAt: exp, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
