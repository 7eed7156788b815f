package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTokenTTL = 90 * 24 * time.Hour
	ResetTokenTTL   = 10 * time.Minute
	resetTokenBytes = 32
)

// ErrInvalidToken is returned for any session token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is what a verified session token proves.
type TokenClaims struct {
	IdentityID string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// ResetToken is a freshly generated password-reset token. Plain is sent to the
// user; only Hashed and Expires are persisted.
type ResetToken struct {
	Plain   string
	Hashed  string
	Expires time.Time
}

// TokenService issues and verifies HS256 session tokens and one-time
// password-reset tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued session tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for identityID valid for the configured TTL.
func (s *TokenService) Issue(identityID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded claims.
func (s *TokenService) Verify(token string) (*TokenClaims, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return &TokenClaims{
		IdentityID: claims.Subject,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// IssueResetToken generates a random reset token expiring after ResetTokenTTL.
func (s *TokenService) IssueResetToken() (*ResetToken, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	plain := hex.EncodeToString(b)
	return &ResetToken{
		Plain:   plain,
		Hashed:  HashResetToken(plain),
		Expires: s.now().Add(ResetTokenTTL),
	}, nil
}

// VerifyResetToken reports whether plain hashes to storedHashed and the token
// has not expired.
func (s *TokenService) VerifyResetToken(plain, storedHashed string, storedExpiry time.Time) bool {
	if storedHashed == "" {
		return false
	}
	match := subtle.ConstantTimeCompare([]byte(HashResetToken(plain)), []byte(storedHashed)) == 1
	return match && s.now().Before(storedExpiry)
}

// HashResetToken is the at-rest form of a reset token.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
