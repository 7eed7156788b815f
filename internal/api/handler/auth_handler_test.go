package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/booking-api/internal/api/middleware"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// stubAuthService records its inputs and returns canned sessions.
type stubAuthService struct {
	signup     ports.SignupInput
	forgotLink string
	err        error
	updatedFor string
}

func (s *stubAuthService) session(name, email string) *domain.Session {
	return &domain.Session{
		Token:     "signed.jwt.token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: domain.RoleUser, Password: "hash"},
	}
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, s.err
}

func (s *stubAuthService) Signup(_ context.Context, in ports.SignupInput) (*domain.Session, error) {
	s.signup = in
	if s.err != nil {
		return nil, s.err
	}
	return s.session(in.Name, in.Email), nil
}

func (s *stubAuthService) Login(_ context.Context, email, _ string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session("Jonas", email), nil
}

func (s *stubAuthService) ForgotPassword(_ context.Context, _ string, link ports.ResetLink) error {
	s.forgotLink = link("abc123")
	return s.err
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session("Jonas", "jonas@example.com"), nil
}

func (s *stubAuthService) UpdatePassword(_ context.Context, userID, _, _ string) (*domain.Session, error) {
	s.updatedFor = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.session("Jonas", "jonas@example.com"), nil
}

func TestAuthHandler_Signup(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, CookieConfig{TTL: 90 * 24 * time.Hour}, "")

	body := `{"name":"Jonas","email":"jonas@example.com","password":"pass1234","passwordConfirm":"pass1234","role":"admin"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users/signup", body), rec)
	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["token"] != "signed.jwt.token" {
		t.Fatalf("expected token in body, got %v", resp["token"])
	}
	user := resp["data"].(map[string]any)["user"].(map[string]any)
	if _, ok := user["password"]; ok {
		t.Fatalf("password hash must not be serialized: %v", user)
	}

	cookie := rec.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != middleware.TokenCookie || cookie[0].Value != "signed.jwt.token" || !cookie[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookie)
	}
	if svc.signup.Name != "Jonas" || svc.signup.Password != "pass1234" {
		t.Fatalf("unexpected signup input %+v", svc.signup)
	}
}

func TestAuthHandler_Signup_PasswordsDiffer(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, CookieConfig{}, "")

	body := `{"name":"Jonas","email":"jonas@example.com","password":"pass1234","passwordConfirm":"pass4321"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/", body), httptest.NewRecorder())
	err := h.Signup(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "Passwords are not the same!") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if svc.signup.Email != "" {
		t.Fatalf("service must not be called on invalid input")
	}
}

func TestAuthHandler_Signup_PasswordByteLimit(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"72 bytes", strings.Repeat("é", 36), true},
		{"40 runes over 72 bytes", strings.Repeat("é", 40), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			svc := &stubAuthService{}
			h := NewAuthHandler(svc, CookieConfig{}, "")

			body := `{"name":"Jonas","email":"jonas@example.com","password":"` + tc.password + `","passwordConfirm":"` + tc.password + `"}`
			c := e.NewContext(jsonRequest(http.MethodPost, "/", body), httptest.NewRecorder())
			err := h.Signup(c)
			if tc.ok {
				if err != nil {
					t.Fatalf("handler error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), "password must be at most 72 bytes") {
				t.Fatalf("unexpected message %q", err.Error())
			}
			if svc.signup.Email != "" {
				t.Fatalf("service must not be called on invalid input")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{}, "")

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"jonas@example.com","password":"pass1234"}`), rec)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected session cookie")
	}
}

func TestAuthHandler_Login_Unauthenticated(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{err: domain.Errorf(domain.ErrUnauthenticated, "Incorrect email or password")}
	h := NewAuthHandler(svc, CookieConfig{}, "")

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"jonas@example.com","password":"nope"}`), rec)
	if err := h.Login(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie on failed login")
	}
}

func TestAuthHandler_ForgotPassword_Link(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, CookieConfig{}, "")

	req := jsonRequest(http.MethodPost, "/api/v1/users/forgotPassword", `{"email":"jonas@example.com"}`)
	req.Host = "natours.test"
	rec := httptest.NewRecorder()
	if err := h.ForgotPassword(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if want := "http://natours.test/api/v1/users/resetPassword/abc123"; svc.forgotLink != want {
		t.Fatalf("link = %q, want %q", svc.forgotLink, want)
	}
	if resp := decode(t, rec); resp["message"] == nil || resp["status"] != StatusSuccess {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestAuthHandler_ForgotPassword_PublicURL(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, CookieConfig{}, "https://natours.io/")

	req := jsonRequest(http.MethodPost, "/api/v1/users/forgotPassword", `{"email":"jonas@example.com"}`)
	req.Host = "attacker.example"
	if err := h.ForgotPassword(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if want := "https://natours.io/api/v1/users/resetPassword/abc123"; svc.forgotLink != want {
		t.Fatalf("link = %q, want %q", svc.forgotLink, want)
	}
}

func TestAuthHandler_UpdateMyPassword(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, CookieConfig{}, "")
	me := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleUser}

	body := `{"passwordCurrent":"pass1234","password":"newpass123","passwordConfirm":"newpass123"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(withUser(jsonRequest(http.MethodPatch, "/", body), me), rec)
	if err := h.UpdateMyPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.updatedFor != me.ID.Hex() {
		t.Fatalf("expected update for %s, got %s", me.ID.Hex(), svc.updatedFor)
	}
	if decode(t, rec)["token"] == nil {
		t.Fatalf("expected a fresh token")
	}
}
