package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/api/middleware"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// CookieConfig controls the session cookie set next to every issued token.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
	publicURL   string
}

// NewAuthHandler returns the auth handlers. publicURL is the base of mailed
// reset links; when empty the request scheme and Host are used.
func NewAuthHandler(authService ports.AuthService, cookie CookieConfig, publicURL string) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, publicURL: strings.TrimRight(publicURL, "/")}
}

type signupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Photo           string `json:"photo"`
	Password        string `json:"password" validate:"required,min=8,bcryptmax"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,bcryptmax"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,bcryptmax"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Signup creates a new account with the user role and logs it in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Photo:    req.Photo,
	})
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusCreated, sess, "signup")
}

// Login authenticates with email and password.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusOK, sess, "login")
}

// ForgotPassword mails a reset link when the email belongs to an account.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /users/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	base := h.publicURL
	if base == "" {
		base = fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)
	}
	link := func(token string) string {
		return base + "/api/v1/users/resetPassword/" + token
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email, link); err != nil {
		return err
	}
	return message(c, http.StatusOK, "If that email is registered, a reset token has been sent to it.")
}

// ResetPassword sets a new password using a mailed reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  Envelope
// @Failure      400    {object}  Envelope
// @Router       /users/resetPassword/{token} [patch]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusOK, sess, "reset_password")
}

// UpdateMyPassword changes the password of the logged-in user.
//
// @Summary      Update own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /users/updateMyPassword [patch]
func (h *AuthHandler) UpdateMyPassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.authService.UpdatePassword(c.Request().Context(), user.ID.Hex(), req.PasswordCurrent, req.Password)
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusOK, sess, "update_password")
}

func (h *AuthHandler) sendSession(c echo.Context, code int, sess *domain.Session, via string) error {
	ttl := h.cookie.TTL
	if ttl <= 0 {
		ttl = time.Until(sess.ExpiresAt)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	metrics.SessionsIssuedTotal.WithLabelValues(via).Inc()

	return c.JSON(code, Envelope{
		Status: StatusSuccess,
		Token:  sess.Token,
		Data:   data("user", sess.User),
	})
}
