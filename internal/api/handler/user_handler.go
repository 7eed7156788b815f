package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

const (
	msgNotForPasswords = "This route is not for password updates. Please use /updateMyPassword."
	msgPasswordsDiffer = "Passwords are not the same!"
)

// UserHandler serves account self-service and the admin user endpoints. The
// admin list, get and delete endpoints come from the generic resource.
type UserHandler struct {
	*Resource[domain.User, domain.ProfilePatch]
	users ports.UserService
}

func NewUserHandler(users ports.UserService, repo ports.Repository[domain.User]) *UserHandler {
	return &UserHandler{
		Resource: NewResource[domain.User, domain.ProfilePatch]("user", "users", repo, userFields),
		users:    users,
	}
}

type updateMeRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Photo           *string `json:"photo"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

type createUserRequest struct {
	Name            string      `json:"name" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	Photo           string      `json:"photo"`
	Role            domain.Role `json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Password        string      `json:"password" validate:"required,min=8,bcryptmax"`
	PasswordConfirm string      `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type updateUserRequest struct {
	Name            *string      `json:"name" validate:"omitempty,min=1"`
	Email           *string      `json:"email" validate:"omitempty,email"`
	Photo           *string      `json:"photo"`
	Role            *domain.Role `json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Password        *string      `json:"password" validate:"omitempty,min=8,bcryptmax"`
	PasswordConfirm *string      `json:"passwordConfirm"`
}

// UpdateMe changes the caller's name, email or photo.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateMeRequest  true  "Profile fields"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /users/updateMe [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Password != nil || req.PasswordConfirm != nil {
		return domain.Errorf(domain.ErrValidation, msgNotForPasswords)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.users.UpdateMe(c.Request().Context(), user.ID.Hex(), domain.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		return err
	}
	metrics.DocumentsWrittenTotal.WithLabelValues("user", "update").Inc()
	return success(c, http.StatusOK, data("user", updated))
}

// DeleteMe deactivates the caller's account.
//
// @Summary      Deactivate own account
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  Envelope
// @Router       /users/deleteMe [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteMe(c.Request().Context(), user.ID.Hex()); err != nil {
		return err
	}
	metrics.DocumentsWrittenTotal.WithLabelValues("user", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// CreateUser creates an account with any role.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Router       /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Photo:    req.Photo,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.DocumentsWrittenTotal.WithLabelValues("user", "create").Inc()
	return success(c, http.StatusCreated, data("user", created))
}

// UpdateUser is the administrative partial update. A new password must be
// confirmed and invalidates the user's existing sessions.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Password != nil && (req.PasswordConfirm == nil || *req.PasswordConfirm != *req.Password) {
		return domain.Errorf(domain.ErrValidation, msgPasswordsDiffer)
	}

	updated, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Photo:    req.Photo,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.DocumentsWrittenTotal.WithLabelValues("user", "update").Inc()
	return success(c, http.StatusOK, data("user", updated))
}
