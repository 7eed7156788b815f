package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/reqctx"
	"github.com/natours/booking-api/internal/core/domain"
)

func withRole(role domain.Role) Stage {
	return StageFunc(func(c echo.Context) (context.Context, error) {
		return reqctx.WithIdentity(c.Request().Context(), &domain.User{Role: role}), nil
	})
}

func TestRestrictTo_Allows(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleLeadGuide} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec, called, err := runChain(t, req, withRole(role), RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide))
		if err != nil {
			t.Fatalf("%s: handler error: %v", role, err)
		}
		if !called {
			t.Fatalf("%s: next handler not called", role)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", role, rec.Code)
		}
	}
}

func TestRestrictTo_Forbids(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleGuide} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, called, err := runChain(t, req, withRole(role), RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide))
		if called {
			t.Fatalf("%s: should not reach next handler", role)
		}
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", role, err)
		}
		if err.Error() != msgForbidden {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}
}

func TestRestrictTo_NoIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, called, err := runChain(t, req, RestrictTo(domain.RoleAdmin))
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestChain_StopsAtFirstRejection(t *testing.T) {
	var order []string
	record := func(name string, err error) Stage {
		return StageFunc(func(echo.Context) (context.Context, error) {
			order = append(order, name)
			return nil, err
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	boom := errors.New("boom")
	_, called, err := runChain(t, req, record("a", nil), record("b", boom), record("c", nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if called {
		t.Fatalf("handler must not run")
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected stage order %v", order)
	}
}
