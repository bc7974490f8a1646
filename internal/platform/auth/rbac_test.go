package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(roles ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRole_Allows(t *testing.T) {
	mw := RequireRole("billing")
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(contextWithRoles("billing"))
	if err != nil || !called {
		t.Errorf("expected handler to run, err=%v called=%v", err, called)
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	mw := RequireRole("denials")
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(contextWithRoles("admin"))
	if err != nil || !called {
		t.Errorf("expected admin to pass, err=%v called=%v", err, called)
	}
}

func TestRequireRole_Denies(t *testing.T) {
	mw := RequireRole("billing", "denials")
	err := mw(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(contextWithRoles("viewer"))

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	mw := RequireRole("billing")
	err := mw(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(contextWithRoles())

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}
