package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := RBAC(allowed...)(next)(c); err != nil {
		t.Fatalf("RBAC: %v", err)
	}
	return rec
}

func TestRBACAllowsListedRole(t *testing.T) {
	rec := runRBAC(t, "teacher", "teacher", "admin")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRBACRejectsOtherRole(t *testing.T) {
	rec := runRBAC(t, "student", "teacher")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRBACRejectsMissingRole(t *testing.T) {
	rec := runRBAC(t, "", "teacher")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
