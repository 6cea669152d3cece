package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeRBAC(t *testing.T, granted []string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if granted != nil {
		c.Set("roles", granted)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := RBAC(allowed...)(next)(c); err != nil {
		t.Fatalf("RBAC returned error: %v", err)
	}
	return rec
}

func TestRBAC_AllowsGrantedRole(t *testing.T) {
	rec := invokeRBAC(t, []string{"CASHIER", "ADMIN"}, "ADMIN")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_RejectsMissingRole(t *testing.T) {
	tests := []struct {
		name    string
		granted []string
	}{
		{"no roles claim", nil},
		{"empty role set", []string{}},
		{"disallowed role", []string{"CASHIER"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := invokeRBAC(t, tc.granted, "ADMIN")
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "forbidden") {
				t.Fatalf("unexpected body: %s", rec.Body.String())
			}
		})
	}
}
