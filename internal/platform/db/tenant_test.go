package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func tenantRequest(t *testing.T, target string, header string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("X-Tenant-ID", header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestExtractTenantID_ResolutionOrder(t *testing.T) {
	// JWT claim beats header beats query beats default.
	c := tenantRequest(t, "/?tenant_id=query_practice", "header_practice")
	c.Set("jwt_tenant_id", "jwt_practice")
	if tid := extractTenantID(c, "default"); tid != "jwt_practice" {
		t.Errorf("expected jwt_practice, got %s", tid)
	}

	c = tenantRequest(t, "/?tenant_id=query_practice", "header_practice")
	if tid := extractTenantID(c, "default"); tid != "header_practice" {
		t.Errorf("expected header_practice, got %s", tid)
	}

	c = tenantRequest(t, "/?tenant_id=query_practice", "")
	if tid := extractTenantID(c, "default"); tid != "query_practice" {
		t.Errorf("expected query_practice, got %s", tid)
	}

	c = tenantRequest(t, "/", "")
	if tid := extractTenantID(c, "default"); tid != "default" {
		t.Errorf("expected default, got %s", tid)
	}
}

func TestExtractTenantID_EmptyClaimFallsThrough(t *testing.T) {
	c := tenantRequest(t, "/", "north_clinic")
	c.Set("jwt_tenant_id", "")
	if tid := extractTenantID(c, "default"); tid != "north_clinic" {
		t.Errorf("expected north_clinic when the claim is empty, got %s", tid)
	}
}

func TestTenantIDPattern(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"north_clinic", true},
		{"practice_42", true},
		{"A1B2", true},
		{"a", true},
		{"north-clinic", false},
		{"north.clinic", false},
		{"north clinic", false},
		{"'; DROP TABLE claim", false},
		{"a/b", false},
		{"", false},
		{"$pecial", false},
	}

	for _, tt := range tests {
		if got := tenantIDPattern.MatchString(tt.input); got != tt.valid {
			t.Errorf("tenantIDPattern.MatchString(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestSchemaFor(t *testing.T) {
	if s := schemaFor("north_clinic"); s != "tenant_north_clinic" {
		t.Errorf("unexpected schema name: %s", s)
	}
}

func TestCreateTenantSchema_RejectsInvalidIDs(t *testing.T) {
	for _, id := range []string{"north-clinic", "a.b", "drop;table", "ten ant"} {
		if err := CreateTenantSchema(context.Background(), nil, id, ""); err == nil {
			t.Errorf("expected error for tenant id %q", id)
		}
	}
}

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "north_clinic")
	if tid := TenantFromContext(ctx); tid != "north_clinic" {
		t.Errorf("expected north_clinic, got %s", tid)
	}
	if tid := TenantFromContext(context.Background()); tid != "" {
		t.Errorf("expected empty tenant, got %s", tid)
	}

	wrongType := context.WithValue(context.Background(), TenantIDKey, 42)
	if tid := TenantFromContext(wrongType); tid != "" {
		t.Errorf("expected empty tenant for wrong type, got %q", tid)
	}
}

func TestConnFromContext(t *testing.T) {
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Error("expected nil conn from empty context")
	}

	wrongType := context.WithValue(context.Background(), DBConnKey, "not-a-conn")
	if conn := ConnFromContext(wrongType); conn != nil {
		t.Error("expected nil conn for wrong type")
	}
}

func TestTxFromContext(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from empty context")
	}

	wrongType := context.WithValue(context.Background(), DBTxKey, "not-a-tx")
	if tx := TxFromContext(wrongType); tx != nil {
		t.Error("expected nil tx for wrong type")
	}
}
