package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"garage-backend/internal/auth"
	"garage-backend/internal/config"
	"garage-backend/internal/models"
	"garage-backend/internal/permissions"
)

type fakeUsers map[int]*models.User

func (f fakeUsers) GetUser(ctx context.Context, id int) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func testJWT() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "middleware-test"
	cfg.JWT.ExpirationHours = 1
	return auth.NewJWTManager(cfg)
}

func tokenFor(t *testing.T, m *auth.JWTManager, u *models.User) string {
	t.Helper()
	token, err := m.GenerateToken(u)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	jwt := testJWT()
	staff := &models.User{ID: 2, Username: "staff", Role: models.RoleStaff, IsActive: true}
	disabled := &models.User{ID: 3, Username: "old", Role: models.RoleStaff, IsActive: false}
	users := fakeUsers{2: staff, 3: disabled}

	var seen *auth.Session
	handler := NewAuthMiddleware(jwt, users).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"unknown user", "Bearer " + tokenFor(t, jwt, &models.User{ID: 99, Role: models.RoleAdmin}), http.StatusUnauthorized},
		{"disabled user", "Bearer " + tokenFor(t, jwt, disabled), http.StatusForbidden},
		{"active user", "Bearer " + tokenFor(t, jwt, staff), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/navigation", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if seen == nil || seen.UserID != 2 || seen.Role != models.RoleStaff {
		t.Fatalf("session = %+v", seen)
	}
}

func TestRequirePage(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		session *auth.Session
		page    string
		want    int
	}{
		{"no session", nil, permissions.PageReception, http.StatusUnauthorized},
		{"staff reception", &auth.Session{Role: models.RoleStaff}, permissions.PageReception, http.StatusOK},
		{"staff reports", &auth.Session{Role: models.RoleStaff}, permissions.PageRevenueReport, http.StatusForbidden},
		{"admin reports", &auth.Session{Role: models.RoleAdmin}, permissions.PageRevenueReport, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.session != nil {
				req = req.WithContext(auth.WithSession(req.Context(), tt.session))
			}
			rec := httptest.NewRecorder()
			RequirePage(tt.page)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireAnyPage(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	gate := RequireAnyPage(permissions.PageRepair, permissions.PageSuppliesImport)(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithSession(req.Context(), &auth.Session{Role: models.RoleStaff}))
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff with repair page: status = %d", rec.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limit, err := NewRateLimit("2-M", false)
	if err != nil {
		t.Fatal(err)
	}
	handler := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want [200 200 429]", codes)
	}

	if _, err := NewRateLimit("ten per minute", false); err == nil {
		t.Fatal("expected error for malformed rate")
	}
}

func TestRateLimitIgnoresForwardedHeaders(t *testing.T) {
	limit, err := NewRateLimit("2-M", false)
	if err != nil {
		t.Fatal(err)
	}
	handler := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}
	if allowed != 2 {
		t.Fatalf("allowed = %d, want 2 when forwarded headers rotate", allowed)
	}
}

func TestRateLimitTrustedProxy(t *testing.T) {
	limit, err := NewRateLimit("1-M", true)
	if err != nil {
		t.Fatal(err)
	}
	handler := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("client %s status = %d, want 200", client, rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4321"
	if got := ClientIP(req); got != "192.168.1.5" {
		t.Errorf("ClientIP() = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("ClientIP() with XFF = %q", got)
	}
}

func TestAPILoggingSeesSession(t *testing.T) {
	jwt := testJWT()
	admin := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin, IsActive: true}
	authMw := NewAuthMiddleware(jwt, fakeUsers{1: admin})

	handler := APILogging(authMw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/navigation", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwt, admin))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}
