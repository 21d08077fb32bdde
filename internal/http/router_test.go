package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"garage-backend/internal/auth"
	"garage-backend/internal/config"
	"garage-backend/internal/handlers"
	"garage-backend/internal/health"
	"garage-backend/internal/middleware"
	"garage-backend/internal/models"
)

type stubUsers map[int]*models.User

func (s stubUsers) GetUser(ctx context.Context, id int) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func testRouter(t *testing.T) (http.Handler, map[string]string) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "router-test"
	cfg.JWT.ExpirationHours = 1
	jwt := auth.NewJWTManager(cfg)

	admin := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin, IsActive: true}
	staff := &models.User{ID: 2, Username: "staff", Role: models.RoleStaff, IsActive: true}

	tokens := map[string]string{}
	for _, u := range []*models.User{admin, staff} {
		token, err := jwt.GenerateToken(u)
		if err != nil {
			t.Fatal(err)
		}
		tokens[u.Role] = token
	}

	limit, err := middleware.NewRateLimit("100-M", false)
	if err != nil {
		t.Fatal(err)
	}

	h := Handlers{
		Auth:      handlers.NewAuthHandler(nil),
		Reception: handlers.NewReceptionHandler(nil),
		Repair:    handlers.NewRepairHandler(nil),
		Receipt:   handlers.NewReceiptHandler(nil),
		Vehicle:   handlers.NewVehicleHandler(nil),
		Catalog:   handlers.NewCatalogHandler(nil),
		Settings:  handlers.NewSystemSettingHandler(nil),
		Imports:   handlers.NewSuppliesImportHandler(nil),
		Reports:   handlers.NewReportHandler(nil, nil, nil),
		Users:     handlers.NewUserHandler(nil),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(okPinger{}, nil), "test"),
	}
	authMw := middleware.NewAuthMiddleware(jwt, stubUsers{1: admin, 2: staff})
	return NewRouter(h, authMw, limit), tokens
}

func TestHealthRoutes(t *testing.T) {
	router, _ := testRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestAPIRequiresToken(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/navigation", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPageGates(t *testing.T) {
	router, tokens := testRouter(t)

	tests := []struct {
		role   string
		method string
		path   string
	}{
		{models.RoleStaff, http.MethodGet, "/api/reports/revenue/2024/1"},
		{models.RoleStaff, http.MethodDelete, "/api/reports/stock/2024/1"},
		{models.RoleStaff, http.MethodGet, "/api/settings"},
		{models.RoleStaff, http.MethodGet, "/api/users"},
		{models.RoleStaff, http.MethodPost, "/api/imports"},
		{models.RoleStaff, http.MethodPost, "/api/catalog/brands"},
		{models.RoleStaff, http.MethodPut, "/api/catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tokens[tt.role])
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestNavigationByRole(t *testing.T) {
	router, tokens := testRouter(t)

	tests := []struct {
		role      string
		wantPages int
	}{
		{models.RoleAdmin, 10},
		{models.RoleStaff, 4},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/navigation", nil)
			req.Header.Set("Authorization", "Bearer "+tokens[tt.role])
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			var body struct {
				Pages []struct {
					ID string `json:"id"`
				} `json:"pages"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if len(body.Pages) != tt.wantPages {
				t.Fatalf("pages = %d, want %d", len(body.Pages), tt.wantPages)
			}
		})
	}
}

func TestReportPeriodValidatedBeforeService(t *testing.T) {
	router, tokens := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/revenue/2024/0", nil)
	req.Header.Set("Authorization", "Bearer "+tokens[models.RoleAdmin])
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
