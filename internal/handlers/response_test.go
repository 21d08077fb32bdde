package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"garage-backend/internal/models"
	"garage-backend/internal/services"
	"garage-backend/internal/timeutil"

	"github.com/gorilla/mux"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Field: "x", Message: "bad"}, http.StatusBadRequest},
		{"credential", &services.BusinessError{Kind: services.ErrInvalidCredential, Message: "no"}, http.StatusUnauthorized},
		{"not found", &services.NotFoundError{Entity: "supply", Message: "missing"}, http.StatusNotFound},
		{"stock", &services.InsufficientStockError{SupplyName: "Nhớt", Current: 1, Requested: 2}, http.StatusUnprocessableEntity},
		{"overpay", &services.OverpaymentError{}, http.StatusUnprocessableEntity},
		{"capacity", &services.CapacityError{Limit: 30}, http.StatusConflict},
		{"no debt", &services.BusinessError{Kind: services.ErrNoDebt, Message: "paid"}, http.StatusConflict},
		{"duplicate", &services.BusinessError{Kind: services.ErrDuplicate, Message: "dup"}, http.StatusConflict},
		{"in use", &services.BusinessError{Kind: services.ErrInUse, Message: "used"}, http.StatusConflict},
		{"persistence", &services.PersistenceError{Op: "lưu", Err: errors.New("conn reset")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Fatalf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteErrorMasksUnexpected(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: secret internals"))

	var body models.OperationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Success || body.Message != "Internal server error" {
		t.Fatalf("body = %+v", body)
	}

	rec = httptest.NewRecorder()
	writeError(rec, &services.OverpaymentError{})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "vượt quá") {
		t.Fatalf("overpayment response = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"valid", `{"license_plate":"51F-123.45","brand_name":"Toyota","owner_name":"A"}`, ""},
		{"malformed", `{"license_plate":`, "body"},
		{"missing owner", `{"license_plate":"51F-123.45","brand_name":"Toyota"}`, "owner_name"},
		{"bad email", `{"license_plate":"51F","brand_name":"Kia","owner_name":"A","email":"nope"}`, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req models.ReceiveCarRequest
			err := decodeRequest(r, &req)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("decodeRequest() error: %v", err)
				}
				return
			}
			var v *services.ValidationError
			if !errors.As(err, &v) || v.Field != tt.wantField {
				t.Fatalf("decodeRequest() = %v, want field %s", err, tt.wantField)
			}
		})
	}
}

func TestPathInt(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42", "bad": "0"})

	if v, err := pathInt(r, "id"); err != nil || v != 42 {
		t.Fatalf("pathInt(id) = %d, %v", v, err)
	}
	if _, err := pathInt(r, "bad"); err == nil {
		t.Fatal("pathInt accepted 0")
	}
	if _, err := pathInt(r, "missing"); err == nil {
		t.Fatal("pathInt accepted a missing var")
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?date=2024-03-05&limit=20&junk=x", nil)

	d, err := queryDate(r, "date")
	if err != nil || d.Format("2006-01-02") != "2024-03-05" {
		t.Fatalf("queryDate() = %v, %v", d, err)
	}
	if _, err := queryDate(httptest.NewRequest(http.MethodGet, "/?date=05/03/2024", nil), "date"); err == nil {
		t.Fatal("queryDate accepted a non-ISO date")
	}
	today, err := queryDate(httptest.NewRequest(http.MethodGet, "/", nil), "date")
	if err != nil || !today.Equal(timeutil.Today()) {
		t.Fatalf("queryDate() without value = %v, %v; want %v", today, err, timeutil.Today())
	}
	if got := queryInt(r, "limit", 100); got != 20 {
		t.Fatalf("queryInt(limit) = %d", got)
	}
	if got := queryInt(r, "junk", 100); got != 100 {
		t.Fatalf("queryInt(junk) = %d, want fallback", got)
	}
}
