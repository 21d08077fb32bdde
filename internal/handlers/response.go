package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"garage-backend/internal/auth"
	"garage-backend/internal/models"
	"garage-backend/internal/services"
	"garage-backend/internal/timeutil"
	"garage-backend/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest reads a JSON body into dst and validates its struct tags
func decodeRequest(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &services.ValidationError{Field: "body", Message: "Dữ liệu gửi lên không hợp lệ"}
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &services.ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("Trường %s không hợp lệ (%s)", fe.Field(), fe.Tag()),
			}
		}
		return &services.ValidationError{Field: "body", Message: "Dữ liệu gửi lên không hợp lệ"}
	}
	return nil
}

// statusFor maps the service error taxonomy to an HTTP status
func statusFor(err error) int {
	var v *services.ValidationError
	switch {
	case errors.As(err, &v):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock), errors.Is(err, services.ErrOverpayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrInUse),
		errors.Is(err, services.ErrCapacityExceeded), errors.Is(err, services.ErrNoDebt):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError sends err as a failed OperationResult
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()

	var p *services.PersistenceError
	if status == http.StatusInternalServerError && !errors.As(err, &p) {
		log.Printf("[HTTP] Unexpected error: %v", err)
		message = "Internal server error"
	}
	utils.JSON(w, status, models.Failed(message))
}

func writeResult(w http.ResponseWriter, status int, message string, data interface{}) {
	utils.JSON(w, status, models.Succeeded(message, data))
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	utils.JSON(w, http.StatusOK, data)
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || v <= 0 {
		return 0, &services.ValidationError{Field: name, Message: fmt.Sprintf("Giá trị %s không hợp lệ", name)}
	}
	return v, nil
}

// queryDate parses ?name=YYYY-MM-DD. An absent value yields today in ICT via timeutil.ParseDate.
func queryDate(r *http.Request, name string) (time.Time, error) {
	d, err := timeutil.ParseDate(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return time.Time{}, &services.ValidationError{Field: name, Message: "Ngày không hợp lệ (YYYY-MM-DD)"}
	}
	return d, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return v
}

func sessionUserID(r *http.Request) int {
	return auth.UserIDFrom(r.Context())
}
