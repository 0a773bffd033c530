package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/domain/category"
	"github.com/example/herbal-backoffice/internal/domain/customer"
	"github.com/example/herbal-backoffice/internal/domain/discount"
	"github.com/example/herbal-backoffice/internal/domain/employee"
	"github.com/example/herbal-backoffice/internal/domain/order"
	"github.com/example/herbal-backoffice/internal/domain/product"
	"github.com/example/herbal-backoffice/internal/idgen"
)

var notFoundErrors = []error{
	category.ErrCategoryNotFound,
	customer.ErrCustomerNotFound,
	discount.ErrDiscountNotFound,
	employee.ErrEmployeeNotFound,
	order.ErrOrderNotFound,
	product.ErrProductNotFound,
}

var conflictErrors = []error{
	command.ErrEmailTaken,
	order.ErrDuplicateID,
	product.ErrDuplicateID,
	product.ErrInsufficientStock,
	idgen.ErrCodeSpaceExhausted,
}

var validationErrors = []error{
	category.ErrInvalidName,
	customer.ErrInvalidName,
	customer.ErrInvalidEmail,
	customer.ErrInvalidStatus,
	customer.ErrInvalidTotals,
	discount.ErrInvalidName,
	discount.ErrInvalidType,
	discount.ErrInvalidValue,
	discount.ErrInvalidDate,
	discount.ErrInvalidDateRange,
	discount.ErrInvalidStatus,
	discount.ErrTooManyTargets,
	employee.ErrInvalidName,
	employee.ErrInvalidEmail,
	employee.ErrInvalidRole,
	employee.ErrInvalidPermission,
	employee.ErrInvalidStatus,
	employee.ErrPasswordFieldsRequired,
	employee.ErrPasswordMismatch,
	employee.ErrWrongPassword,
	auth.ErrPasswordTooShort,
	order.ErrOrderGuard,
	order.ErrInvalidQuantity,
	order.ErrInvalidStatus,
	order.ErrInvalidDate,
	product.ErrInvalidName,
	product.ErrInvalidPrice,
	product.ErrNegativeStock,
}

// statusFor maps a domain error to its HTTP status
func statusFor(err error) int {
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, validationErrors):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, employee.ErrEmployeeInactive):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError writes err with the status it maps to. Internal errors are
// logged and hidden from the client.
func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
		respondJSONError(w, "internal server error", status)
		return
	}
	respondJSONError(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSON reads the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
