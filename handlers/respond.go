package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"notes-api/logger"
	"notes-api/service"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP statuses with user-safe messages.
// Anything unexpected becomes a generic 500 without internal detail.
func writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrConflict):
		writeMessage(w, http.StatusBadRequest, "Email is already taken")
	case errors.Is(err, service.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "You don't have permission to access this resource")
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	default:
		logger.Errorf("internal error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message, "status": status})
}

// decodeValid decodes the JSON body into v and runs struct validation.
func decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Message: "Invalid request body"}
	}
	if err := validate.Struct(v); err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) && len(ferrs) > 0 {
			return &service.ValidationError{Message: validationMessage(ferrs[0])}
		}
		return &service.ValidationError{Message: "Validation error"}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Email" && fe.Tag() == "required":
		return "Email is required"
	case fe.Field() == "Email":
		return "Email should be valid"
	case fe.Field() == "Password" && fe.Tag() == "required":
		return "Password is required"
	case fe.Field() == "Password":
		return "Password must be at least 6 characters long"
	case fe.Field() == "Title" && fe.Tag() == "required":
		return "Title is required"
	case fe.Field() == "Title":
		return "Title must not exceed 255 characters"
	default:
		return "Validation error"
	}
}
