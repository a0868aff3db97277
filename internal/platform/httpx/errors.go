package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stockpos/stockpos/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Validation and integrity
// failures surface their message; everything else is an opaque 500.
func RespondError(w http.ResponseWriter, err error) {
	var vErr *shared.ValidationError
	var iErr *shared.IntegrityError
	switch {
	case errors.As(err, &vErr):
		Error(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &iErr):
		Error(w, http.StatusConflict, iErr.Error())
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, shared.ErrNotFound.Error())
	case errors.Is(err, shared.ErrInvalidID):
		Error(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// FirstValidationError flattens a validator.ValidationErrors into the first
// failing field, prefixed the way the envelope contract requires.
func FirstValidationError(err error) *shared.ValidationError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return shared.NewValidationError(fieldName(fe), ruleMessage(fe))
	}
	return shared.NewValidationError("", "invalid request")
}

func fieldName(fe validator.FieldError) string {
	// Struct tags carry the JSON names via RegisterTagNameFunc; fall back to
	// a lowercased struct field name.
	return strings.ToLower(fe.Field())
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
