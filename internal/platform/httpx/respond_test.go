package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpos/stockpos/internal/shared"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestListEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{"a", "b"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	require.Equal(t, "success", env.Status)
	require.Equal(t, "Data retrieved successfully", env.Message)
	require.NotNil(t, env.Data)
}

func TestCreatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]any{"id": 1})

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "success", env.Status)
	require.Equal(t, "Operation successful", env.Message)
}

func TestErrorEnvelopeNullData(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "name: this field is required")

	env := decodeEnvelope(t, rec)
	require.Equal(t, "error", env.Status)
	require.Equal(t, "name: this field is required", env.Message)
	require.Nil(t, env.Data)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation with field", shared.NewValidationError("name", "this field is required"), http.StatusBadRequest, "name: this field is required"},
		{"validation transaction-wide", shared.NewValidationError("", "kg(s) of rice is out of stock"), http.StatusBadRequest, "kg(s) of rice is out of stock"},
		{"integrity", &shared.IntegrityError{Constraint: "units_name_active_idx", Message: "name already exists"}, http.StatusConflict, "name already exists"},
		{"not found", shared.ErrNotFound, http.StatusNotFound, shared.ErrNotFound.Error()},
		{"invalid id", shared.ErrInvalidID, http.StatusBadRequest, shared.ErrInvalidID.Error()},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			require.Equal(t, tc.code, rec.Code)
			env := decodeEnvelope(t, rec)
			require.Equal(t, "error", env.Status)
			require.Equal(t, tc.message, env.Message)
		})
	}
}

func TestFirstValidationErrorUsesJSONNames(t *testing.T) {
	type payload struct {
		Name  string  `json:"name" validate:"required"`
		Units []int64 `json:"units" validate:"required,min=1"`
	}

	v := NewValidator()
	err := v.Struct(payload{})
	require.Error(t, err)

	vErr := FirstValidationError(err)
	require.Equal(t, "name", vErr.Field)
	require.Equal(t, "this field is required", vErr.Message)

	err = v.Struct(payload{Name: "rice", Units: []int64{}})
	require.Error(t, err)
	vErr = FirstValidationError(err)
	require.Equal(t, "units", vErr.Field)
}

func TestFirstValidationErrorFallback(t *testing.T) {
	vErr := FirstValidationError(errors.New("not a validator error"))
	require.Equal(t, "", vErr.Field)
	require.Equal(t, "invalid request", vErr.Message)
}
