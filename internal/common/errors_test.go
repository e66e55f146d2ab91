package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestErrorClassification(t *testing.T) {
	wrappedValidation := fmt.Errorf("create rental: %w", NewValidationError("missing required fields"))
	assert.True(t, IsValidationError(wrappedValidation))
	assert.False(t, IsNotFoundError(wrappedValidation))

	nf := NewNotFoundError("clothes", "abc")
	assert.True(t, IsNotFoundError(nf))
	assert.Equal(t, "clothes abc not found", nf.Error())

	cause := errors.New("connection refused")
	se := NewStorageError("insert order", cause)
	assert.True(t, IsStorageError(se))
	assert.ErrorIs(t, se, cause)

	// wrapping twice keeps the innermost operation
	assert.Same(t, se, NewStorageError("outer", se))
	assert.Nil(t, NewStorageError("noop", nil))
}

func TestSendError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", NewValidationError("invalid item selection"), http.StatusBadRequest, "VALIDATION_ERROR", "invalid item selection"},
		{"not found", NewNotFoundError("rental", "x"), http.StatusNotFound, "NOT_FOUND", "rental not found"},
		{"storage hides details", NewStorageError("insert", errors.New("pq: secret detail")), http.StatusInternalServerError, "SERVER_ERROR", "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "SERVER_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, SendError(c, quietLogger(), tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
			assert.NotContains(t, rec.Body.String(), "secret detail")
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Name   string  `json:"name" validate:"required"`
		Price  float64 `json:"rentalPrice" validate:"gte=0"`
		Status string  `json:"status" validate:"omitempty,oneof=available rented"`
	}

	assert.NoError(t, ValidateStruct(input{Name: "Ao dai", Price: 10}))

	err := ValidateStruct(input{Price: 10})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "name is required", ve.Message)

	err = ValidateStruct(input{Name: "x", Price: -1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rentalPrice", ve.Field)

	err = ValidateStruct(input{Name: "x", Status: "lost"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status must be one of: available, rented", ve.Message)
}

func TestParseID(t *testing.T) {
	_, err := ParseID("not-a-uuid", "clothes")
	assert.True(t, IsNotFoundError(err))

	id, err := ParseID(" 2f1c7a1e-5d3b-4a8e-9c1f-0b6e2d7a4c55 ", "clothes")
	assert.NoError(t, err)
	assert.Equal(t, "2f1c7a1e-5d3b-4a8e-9c1f-0b6e2d7a4c55", id.String())
}
