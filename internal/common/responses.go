package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "internal server error"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// MessageResponse is returned by operations that only confirm success
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	var details map[string]string
	if field != "" {
		details = map[string]string{field: message}
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", message, details))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendServerError sends a server error response. The message is always static.
func SendServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", internalErrorMessage, nil))
}

// SendError maps a service error onto its HTTP response. Anything that is
// not a validation or not found error is logged and reported as a 500.
func SendError(c echo.Context, log logrus.FieldLogger, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return SendValidationError(c, ve.Field, ve.Message)
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return SendNotFoundError(c, nf.Resource)
	}

	log.WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
		"error":  err.Error(),
	}).Error("request failed")
	return SendServerError(c)
}

// HTTPErrorHandler renders errors that escape handlers (router misses, body
// limit, recovered panics) in the same envelope as handler errors.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
			code := "CLIENT_ERROR"
			if he.Code == http.StatusNotFound {
				code = "NOT_FOUND"
			}
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				message = m
			}
			_ = c.JSON(he.Code, CreateErrorResponse(code, message, nil))
			return
		}

		if sendErr := SendError(c, log, err); sendErr != nil {
			log.WithError(sendErr).Error("failed to write error response")
		}
	}
}
