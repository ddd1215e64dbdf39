package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fwm-go/internal/fwm"
)

// ErrorCode is the machine-readable kind of an APIError.
type ErrorCode string

const (
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodeInvalidReference ErrorCode = "invalid_reference"
	ErrCodeLoadFailed       ErrorCode = "load_failed"
	ErrCodeInternalError    ErrorCode = "internal_error"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func respondWithError(c *gin.Context, status int, code ErrorCode, message string, details ...string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error: APIError{Code: code, Message: message, Details: strings.Join(details, ", ")},
	})
}

func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, message, details...)
}

// respondServiceError maps a service error kind to its status code.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fwm.ErrValidation):
		respondWithError(c, http.StatusBadRequest, ErrCodeValidationFailed, "Validation failed", err.Error())
	case errors.Is(err, fwm.ErrNotFound):
		respondWithError(c, http.StatusNotFound, ErrCodeNotFound, "Not found", err.Error())
	case errors.Is(err, fwm.ErrIntegrity):
		respondWithError(c, http.StatusConflict, ErrCodeConflict, "Identifier already exists", err.Error())
	case errors.Is(err, fwm.ErrInvalidReference):
		respondWithError(c, http.StatusUnprocessableEntity, ErrCodeInvalidReference, "Referenced record does not exist", err.Error())
	case errors.Is(err, fwm.ErrLoadFailure):
		// The previous store content is still being served.
		_ = c.Error(err)
		respondWithError(c, http.StatusInternalServerError, ErrCodeLoadFailed, "Reload failed", err.Error())
	default:
		_ = c.Error(err)
		respondWithError(c, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
	}
}

// respondInvalidInput reports a malformed request body or parameter.
func respondInvalidInput(c *gin.Context, err error) {
	respondWithError(c, http.StatusBadRequest, ErrCodeValidationFailed, "Validation failed", err.Error())
}
