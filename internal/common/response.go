package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PageMeta   `json:"meta,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// PageMeta cursor pagination metadata
type PageMeta struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor,omitempty"`
}

// APIError error payload
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success returns a 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithMeta returns a 200 response with pagination metadata
func SuccessWithMeta(c *gin.Context, data interface{}, meta *PageMeta) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// Created returns a 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// NoContent returns a 204 response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse returns an error response with an explicit status
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	apiErr := &APIError{
		Code:    errorCode(status),
		Message: message,
	}
	if err != nil {
		apiErr.Details = err.Error()
	}
	c.JSON(status, Response{Success: false, Error: apiErr})
}

// FailFromError maps a typed service error onto the transport status
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, ErrInvalidTransition):
		ErrorResponse(c, http.StatusConflict, "invalid status transition", err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		ErrorResponse(c, http.StatusUnauthorized, "authentication required", err)
	case errors.Is(err, ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, "insufficient permissions", err)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrUserAlreadyExists):
		ErrorResponse(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, "invalid input", err)
	case errors.Is(err, ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, "invalid credentials", err)
	case errors.Is(err, ErrStorageUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable, "storage unavailable", err)
	default:
		ErrorResponse(c, http.StatusInternalServerError, "internal error", err)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
