package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes attached to failure envelopes.
const (
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeMissingParams    = "MISSING_PARAMS"
	CodeMissingBody      = "MISSING_BODY"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeConflict         = "CONFLICT"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicateEntity  = "DUPLICATE_ENTITY"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeExternalFailure  = "EXTERNAL_SERVICE_FAILURE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK sends a 200 JSON response with a message and optional data.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created sends a 201 JSON response with a message and optional data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// MethodNotAllowed sends 405.
func MethodNotAllowed(c *gin.Context, message string) {
	c.JSON(http.StatusMethodNotAllowed, Body{Success: false, Message: message, Code: CodeMethodNotAllowed})
}

// MissingParams sends 400 for absent or malformed path parameters.
func MissingParams(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Code: CodeMissingParams})
}

// MissingBody sends 400 for absent or unbindable request bodies.
func MissingBody(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Code: CodeMissingBody})
}

// BadRequest sends 400 for a failed business validation.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Code: CodeValidationFailed})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Message: message, Code: CodeUnauthorized})
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Message: message, Code: CodeNotFound})
}

// Conflict sends 409 for a booking-time conflict.
func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, Body{Success: false, Message: message, Code: CodeConflict})
}

// Duplicate sends 409 for an entity that already exists.
func Duplicate(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, Body{Success: false, Message: message, Code: CodeDuplicateEntity})
}

// External sends 502 for an upstream service failure.
func External(c *gin.Context, message string) {
	c.JSON(http.StatusBadGateway, Body{Success: false, Message: message, Code: CodeExternalFailure})
}

// Internal sends 500.
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Message: message, Code: CodeInternal})
}
