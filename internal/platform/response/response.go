package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/route-planner/service-planner/internal/platform/domain"
)

// ErrorBody is the error part of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Accepted writes a 202 response with data.
func Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Error: &ErrorBody{Code: string(domain.CodeValidation), Message: message},
	})
}

// Error maps err onto an HTTP status using its domain code.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "internal server error"

	if dc, ok := domain.CodeOf(err); ok {
		code = string(dc)
		message = err.Error()
		switch dc {
		case domain.CodeValidation:
			status = http.StatusBadRequest
		case domain.CodeNotFound:
			status = http.StatusNotFound
		case domain.CodeInvalidState:
			status = http.StatusConflict
		case domain.CodeUnavailable:
			status = http.StatusBadGateway
		}
	}

	c.JSON(status, Envelope{Error: &ErrorBody{Code: code, Message: message}})
}
