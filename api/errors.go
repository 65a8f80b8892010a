package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JasonLinn/cryo-booking/internal/availability"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps domain errors and evaluator reasons to HTTP responses.
// Unexpected errors are logged and reported as a generic 500.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var reason availability.Reason
	switch {
	case errors.As(err, &reason):
		c.JSON(http.StatusBadRequest, errorResponse{Error: reason.Error(), Code: string(reason)})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "ValidationFailed"})
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrEquipmentNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "NotFound"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: "InvalidTransition"})
	case errors.Is(err, domain.ErrEquipmentExists):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: "AlreadyExists"})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "Unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error(), Code: "Forbidden"})
	default:
		log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "ValidationFailed"})
}
