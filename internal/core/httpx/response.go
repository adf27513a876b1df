package httpx

import (
	"errors"
	"net/http"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	// Success is always false.
	Success bool `json:"success"`
	// Error is the human-readable message.
	Error string `json:"error"`
	// Code is the stable machine-readable error code.
	Code string `json:"code,omitempty"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id,omitempty"`
}

// RayID returns the request id set by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		if e.Code == "TooFrequent" {
			return http.StatusTooManyRequests
		}
		return http.StatusConflict
	case apperr.Authorization:
		return http.StatusUnauthorized
	case apperr.Gateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as the failure envelope. Unclassified and persistence errors are
// logged and their details withheld from the client.
func WriteError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	rayID := RayID(c)

	resp := ErrorResponse{
		Error: apperr.MessageOf(err),
		RayID: rayID,
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		resp.Code = e.Code
	}

	if status >= http.StatusInternalServerError {
		logger.Get().Error("Request failed",
			zap.String("ray_id", rayID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(resp)
}
