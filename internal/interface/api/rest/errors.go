package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"design-market-api/internal/application/services"
	"design-market-api/internal/domain/entitlement"
	userDB "design-market-api/internal/infrastructure/db/postgres/user"
	"design-market-api/internal/infrastructure/s3"
)

// denyStatus maps a denial reason to the status the UI routes on:
// 401 sends the user to sign-in, 402 to the subscription page, 429 to
// "try again tomorrow".
func denyStatus(reason entitlement.DenyReason) int {
	switch reason {
	case entitlement.ReasonAuthenticationRequired:
		return http.StatusUnauthorized
	case entitlement.ReasonSubscriptionRequired:
		return http.StatusPaymentRequired
	case entitlement.ReasonDailyLimitReached:
		return http.StatusTooManyRequests
	default:
		return http.StatusForbidden
	}
}

// respondError translates service errors into the JSON error envelope.
func respondError(c *gin.Context, err error, fallback string) {
	var entErr *services.EntitlementError
	switch {
	case errors.As(err, &entErr):
		c.JSON(denyStatus(entErr.Reason), gin.H{
			"error":  "download denied",
			"reason": string(entErr.Reason),
		})
	case errors.Is(err, s3.ErrObjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, services.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyPath),
		errors.Is(err, services.ErrTooManyFiles),
		errors.Is(err, services.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, userDB.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
