package auth

import (
	"errors"
	"net/http"

	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Verify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No verification token provided",
			"requestID": requestID,
		})
		return
	}

	err := d.Auth.Verify(c.Request.Context(), token)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Email is verified",
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrAlreadyVerified):
		c.JSON(http.StatusOK, gin.H{
			"message": "Email is already verified",
		})
	case errors.Is(err, service.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Token expired",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Token expired or invalid",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify user", zap.Error(err), zap.String("requestID", requestID))
	}
}
