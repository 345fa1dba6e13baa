// File: /controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"socialpulse-api/repositories"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

// respondError maps domain errors to HTTP statuses. Anything unknown is
// logged and reported as a 500 with the fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		utils.SendValidationError(c, validation.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		utils.SendValidationError(c, err.Error())
	case errors.Is(err, repositories.ErrPostNotFound):
		utils.SendError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		utils.SendError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, repositories.ErrAccountNotFound):
		utils.SendError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, repositories.ErrPostLocked),
		errors.Is(err, repositories.ErrPostChanged),
		errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, repositories.ErrEmailTaken):
		utils.SendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.SendError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrAINotConfigured),
		errors.Is(err, services.ErrOAuthNotConfigured):
		utils.SendError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		utils.SendError(c, http.StatusInternalServerError, fallback)
	}
}
