// File: /controllers/social_auth_controller.go
package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

type SocialAuthController struct {
	linkedin    *services.LinkedInOAuthService
	frontendURL string
}

func NewSocialAuthController(linkedin *services.LinkedInOAuthService, frontendURL string) *SocialAuthController {
	return &SocialAuthController{
		linkedin:    linkedin,
		frontendURL: frontendURL,
	}
}

// =========================
// LINKEDIN AUTHENTICATION
// =========================

func (sac *SocialAuthController) LinkedInLogin(c *gin.Context) {
	authURL, err := sac.linkedin.AuthURL(c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, services.ErrOAuthNotConfigured) {
			utils.SendError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to start LinkedIn OAuth")
		utils.SendError(c, http.StatusInternalServerError, "OAuth init failed")
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// LinkedInCallback always ends on the frontend accounts page; the outcome is
// carried in the query string.
func (sac *SocialAuthController) LinkedInCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		log.Info().Str("reason", reason).Msg("LinkedIn authorization declined")
		sac.redirect(c, false)
		return
	}

	account, err := sac.linkedin.Callback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		log.Warn().Err(err).Msg("LinkedIn callback failed")
		sac.redirect(c, false)
		return
	}
	log.Info().Str("user_id", account.UserID).Str("account_id", account.ID).Msg("LinkedIn callback completed")
	sac.redirect(c, true)
}

func (sac *SocialAuthController) redirect(c *gin.Context, success bool) {
	q := url.Values{}
	q.Set("platform", "linkedin")
	if success {
		q.Set("success", "true")
	} else {
		q.Set("success", "false")
	}
	c.Redirect(http.StatusFound, sac.frontendURL+"/accounts?"+q.Encode())
}
