// File: /controllers/ai_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

type AIController struct {
	ai *services.AIService
}

func NewAIController(ai *services.AIService) *AIController {
	return &AIController{ai: ai}
}

func (ac *AIController) Generate(c *gin.Context) {
	var req services.GenerateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	result, err := ac.ai.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to generate content")
		return
	}
	log.Debug().Str("user_id", c.GetString("user_id")).Str("type", string(result.Type)).Msg("AI content generated")
	c.JSON(http.StatusOK, gin.H{"result": result})
}
