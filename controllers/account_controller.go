// File: /controllers/account_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"socialpulse-api/models"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

type AccountController struct {
	accounts *services.AccountService
}

func NewAccountController(accounts *services.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func (ac *AccountController) GetAccounts(c *gin.Context) {
	accounts, err := ac.accounts.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (ac *AccountController) Connect(c *gin.Context) {
	var req services.ConnectAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	account, created, err := ac.accounts.Connect(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		respondError(c, err, "Failed to connect account")
		return
	}

	status, message := http.StatusOK, "Account reconnected successfully"
	if created {
		status, message = http.StatusCreated, "Account connected successfully"
	}
	c.JSON(status, gin.H{
		"message": message,
		"account": account.ToResponse(),
	})
}

func (ac *AccountController) GetAccount(c *gin.Context) {
	account, err := ac.accounts.Get(c.Request.Context(), c.GetString("user_id"), models.Platform(c.Param("platform")))
	if err != nil {
		respondError(c, err, "Failed to fetch account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account.ToResponse()})
}

func (ac *AccountController) Disconnect(c *gin.Context) {
	platform := models.Platform(c.Param("platform"))
	if err := ac.accounts.Disconnect(c.Request.Context(), c.GetString("user_id"), platform); err != nil {
		respondError(c, err, "Failed to disconnect account")
		return
	}
	utils.SendSuccess(c, string(platform)+" account disconnected", nil)
}
