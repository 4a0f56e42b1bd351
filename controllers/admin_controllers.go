package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/middlewares"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

type AdminController struct {
	Auth         *services.AuthService
	TokenTTL     time.Duration
	SecureCookie bool
}

func NewAdminController(auth *services.AuthService, tokenTTL time.Duration, secure bool) *AdminController {
	return &AdminController{Auth: auth, TokenTTL: tokenTTL, SecureCookie: secure}
}

// Login returns the token in the body and also sets it as an http-only
// cookie for the admin pages.
func (ac *AdminController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" form:"username" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, admin, err := ac.Auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middlewares.AdminTokenCookie, token, int(ac.TokenTTL.Seconds()), "/", "", ac.SecureCookie, true)
	utils.InfoLogger.Printf("Admin %q logged in", admin.Username)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":    token,
		"username": admin.Username,
	})
}

func (ac *AdminController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middlewares.AdminTokenCookie, "", -1, "/", "", ac.SecureCookie, true)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AdminController) Profile(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Admin profile", gin.H{
		"id":       c.GetUint(middlewares.ContextAdminID),
		"username": c.GetString(middlewares.ContextUsername),
	})
}
