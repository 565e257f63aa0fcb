package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"notedeck/repository"
	"notedeck/services"
	"notedeck/utils"
)

type TwoFactorHandler struct {
	usersRepo *repository.UsersRepo
}

func NewTwoFactorHandler(usersRepo *repository.UsersRepo) *TwoFactorHandler {
	return &TwoFactorHandler{usersRepo: usersRepo}
}

// GenerateSecretHandler creates a new TOTP secret for the account. The secret
// is not stored until the user proves they added it to their authenticator.
func (h *TwoFactorHandler) GenerateSecretHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.usersRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is already enabled")
		return
	}

	secret, url, err := services.GenerateTOTPSecret(user.Email)
	if err != nil {
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	utils.Success(c, gin.H{
		"secret":           secret,
		"provisioning_url": url,
	})
}

// EnableHandler verifies the first TOTP code and turns 2FA on, handing out
// single-use recovery codes exactly once.
func (h *TwoFactorHandler) EnableHandler(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID := c.GetString("user_id")

	user, err := h.usersRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is already enabled")
		return
	}

	if err := services.ValidateTOTPCode(req.Code, req.Secret); err != nil {
		utils.BadRequest(c, "Invalid 2FA code")
		return
	}

	recoveryCodes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		utils.InternalError(c, "Failed to generate recovery codes")
		return
	}

	hashedCodes, err := utils.HashRecoveryCodes(recoveryCodes)
	if err != nil {
		utils.InternalError(c, "Failed to store recovery codes")
		return
	}

	if err := h.usersRepo.SetTwoFactor(c.Request.Context(), userID, req.Secret, true, hashedCodes); err != nil {
		utils.InternalError(c, "Failed to enable 2FA")
		return
	}

	utils.Success(c, gin.H{
		"message":        "2FA enabled successfully",
		"recovery_codes": recoveryCodes,
		"warning":        "Save these recovery codes securely. They will not be shown again.",
	})
}

// VerifyHandler checks a TOTP code against the stored secret.
func (h *TwoFactorHandler) VerifyHandler(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID := c.GetString("user_id")

	user, err := h.usersRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if !user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is not enabled")
		return
	}

	if err := services.ValidateTOTPCode(req.Code, user.TwoFactorSecret); err != nil {
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	utils.Success(c, gin.H{"message": "2FA code valid"})
}

// DisableHandler turns 2FA off after verifying a current code.
func (h *TwoFactorHandler) DisableHandler(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID := c.GetString("user_id")

	user, err := h.usersRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if !user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is not enabled")
		return
	}

	if err := services.ValidateTOTPCode(req.Code, user.TwoFactorSecret); err != nil {
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	if err := h.usersRepo.SetTwoFactor(c.Request.Context(), userID, "", false, nil); err != nil {
		utils.InternalError(c, "Failed to disable 2FA")
		return
	}

	utils.Success(c, gin.H{"message": "2FA disabled successfully"})
}
