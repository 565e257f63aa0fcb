package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"notedeck/middleware"
	"notedeck/model"
	"notedeck/repository"
	"notedeck/services"
	"notedeck/utils"
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	usersRepo   *repository.UsersRepo
	sessionRepo *repository.SessionRepo
}

func NewAuthHandler(oauthConfig *oauth2.Config, usersRepo *repository.UsersRepo, sessionRepo *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{
		oauthConfig: oauthConfig,
		usersRepo:   usersRepo,
		sessionRepo: sessionRepo,
	}
}

func frontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

// GoogleLoginHandler starts the Google sign-in code flow.
func (h *AuthHandler) GoogleLoginHandler(c *gin.Context) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		utils.InternalError(c, "Failed to start sign-in")
		return
	}
	state := hex.EncodeToString(buf)

	c.SetCookie("oauth_state", state, 300, "/", "", true, true)
	c.Redirect(http.StatusFound, h.oauthConfig.AuthCodeURL(state))
}

// GoogleCallbackHandler finishes the code flow: it exchanges the code, loads
// the Google profile, upserts the account and hands out session tokens. An
// account with 2FA enabled gets a short-lived pending token instead.
func (h *AuthHandler) GoogleCallbackHandler(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || c.Query("state") != state {
		middleware.TrackAuthAttempt("failure", "google")
		utils.Unauthorized(c, "Invalid state parameter")
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", true, true)

	code := c.Query("code")
	if code == "" {
		middleware.TrackAuthAttempt("failure", "google")
		utils.BadRequest(c, "Missing authorization code")
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("code exchange failed: %v", err)
		middleware.TrackAuthAttempt("failure", "google")
		utils.Unauthorized(c, "Failed to exchange authorization code")
		return
	}

	oauth2Service, err := oauth2v2.NewService(ctx,
		option.WithTokenSource(h.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		log.Printf("oauth2 service init failed: %v", err)
		utils.InternalError(c, "Failed to verify Google account")
		return
	}

	userinfo, err := oauth2Service.Userinfo.Get().Do()
	if err != nil {
		log.Printf("userinfo fetch failed: %v", err)
		middleware.TrackAuthAttempt("failure", "google")
		utils.Unauthorized(c, "Failed to fetch Google profile")
		return
	}

	user, err := h.usersRepo.UpsertGoogleUser(ctx, userinfo.Id, userinfo.Email, userinfo.Name, userinfo.Picture)
	if err != nil {
		log.Printf("user upsert failed: %v", err)
		middleware.TrackError("db")
		utils.InternalError(c, "Failed to load account")
		return
	}

	if user.TwoFactorEnabled {
		pending, err := services.GenerateTwoFactorPendingToken(user.UserID)
		if err != nil {
			utils.InternalError(c, "Failed to generate token")
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/?pending_token=%s", frontendURL(), pending))
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, user)
	if err != nil {
		utils.InternalError(c, "Failed to generate session tokens")
		return
	}

	middleware.TrackAuthAttempt("success", "google")
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/?access_token=%s&refresh_token=%s",
		frontendURL(), accessToken, refreshToken))
}

// TwoFactorLoginHandler exchanges a pending token plus a TOTP code or a
// recovery code for session tokens.
func (h *AuthHandler) TwoFactorLoginHandler(c *gin.Context) {
	var req struct {
		PendingToken string `json:"pending_token" binding:"required"`
		Code         string `json:"code"`
		RecoveryCode string `json:"recovery_code"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID, err := services.ValidateTwoFactorPendingToken(req.PendingToken)
	if err != nil {
		middleware.TrackAuthAttempt("failure", "2fa")
		utils.Unauthorized(c, "Invalid or expired pending token")
		return
	}

	user, err := h.usersRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	switch {
	case req.Code != "":
		if err := services.ValidateTOTPCode(req.Code, user.TwoFactorSecret); err != nil {
			middleware.TrackAuthAttempt("failure", "2fa")
			utils.Unauthorized(c, "Invalid 2FA code")
			return
		}
	case req.RecoveryCode != "":
		if !h.consumeRecoveryCode(c, user, req.RecoveryCode) {
			middleware.TrackAuthAttempt("failure", "2fa")
			utils.Unauthorized(c, "Invalid recovery code")
			return
		}
	default:
		utils.BadRequest(c, "A 2FA code or recovery code is required")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, user)
	if err != nil {
		utils.InternalError(c, "Failed to generate session tokens")
		return
	}

	middleware.TrackAuthAttempt("success", "2fa")
	utils.Success(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) consumeRecoveryCode(c *gin.Context, user *model.User, code string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, stored := range user.RecoveryCodes {
		if utils.VerifyRecoveryCode(normalized, stored) {
			if err := h.usersRepo.ConsumeRecoveryCode(c.Request.Context(), user.UserID, stored); err != nil {
				log.Printf("failed to consume recovery code: %v", err)
				return false
			}
			return true
		}
	}
	return false
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *model.User) (string, string, error) {
	accessToken, err := services.GenerateJWT(user.UserID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		return "", "", err
	}

	if err := middleware.CreateSession(c, user.UserID, h.sessionRepo); err != nil {
		log.Printf("session creation failed: %v", err)
	}

	return accessToken, refreshToken, nil
}

// RefreshTokenHandler rotates a refresh token into a fresh token pair.
func RefreshTokenHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid refresh token")
		return
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	if services.IsTokenBlacklisted(refreshToken) {
		middleware.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Token has been invalidated")
		return
	}

	userID, err := services.ValidateRefreshToken(refreshToken)
	if err != nil {
		middleware.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	newAccessToken, err := services.GenerateJWT(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate new access token")
		return
	}

	newRefreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate new refresh token")
		return
	}

	middleware.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutHandler invalidates the current token pair and ends the session.
func LogoutHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	refreshToken := c.GetHeader("Refresh-Token")
	if refreshToken == "" {
		utils.BadRequest(c, "Missing refresh token")
		return
	}

	if err := services.BlacklistTokens(accessToken, refreshToken); err != nil {
		utils.InternalError(c, "Failed to logout")
		return
	}

	if sessionID, err := c.Cookie("session_id"); err == nil && sessionID != "" {
		if err := sessionRepo.EndSession(c.Request.Context(), sessionID); err != nil {
			log.Printf("failed to end session %s: %v", sessionID, err)
		}
		if services.GlobalSessionCache != nil {
			services.GlobalSessionCache.DeleteSession(sessionID)
		}
		c.SetCookie("session_id", "", -1, "/", "", true, true)
	}

	utils.Success(c, gin.H{"message": "Successfully logged out"})
}
