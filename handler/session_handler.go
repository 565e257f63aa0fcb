package handler

import (
	"github.com/gin-gonic/gin"

	"notedeck/middleware"
	"notedeck/repository"
	"notedeck/utils"
)

func GetActiveSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("user_id")

	sessions, err := sessionRepo.GetActiveSessions(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
	})
}

func LogoutAllSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("user_id")

	ended, err := sessionRepo.EndAllUserSessions(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to end all sessions")
		return
	}

	middleware.UpdateActiveSessions(0)
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{
		"message":        "Successfully logged out of all sessions",
		"ended_sessions": ended,
	})
}
