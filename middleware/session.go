package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"notedeck/model"
	"notedeck/repository"
	"notedeck/services"
	"notedeck/utils"
)

func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session := lookupSession(c, sessionRepo, sessionID)
		if session == nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		// Check for inactivity timeout (48 hours)
		if time.Since(session.LastActivityAt) > 48*time.Hour {
			session.IsActive = false
			sessionRepo.UpdateSession(c.Request.Context(), session)
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(c.Request.Context(), session)
		if services.GlobalSessionCache != nil {
			services.GlobalSessionCache.SetSession(session)
		}

		c.Set("session", session)
		c.Next()
	}
}

// lookupSession consults the Redis cache before hitting Mongo.
func lookupSession(c *gin.Context, sessionRepo *repository.SessionRepo, sessionID string) *model.Session {
	if services.GlobalSessionCache != nil {
		if cached, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && cached != nil {
			return cached
		}
	}

	session, err := sessionRepo.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		return nil
	}
	return session
}

func CreateSession(c *gin.Context, userID string, sessionRepo *repository.SessionRepo) error {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	displayName := utils.GenerateSessionName(userAgent)

	inputClass := "pointer"
	if utils.IsTouchDevice(userAgent) {
		inputClass = "touch"
	}

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    displayName,
		DeviceInfo:     fmt.Sprintf("%s on %s (%s, %s)", browser, os, device, inputClass),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(c.Request.Context(), session); err != nil {
		return err
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.SetSession(session)
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(24*time.Hour.Seconds()),
		"/",
		"",
		true,
		true,
	)

	return nil
}
