package handler

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"notedeck/repository"
	"notedeck/services"
	"notedeck/utils"
)

type StatsHandler struct {
	usersRepo   *repository.UsersRepo
	notesRepo   *repository.NotesRepo
	sessionRepo *repository.SessionRepo
}

func NewStatsHandler(
	usersRepo *repository.UsersRepo,
	notesRepo *repository.NotesRepo,
	sessionRepo *repository.SessionRepo,
) *StatsHandler {
	return &StatsHandler{
		usersRepo:   usersRepo,
		notesRepo:   notesRepo,
		sessionRepo: sessionRepo,
	}
}

// HealthHandler reports process and dependency health.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mongoStatus := "up"
	if err := utils.MongoClient.Ping(ctx, readpref.Primary()); err != nil {
		mongoStatus = "down"
	}

	redisStatus := "down"
	if services.GlobalSessionCache.IsConnected() {
		redisStatus = "up"
	}

	c.JSON(200, gin.H{
		"status": "ok",
		"mongo":  mongoStatus,
		"redis":  redisStatus,
		"system": gin.H{
			"cpu_percent":    utils.GetCPUUsage(),
			"memory_percent": utils.GetMemoryUsage(),
		},
	})
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	user, err := h.usersRepo.GetUser(ctx, userID)
	if err != nil {
		log.Printf("error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}

	totalNotes, err := h.notesRepo.CountUserNotes(ctx, userID)
	if err != nil {
		log.Printf("error counting notes: %v", err)
		utils.InternalError(c, "Failed to count notes")
		return
	}

	notes, err := h.notesRepo.GetUserNotes(ctx, userID)
	if err != nil {
		log.Printf("error fetching notes: %v", err)
		utils.InternalError(c, "Failed to fetch notes")
		return
	}

	pinned := 0
	for _, note := range notes {
		if note.Pinned {
			pinned++
		}
	}

	sessions, err := h.sessionRepo.GetActiveSessions(ctx, userID)
	if err != nil {
		log.Printf("error getting sessions: %v", err)
		utils.InternalError(c, "Failed to get sessions")
		return
	}

	lastActive := time.Time{}
	for _, session := range sessions {
		if session.LastActivityAt.After(lastActive) {
			lastActive = session.LastActivityAt
		}
	}

	utils.Success(c, gin.H{
		"stats": gin.H{
			"notes": gin.H{
				"total":  totalNotes,
				"pinned": pinned,
			},
			"activity": gin.H{
				"account_created": user.CreatedAt,
				"total_sessions":  len(sessions),
				"last_active":     lastActive,
			},
		},
	})
}
