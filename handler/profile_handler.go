package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"notedeck/dto"
	"notedeck/repository"
	"notedeck/utils"
)

func GetProfileHandler(c *gin.Context, usersRepo *repository.UsersRepo) {
	userID := c.GetString("user_id")

	user, err := usersRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	utils.Success(c, dto.ToUserResponse(user))
}

func DeleteAccountHandler(c *gin.Context, usersRepo *repository.UsersRepo, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("user_id")

	if _, err := sessionRepo.EndAllUserSessions(c.Request.Context(), userID); err != nil {
		utils.InternalError(c, "Failed to end sessions")
		return
	}

	if err := usersRepo.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.InternalError(c, "Failed to delete account")
		return
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "Account deleted successfully"})
}
