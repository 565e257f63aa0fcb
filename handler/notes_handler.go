package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"notedeck/dto"
	"notedeck/middleware"
	"notedeck/repository"
	"notedeck/usecase"
	"notedeck/utils"
)

func GetUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	timer := middleware.TrackDBOperation("list", "notes")
	notes, err := notesService.ListNotes(c.Request.Context(), userID)
	timer.ObserveDuration()
	if err != nil {
		middleware.TrackError("db")
		utils.InternalError(c, usecase.StoreErrorHint(err))
		return
	}

	utils.Success(c, dto.NotesListResponse{
		Notes: dto.ToNoteResponses(notes),
		Total: len(notes),
	})
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := notesService.CreateNote(c.Request.Context(), userID, req.Body)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyBody) {
			utils.BadRequest(c, err.Error())
			return
		}
		middleware.TrackError("db")
		utils.InternalError(c, usecase.StoreErrorHint(err))
		return
	}

	middleware.TrackNoteOperation("create")
	utils.Created(c, dto.ToNoteResponse(note))
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if err := notesService.UpdateNote(c.Request.Context(), noteID, userID, req.Body); err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyBody):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrNoteNotFound):
			utils.NotFound(c, "Note not found")
		default:
			middleware.TrackError("db")
			utils.InternalError(c, usecase.StoreErrorHint(err))
		}
		return
	}

	middleware.TrackNoteOperation("update")
	utils.Success(c, gin.H{"message": "Note updated successfully"})
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := notesService.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			utils.NotFound(c, "Note not found")
			return
		}
		middleware.TrackError("db")
		utils.InternalError(c, usecase.StoreErrorHint(err))
		return
	}

	middleware.TrackNoteOperation("delete")
	utils.Success(c, gin.H{"message": "Note deleted successfully"})
}

func TogglePinHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := notesService.TogglePin(c.Request.Context(), noteID, userID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			utils.NotFound(c, "Note not found")
			return
		}
		middleware.TrackError("db")
		utils.InternalError(c, usecase.StoreErrorHint(err))
		return
	}

	middleware.TrackNoteOperation("pin")
	utils.Success(c, gin.H{"message": "Note pin status toggled successfully"})
}

func ReorderNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	var req dto.ReorderNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Position == nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	timer := middleware.TrackDBOperation("reorder", "notes")
	updates, err := notesService.Reorder(c.Request.Context(), noteID, userID, *req.Position)
	timer.ObserveDuration()
	if err != nil {
		middleware.TrackError("db")
		utils.InternalError(c, usecase.StoreErrorHint(err))
		return
	}

	middleware.TrackNoteOperation("reorder")
	middleware.ReorderUpdatesPerRequest.Observe(float64(len(updates)))
	utils.Success(c, gin.H{
		"message": "Note position updated successfully",
		"updates": updates,
	})
}
