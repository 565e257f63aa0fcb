package dto

import (
	"time"

	"notedeck/model"
)

type NoteResponse struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	SortIndex *int      `json:"sort_index,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NotesListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

type CreateNoteRequest struct {
	Body string `json:"body" binding:"required,notebody"`
}

type UpdateNoteRequest struct {
	Body string `json:"body" binding:"required,notebody"`
}

type ReorderNoteRequest struct {
	Position *int `json:"position" binding:"required"`
}

// Convert a single note to NoteResponse
func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Body:      note.Body,
		Pinned:    note.Pinned,
		SortIndex: note.SortIndex,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// Convert slice of notes to slice of NoteResponse, preserving display order
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
