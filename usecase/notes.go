package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"notedeck/model"
	"notedeck/order"
	"notedeck/repository"
	"notedeck/utils"
)

const maxNoteBodyLength = 50000
const maxNotesPerUser = 500

var ErrEmptyBody = errors.New("note body cannot be empty")

// NotesStore is the persistence surface the service needs. The Mongo
// repository implements it; tests use an in-memory store.
type NotesStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error)
	GetNote(ctx context.Context, noteID string, userID string) (*model.Note, error)
	UpdateBody(ctx context.Context, noteID string, userID string, body string) error
	SetPinned(ctx context.Context, noteID string, userID string, pinned bool, sortIndex int) error
	DeleteNote(ctx context.Context, noteID string, userID string) error
	ApplyIndexUpdates(ctx context.Context, userID string, updates map[string]int) error
	CountUserNotes(ctx context.Context, userID string) (int, error)
}

type NotesService struct {
	NotesRepo NotesStore
}

// NormalizeBody normalizes a note body: line endings become \n, trailing
// whitespace is stripped per line, and outer whitespace is trimmed.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (svc *NotesService) validateBody(body string) (string, error) {
	normalized := NormalizeBody(body)
	if normalized == "" {
		return "", ErrEmptyBody
	}
	if len(normalized) > maxNoteBodyLength {
		return "", errors.New("note body exceeds maximum length")
	}
	return normalized, nil
}

// ListNotes returns the user's notes in display order.
func (svc *NotesService) ListNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	notes, err := svc.NotesRepo.GetUserNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return order.Order(notes), nil
}

// CreateNote normalizes and persists a new unpinned note appended to the
// bottom of the unpinned group.
func (svc *NotesService) CreateNote(ctx context.Context, userID string, body string) (*model.Note, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	normalized, err := svc.validateBody(body)
	if err != nil {
		return nil, err
	}

	count, err := svc.NotesRepo.CountUserNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxNotesPerUser {
		return nil, errors.New("user has reached maximum note limit")
	}

	notes, err := svc.NotesRepo.GetUserNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	index := order.NextIndexAfter(notes, false)

	note := &model.Note{
		ID:        utils.GenerateID(),
		UserID:    userID,
		Body:      normalized,
		Pinned:    false,
		SortIndex: &index,
	}

	if err := svc.NotesRepo.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote replaces a note's body. A body that normalizes to empty is
// rejected before any write so the caller can restore the draft.
func (svc *NotesService) UpdateNote(ctx context.Context, noteID string, userID string, body string) error {
	normalized, err := svc.validateBody(body)
	if err != nil {
		return err
	}

	// Verify note ownership first
	if _, err := svc.NotesRepo.GetNote(ctx, noteID, userID); err != nil {
		return err
	}

	return svc.NotesRepo.UpdateBody(ctx, noteID, userID, normalized)
}

// DeleteNote removes a note. Deletion is confirmed on the client; the server
// only checks ownership.
func (svc *NotesService) DeleteNote(ctx context.Context, noteID string, userID string) error {
	if _, err := svc.NotesRepo.GetNote(ctx, noteID, userID); err != nil {
		return err
	}
	return svc.NotesRepo.DeleteNote(ctx, noteID, userID)
}

// TogglePin flips the pinned flag. A cross-group move always lands at a group
// edge: pinning goes above the pinned group's minimum index, unpinning below
// the unpinned group's maximum.
func (svc *NotesService) TogglePin(ctx context.Context, noteID string, userID string) error {
	note, err := svc.NotesRepo.GetNote(ctx, noteID, userID)
	if err != nil {
		return err
	}

	notes, err := svc.NotesRepo.GetUserNotes(ctx, userID)
	if err != nil {
		return err
	}

	var index int
	if note.Pinned {
		index = order.NextIndexAfter(notes, false)
	} else {
		index = order.TopIndexBefore(notes, true)
	}

	return svc.NotesRepo.SetPinned(ctx, noteID, userID, !note.Pinned, index)
}

// Reorder moves a note to an insertion position within its own group and
// persists the minimal index renumbering as one atomic batch. A note deleted
// or re-grouped by another writer since the gesture started resolves to a
// no-op.
func (svc *NotesService) Reorder(ctx context.Context, noteID string, userID string, position int) (map[string]int, error) {
	note, err := svc.NotesRepo.GetNote(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, nil
		}
		return nil, err
	}

	notes, err := svc.NotesRepo.GetUserNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	group := order.Group(order.Order(notes), note.Pinned)
	updates := order.ReorderWithinGroup(group, noteID, position)
	if len(updates) == 0 {
		return updates, nil
	}

	if err := svc.NotesRepo.ApplyIndexUpdates(ctx, userID, updates); err != nil {
		return nil, err
	}
	return updates, nil
}
