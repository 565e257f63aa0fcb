package model

import (
	"time"
)

// Note is the persisted note document. SortIndex is a pointer because a note
// that has never been reordered has no index at all, which the ordering engine
// treats differently from index zero.
type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"uid" json:"uid"`
	Body      string    `bson:"body" json:"body"`
	Pinned    bool      `bson:"pinned" json:"pinned"`
	SortIndex *int      `bson:"sortIndex,omitempty" json:"sort_index,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// HasSortIndex reports whether the note carries a defined sort index.
func (n *Note) HasSortIndex() bool {
	return n.SortIndex != nil
}
