package realtime

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"notedeck/middleware"
	"notedeck/model"
)

// SnapshotSource lists a user's notes in display order.
type SnapshotSource interface {
	ListNotes(ctx context.Context, userID string) ([]*model.Note, error)
}

type SnapshotPayload struct {
	Notes []*model.Note `json:"notes"`
}

type changeEvent struct {
	OperationType string     `bson:"operationType"`
	FullDocument  model.Note `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

// Watcher tails the notes change stream and pushes a fresh ordered snapshot
// to every connection of the affected user.
type Watcher struct {
	hub    *Hub
	source SnapshotSource
}

func NewWatcher(hub *Hub, source SnapshotSource) *Watcher {
	return &Watcher{hub: hub, source: source}
}

// Run consumes the change stream until the context is canceled. The caller
// owns reconnecting; Run returns on stream errors.
func (w *Watcher) Run(ctx context.Context, stream *mongo.ChangeStream) error {
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event changeEvent
		if err := stream.Decode(&event); err != nil {
			log.Printf("change stream decode error: %v", err)
			continue
		}

		if uid := event.FullDocument.UserID; uid != "" {
			w.PushSnapshot(ctx, uid)
			continue
		}

		// Delete events carry no document, so the owner is unknown.
		// Refresh every connected user instead.
		for _, uid := range w.hub.ConnectedUsers() {
			w.PushSnapshot(ctx, uid)
		}
	}

	return stream.Err()
}

// PushSnapshot loads the user's notes in display order and broadcasts them.
// A user with no open connections costs nothing but the check.
func (w *Watcher) PushSnapshot(ctx context.Context, userID string) {
	if w.hub.UserConnections(userID) == 0 {
		return
	}

	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	notes, err := w.source.ListNotes(loadCtx, userID)
	if err != nil {
		log.Printf("snapshot load failed for user %s: %v", userID, err)
		middleware.TrackError("realtime")
		return
	}

	msg, err := NewMessage(TypeSnapshot, &SnapshotPayload{Notes: notes})
	if err != nil {
		log.Printf("snapshot encode failed for user %s: %v", userID, err)
		return
	}

	if err := w.hub.BroadcastToUser(userID, msg, ""); err != nil {
		log.Printf("snapshot broadcast failed for user %s: %v", userID, err)
		return
	}
	middleware.RealtimeSnapshotsTotal.Inc()
}
