package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"notedeck/model"
)

var ErrNoteNotFound = errors.New("note not found")

type NotesRepo struct {
	Client          *mongo.Client
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	return &NotesRepo{
		Client:          client,
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
	}
}

// CreateNote creates a new note
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	if note.UserID == "" {
		return errors.New("user ID is required")
	}

	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	return err
}

// GetUserNotes retrieves all notes for a user. The fetch order is only a
// rough pre-sort; callers run the ordering engine for the display order.
func (r *NotesRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	var notes []*model.Note
	opts := options.Find().SetSort(bson.D{
		{Key: "pinned", Value: -1},
		{Key: "sortIndex", Value: 1},
		{Key: "updatedAt", Value: -1},
	})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"uid": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote retrieves a specific note
func (r *NotesRepo) GetNote(ctx context.Context, noteID string, userID string) (*model.Note, error) {
	var note model.Note
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"_id": noteID, "uid": userID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// UpdateBody updates a note's body and refreshes its timestamp.
func (r *NotesRepo) UpdateBody(ctx context.Context, noteID string, userID string, body string) error {
	filter := bson.M{
		"_id": noteID,
		"uid": userID,
	}

	update := bson.M{
		"$set": bson.M{
			"body":      body,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// SetPinned flips the pinned flag and assigns the note its new edge index in
// the target group, in one write.
func (r *NotesRepo) SetPinned(ctx context.Context, noteID string, userID string, pinned bool, sortIndex int) error {
	filter := bson.M{
		"_id": noteID,
		"uid": userID,
	}

	update := bson.M{
		"$set": bson.M{
			"pinned":    pinned,
			"sortIndex": sortIndex,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// DeleteNote deletes a specific note
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID string, userID string) error {
	filter := bson.M{
		"_id": noteID,
		"uid": userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// ApplyIndexUpdates writes one reorder's index renumbering as an all-or-nothing
// batch. A partial failure must never leave a mix of old and new indices, so
// the bulk write runs inside a transaction.
func (r *NotesRepo) ApplyIndexUpdates(ctx context.Context, userID string, updates map[string]int) error {
	if len(updates) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(updates))
	for noteID, index := range updates {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": noteID, "uid": userID}).
			SetUpdate(bson.M{"$set": bson.M{"sortIndex": index}}))
	}

	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.MongoCollection.BulkWrite(sc, models, options.BulkWrite().SetOrdered(true))
	})
	return err
}

// Watch opens a change stream over the notes collection. Each event carries
// the full document so the watcher can tell whose snapshot to rebuild.
func (r *NotesRepo) Watch(ctx context.Context) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return r.MongoCollection.Watch(ctx, pipeline, opts)
}

// CountUserNotes counts the number of notes for a user
func (r *NotesRepo) CountUserNotes(ctx context.Context, userID string) (int, error) {
	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"uid": userID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
