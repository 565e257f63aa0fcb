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

var ErrSessionNotFound = errors.New("session not found")

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	return &SessionRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("sessions"),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	if session.UserID == "" {
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, session)
	return err
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	filter := bson.M{"session_id": session.SessionID}

	result, err := r.MongoCollection.ReplaceOne(ctx, filter, session)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetActiveSessions retrieves all active sessions for a user
func (r *SessionRepo) GetActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	var sessions []*model.Session
	opts := options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx,
		bson.M{"user_id": userID, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// EndSession marks a session inactive
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	update := bson.M{
		"$set": bson.M{
			"is_active":        false,
			"last_activity_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"session_id": sessionID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// EndAllUserSessions marks every active session for the user inactive
func (r *SessionRepo) EndAllUserSessions(ctx context.Context, userID string) (int, error) {
	update := bson.M{
		"$set": bson.M{
			"is_active":        false,
			"last_activity_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_active": true}, update)
	if err != nil {
		return 0, err
	}
	return int(result.ModifiedCount), nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	count, err := r.MongoCollection.CountDocuments(ctx,
		bson.M{"user_id": userID, "is_active": true})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
