package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notesCollection := db.Collection("notes")
	usersCollection := db.Collection("users")
	sessionsCollection := db.Collection("sessions")

	noteIndexes := []mongo.IndexModel{
		// Owner-scoped query with the group/index pre-sort
		{
			Keys: bson.D{
				{Key: "uid", Value: 1},
				{Key: "pinned", Value: -1},
				{Key: "sortIndex", Value: 1},
			},
			Options: options.Index().
				SetName("uid_group_order").
				SetUnique(false),
		},
		{
			Keys: bson.D{
				{Key: "uid", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
			Options: options.Index().
				SetName("uid_updated"),
		},
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "google_subject", Value: 1}},
			Options: options.Index().
				SetName("google_subject_index").
				SetUnique(true),
		},
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("session_id_index").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().
				SetName("user_active_sessions"),
		},
	}

	if _, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}
	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	if _, err := sessionsCollection.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create sessions indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
