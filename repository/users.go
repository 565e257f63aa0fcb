package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"notedeck/model"
	"notedeck/utils"
)

var ErrUserNotFound = errors.New("user not found")

type UsersRepo struct {
	MongoCollection *mongo.Collection
}

func GetUsersRepo(client *mongo.Client) *UsersRepo {
	return &UsersRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("users"),
	}
}

// UpsertGoogleUser finds the user owning a Google subject, creating the
// account on first sign-in and refreshing profile fields on every login.
func (r *UsersRepo) UpsertGoogleUser(ctx context.Context, subject, email, name, picture string) (*model.User, error) {
	if subject == "" {
		return nil, errors.New("google subject is required")
	}

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"google_subject": subject}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		user = model.User{
			UserID:        utils.GenerateID(),
			GoogleSubject: subject,
			Email:         email,
			DisplayName:   name,
			PictureURL:    picture,
			CreatedAt:     time.Now(),
			LastLoginAt:   time.Now(),
		}
		if _, err := r.MongoCollection.InsertOne(ctx, &user); err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"email":         email,
			"display_name":  name,
			"picture_url":   picture,
			"last_login_at": time.Now(),
		},
	}
	if _, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": user.UserID}, update); err != nil {
		return nil, err
	}

	user.Email = email
	user.DisplayName = name
	user.PictureURL = picture
	return &user, nil
}

// GetUser retrieves a user by id
func (r *UsersRepo) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetTwoFactor stores the TOTP secret, enabled flag and hashed recovery codes.
func (r *UsersRepo) SetTwoFactor(ctx context.Context, userID string, secret string, enabled bool, recoveryCodes []string) error {
	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  secret,
			"two_factor_enabled": enabled,
			"recovery_codes":     recoveryCodes,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ConsumeRecoveryCode removes a used recovery code hash from the user.
func (r *UsersRepo) ConsumeRecoveryCode(ctx context.Context, userID string, codeHash string) error {
	update := bson.M{
		"$pull": bson.M{"recovery_codes": codeHash},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser deletes a user account
func (r *UsersRepo) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
