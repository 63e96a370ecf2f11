package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
)

// UserRepository persists raw auth identities for the auth service.
type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewUserRepository(db *mongo.Database, logger *zap.Logger) *UserRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("users")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("failed to create indexes for users collection (may already exist)", zap.Error(err))
	}

	return &UserRepository{
		collection: collection,
		logger:     logger.Named("UserRepository"),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *auth.User) error {
	doc := &mongoAuthUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Password:   u.PasswordHash,
		IsVerified: u.Verified,
		Code:       u.Code,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if !u.CodeExpiresAt.IsZero() {
		doc.CodeExpiresAt = &u.CodeExpiresAt
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		var writeException mongo.WriteException
		if errors.As(err, &writeException) {
			for _, writeError := range writeException.WriteErrors {
				if writeError.Code == 11000 && strings.Contains(writeError.Message, "email_1") {
					r.logger.Warn("duplicate email during user creation", zap.String("email", u.Email))
					return auth.ErrDuplicateEmail
				}
			}
		}
		r.logger.Error("database error during user creation", zap.String("email", u.Email), zap.Error(err))
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	var row mongoAuthUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		r.logger.Error("database error fetching user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *UserRepository) SaveVerification(ctx context.Context, id, code string, expiresAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"verification_code":            code,
		"verification_code_expires_at": expiresAt,
		"updated_at":                   time.Now(),
	}}
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	update := bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now(),
		},
		"$unset": bson.M{
			"verification_code":            "",
			"verification_code_expires_at": "",
		},
	}
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	update := bson.M{
		"$set": bson.M{
			"password":   passwordHash,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"verification_code":            "",
			"verification_code_expires_at": "",
		},
	}
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
