package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// ProfileRepository persists the profiles table. Rows are created only by
// the registration trigger, never by profile edits.
type ProfileRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewProfileRepository(db *mongo.Database, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
		logger:     logger.Named("ProfileRepository"),
	}
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to fetch profiles", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*mongoProfile
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	profiles := make([]*domain.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toEntity())
	}
	return profiles, nil
}

// FindByID fetches at most one matching row. Zero rows is a distinct
// condition (the provisioning gap), reported as ErrProfileNotFound.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	opts := options.Find().SetLimit(1)
	cursor, err := r.collection.Find(ctx, bson.M{"_id": id}, opts)
	if err != nil {
		r.logger.Error("failed to fetch profile", zap.String("profile_id", id), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*mongoProfile
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return rows[0].toEntity(), nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	_, err := r.collection.InsertOne(ctx, profileFromEntity(p))
	if err != nil {
		r.logger.Error("failed to insert profile", zap.String("profile_id", p.ID), zap.Error(err))
	}
	return err
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	update := bson.M{"$set": bson.M{
		"name":      p.Name,
		"phone":     p.Phone,
		"address":   p.Address,
		"image_url": p.ImageURL,
	}}
	result, err := r.collection.UpdateByID(ctx, p.ID, update)
	if err != nil {
		r.logger.Error("failed to update profile", zap.String("profile_id", p.ID), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// UpdateFavorites replaces the whole favorites sequence, matching the
// toggle's full-replacement write semantics.
func (r *ProfileRepository) UpdateFavorites(ctx context.Context, id string, favorites []int64) error {
	if favorites == nil {
		favorites = []int64{}
	}
	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"favorites": favorites}})
	if err != nil {
		r.logger.Error("failed to update favorites", zap.String("profile_id", id), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
