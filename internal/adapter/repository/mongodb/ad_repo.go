package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// AdRepository persists the ads table. Ids come from a numeric sequence so
// the collection sorts the way the original serial column did.
type AdRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	logger     *zap.Logger
}

func NewAdRepository(db *mongo.Database, logger *zap.Logger) *AdRepository {
	return &AdRepository{
		collection: db.Collection("ads"),
		counters:   db.Collection("counters"),
		logger:     logger.Named("AdRepository"),
	}
}

// nextID increments the ads sequence document and returns the new value.
func (r *AdRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "ads"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (r *AdRepository) FindAll(ctx context.Context) ([]*domain.VehicleAd, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("failed to fetch ads", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*mongoAd
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ads := make([]*domain.VehicleAd, 0, len(rows))
	for _, row := range rows {
		ads = append(ads, row.toEntity())
	}
	return ads, nil
}

func (r *AdRepository) Create(ctx context.Context, ad *domain.VehicleAd) error {
	id, err := r.nextID(ctx)
	if err != nil {
		r.logger.Error("failed to allocate ad id", zap.Error(err))
		return err
	}
	ad.ID = id
	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now

	_, err = r.collection.InsertOne(ctx, adFromEntity(ad))
	if err != nil {
		r.logger.Error("failed to insert ad", zap.Int64("ad_id", id), zap.Error(err))
	}
	return err
}

func (r *AdRepository) Update(ctx context.Context, ad *domain.VehicleAd) error {
	ad.UpdatedAt = time.Now()
	// _id is immutable and must stay out of the $set document.
	update := bson.M{"$set": bson.M{
		"title":       ad.Title,
		"price":       ad.Price,
		"year":        ad.Year,
		"mileage":     ad.Mileage,
		"location":    ad.Location,
		"image_url":   ad.PrimaryImage(),
		"image_urls":  ad.ImageURLs,
		"category":    ad.Category,
		"description": ad.Description,
		"updated_at":  ad.UpdatedAt,
	}}
	result, err := r.collection.UpdateByID(ctx, ad.ID, update)
	if err != nil {
		r.logger.Error("failed to update ad", zap.Int64("ad_id", ad.ID), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrAdNotFound
	}
	return nil
}

func (r *AdRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("failed to delete ad", zap.Int64("ad_id", id), zap.Error(err))
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrAdNotFound
	}
	return nil
}
