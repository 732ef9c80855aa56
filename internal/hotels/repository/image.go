package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/pkg/config"
	"innkeep/pkg/model"
)

const ImageCollectionName = "Images"

// ImageRepository reads image metadata. Uploads and file storage live
// outside this system; only the lookup contract is served here.
type ImageRepository interface {
	FindByOwner(ctx context.Context, owner model.ImageOwner, ownerID string) ([]*model.Image, error)
}

type mongoImageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoImageRepository(cfg *config.Config) ImageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoImageRepository{
		cfg:        cfg,
		collection: db.Collection(ImageCollectionName),
	}
}

func (r *mongoImageRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoImageRepository) FindByOwner(ctx context.Context, owner model.ImageOwner, ownerID string) ([]*model.Image, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"owner": owner, "owner_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find images: %w", err)
	}
	defer cursor.Close(ctx)

	var images []*model.Image
	if err = cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	for _, img := range images {
		img.URL = imageURL(owner, img.Filename)
	}
	return images, nil
}

// imageURL derives the public URL from the stored filename. Files
// themselves are served by an external static host under these
// prefixes.
func imageURL(owner model.ImageOwner, filename string) string {
	switch owner {
	case model.ImageOwnerHotel:
		return config.HotelImageURLPrefix + filename
	default:
		return config.RoomImageURLPrefix + filename
	}
}
