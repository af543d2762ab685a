package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

// ImageRepository stores image bytes inline in the image document, so a
// single image is bounded by the 16MB BSON document limit.
type ImageRepository struct {
	col *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *ImageRepository {
	return &ImageRepository{col: db.Collection(collectionImages)}
}

type imageDoc struct {
	ID          string    `bson:"_id"`
	ItemID      int64     `bson:"item_id"`
	ContentType string    `bson:"content_type"`
	Data        []byte    `bson:"data,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d imageDoc) toDomain() *domain.ItemImage {
	return &domain.ItemImage{
		ID:          d.ID,
		ItemID:      d.ItemID,
		ContentType: d.ContentType,
		Data:        d.Data,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *ImageRepository) Create(ctx context.Context, img *domain.ItemImage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, imageDoc{
		ID:          img.ID,
		ItemID:      img.ItemID,
		ContentType: img.ContentType,
		Data:        img.Data,
		CreatedAt:   img.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.ItemImage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc imageDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ImageNotFound(id)
		}
		return nil, fmt.Errorf("find image: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByItem returns image metadata only; bytes are fetched one at a time.
func (r *ImageRepository) ListByItem(ctx context.Context, itemID int64) ([]*domain.ItemImage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	var docs []imageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	out := make([]*domain.ItemImage, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ImageNotFound(id)
	}
	return nil
}

func (r *ImageRepository) DeleteByItem(ctx context.Context, itemID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"item_id": itemID}); err != nil {
		return fmt.Errorf("delete images of item %d: %w", itemID, err)
	}
	return nil
}
