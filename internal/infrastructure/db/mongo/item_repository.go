package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

type ItemRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection(collectionItems), seq: newSequence(db)}
}

type itemDoc struct {
	ID          int64                `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	Available   bool                 `bson:"available"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func toItemDoc(it *domain.Item) (itemDoc, error) {
	price, err := toDecimal128(it.Price)
	if err != nil {
		return itemDoc{}, err
	}
	return itemDoc{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       price,
		Category:    it.Category,
		Available:   it.Available,
		CreatedAt:   it.CreatedAt.UTC(),
		UpdatedAt:   it.UpdatedAt.UTC(),
	}, nil
}

func (d itemDoc) toDomain() (*domain.Item, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", d.ID, err)
	}
	return &domain.Item{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
		Available:   d.Available,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc itemDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ItemNotFound(id)
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return doc.toDomain()
}

func (r *ItemRepository) ListAll(ctx context.Context) ([]*domain.Item, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *ItemRepository) CountAll(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return int(n), nil
}

func (r *ItemRepository) ListSlice(ctx context.Context, beginIndex, count int) ([]*domain.Item, error) {
	if count <= 0 {
		return []*domain.Item{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(beginIndex)).
		SetLimit(int64(count))
	return r.find(ctx, opts)
}

func (r *ItemRepository) find(ctx context.Context, opts *options.FindOptions) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	out := make([]*domain.Item, 0, len(docs))
	for _, d := range docs {
		it, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *ItemRepository) Save(ctx context.Context, it *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if it.ID == 0 {
		id, err := r.seq.next(ctx, collectionItems)
		if err != nil {
			return err
		}
		it.ID = id
		doc, err := toItemDoc(it)
		if err != nil {
			it.ID = 0
			return err
		}
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			it.ID = 0
			return fmt.Errorf("insert item: %w", err)
		}
		return nil
	}

	doc, err := toItemDoc(it)
	if err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": it.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ItemNotFound(it.ID)
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ItemNotFound(id)
	}
	return nil
}
