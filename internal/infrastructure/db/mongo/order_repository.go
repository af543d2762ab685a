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

type OrderRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders), seq: newSequence(db)}
}

// orderDoc keeps the encoded line-item field as-is; it is the stored contract
// shared with existing order data.
type orderDoc struct {
	ID         int64                `bson:"_id"`
	AccountID  int64                `bson:"account_id"`
	TotalPrice primitive.Decimal128 `bson:"total_price"`
	Items      string               `bson:"items"`
	State      string               `bson:"state"`
	CreatedAt  time.Time            `bson:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at"`
}

func (d orderDoc) toDomain() (*domain.Order, error) {
	total, err := fromDecimal128(d.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", d.ID, err)
	}
	return &domain.Order{
		ID:         d.ID,
		AccountID:  d.AccountID,
		TotalPrice: total,
		Items:      d.Items,
		State:      domain.OrderState(d.State),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func (r *OrderRepository) Save(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := toDecimal128(o.TotalPrice)
	if err != nil {
		return err
	}
	id, err := r.seq.next(ctx, collectionOrders)
	if err != nil {
		return err
	}

	doc := orderDoc{
		ID:         id,
		AccountID:  o.AccountID,
		TotalPrice: total,
		Items:      o.Items,
		State:      string(o.State),
		CreatedAt:  o.CreatedAt.UTC(),
		UpdatedAt:  o.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.OrderNotFound(id)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain()
}

func (r *OrderRepository) FindLatestByAccount(ctx context.Context, accountID int64, state domain.OrderState) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"account_id": accountID}
	if state != "" {
		filter["state"] = string(state)
	}

	var doc orderDoc
	err := r.col.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find latest order: %w", err)
	}
	return doc.toDomain()
}

func (r *OrderRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"account_id": accountID})
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepository) UpdateState(ctx context.Context, id int64, state domain.OrderState) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"state": string(state), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update order state: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.OrderNotFound(id)
	}
	return nil
}
