package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

// CartRepository stores one document per (account, item) line.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCart)}
}

type cartLineDoc struct {
	AccountID int64   `bson:"account_id"`
	ItemID    int64   `bson:"item_id"`
	Quantity  int     `bson:"quantity"`
	Item      itemDoc `bson:"item"`
}

func lineFilter(accountID, itemID int64) bson.M {
	return bson.M{"account_id": accountID, "item_id": itemID}
}

// ListByAccount joins each line with its item. Lines whose item no longer
// exists are dropped by the unwind stage.
func (r *CartRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"account_id": accountID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionItems,
			"localField":   "item_id",
			"foreignField": "_id",
			"as":           "item",
		}}},
		{{Key: "$unwind", Value: "$item"}},
		{{Key: "$sort", Value: bson.D{{Key: "item_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	var docs []cartLineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(docs))
	for _, d := range docs {
		item, err := d.Item.toDomain()
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.CartLine{AccountID: d.AccountID, Item: *item, Quantity: d.Quantity})
	}
	return lines, nil
}

func (r *CartRepository) AddQuantity(ctx context.Context, accountID, itemID int64, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		lineFilter(accountID, itemID),
		bson.M{"$inc": bson.M{"quantity": qty}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add cart line: %w", err)
	}
	return nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, accountID, itemID int64, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, lineFilter(accountID, itemID), bson.M{"$set": bson.M{"quantity": qty}})
	if err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ItemNotFound(itemID)
	}
	return nil
}

func (r *CartRepository) Remove(ctx context.Context, accountID, itemID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, lineFilter(accountID, itemID))
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ItemNotFound(itemID)
	}
	return nil
}

func (r *CartRepository) ClearAccount(ctx context.Context, accountID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *CartRepository) DeleteByItem(ctx context.Context, itemID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"item_id": itemID}); err != nil {
		return fmt.Errorf("delete cart lines of item %d: %w", itemID, err)
	}
	return nil
}
