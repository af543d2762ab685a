package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// Store bundles the repositories and runs multi-document transactions.
// Transactions require a replica set or sharded cluster.
type Store struct {
	client   *mongo.Client
	accounts *AccountRepository
	items    *ItemRepository
	images   *ImageRepository
	carts    *CartRepository
	orders   *OrderRepository
}

var (
	_ ports.TransactionManager = (*Store)(nil)
	_ ports.TxRepos            = (*Store)(nil)
)

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		accounts: NewAccountRepository(db),
		items:    NewItemRepository(db),
		images:   NewImageRepository(db),
		carts:    NewCartRepository(db),
		orders:   NewOrderRepository(db),
	}
}

func (s *Store) Accounts() ports.AccountRepository { return s.accounts }
func (s *Store) Items() ports.ItemRepository       { return s.items }
func (s *Store) Images() ports.ImageRepository     { return s.images }
func (s *Store) Carts() ports.CartRepository       { return s.carts }
func (s *Store) Orders() ports.OrderRepository     { return s.orders }

// WithinTx runs fn in a session transaction. The session context handed to fn
// routes every repository call through the transaction; the driver retries fn
// on transient transaction errors.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r ports.TxRepos) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}
