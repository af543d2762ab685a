package ports

import (
	"context"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

// AccountRepository persists accounts. Lookups return domain.ErrAccountNotFound
// (or a NotFoundError for the account resource) when nothing matches.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	// Save inserts the account when ID is zero (assigning a new ID) and
	// replaces the stored document otherwise.
	Save(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id int64) error
	EnableAccount(ctx context.Context, email string) error
}

// ItemRepository is the catalog store.
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	ListAll(ctx context.Context) ([]*domain.Item, error)
	CountAll(ctx context.Context) (int, error)
	// ListSlice returns at most count items starting at beginIndex, ordered by id.
	ListSlice(ctx context.Context, beginIndex, count int) ([]*domain.Item, error)
	Save(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
}

// ImageRepository stores item images.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.ItemImage) error
	FindByID(ctx context.Context, id string) (*domain.ItemImage, error)
	ListByItem(ctx context.Context, itemID int64) ([]*domain.ItemImage, error)
	Delete(ctx context.Context, id string) error
	DeleteByItem(ctx context.Context, itemID int64) error
}

// CartRepository stores the active cart lines of each account. Lines are
// returned with their item resolved.
type CartRepository interface {
	ListByAccount(ctx context.Context, accountID int64) ([]domain.CartLine, error)
	// AddQuantity creates the line or increases an existing one.
	AddQuantity(ctx context.Context, accountID, itemID int64, qty int) error
	SetQuantity(ctx context.Context, accountID, itemID int64, qty int) error
	Remove(ctx context.Context, accountID, itemID int64) error
	ClearAccount(ctx context.Context, accountID int64) error
	DeleteByItem(ctx context.Context, itemID int64) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Save inserts a new order and assigns its ID.
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// FindLatestByAccount returns the account's highest-id order in the given
	// state. An empty state matches any order.
	FindLatestByAccount(ctx context.Context, accountID int64, state domain.OrderState) (*domain.Order, error)
	// ListByAccount returns the account's orders sorted by ascending id.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	UpdateState(ctx context.Context, id int64, state domain.OrderState) error
}

// TxRepos exposes the repositories usable inside a transaction.
type TxRepos interface {
	Accounts() AccountRepository
	Items() ItemRepository
	Images() ImageRepository
	Carts() CartRepository
	Orders() OrderRepository
}

// TransactionManager runs fn inside one atomic persistence boundary. The
// context passed to fn carries the transaction and must be used for every
// repository call made through r.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r TxRepos) error) error
}
