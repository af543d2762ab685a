package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/lineitem"
	"github.com/cakeorder/bakery-storefront/internal/core/pagination"
)

// CheckoutLocker serializes checkouts per account. Acquire reports false when
// another checkout for the account holds the lock.
type CheckoutLocker interface {
	Acquire(ctx context.Context, accountID int64, ttl time.Duration) (release func(), acquired bool, err error)
}

// OrderEventPublisher hands order events to asynchronous consumers. It must
// not block the caller.
type OrderEventPublisher interface {
	Publish(event domain.OrderEvent)
}

// OrderNotifier delivers a single order event (for example as an email).
type OrderNotifier interface {
	Notify(ctx context.Context, event domain.OrderEvent) error
}

// PasswordHasher hashes and verifies passwords one-way.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// OrderDetail is an order with its line-item field decoded for display.
type OrderDetail struct {
	Order         *domain.Order
	Lines         []lineitem.DetailLine
	TotalQuantity int
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	PlaceOrder(ctx context.Context, accountID int64) (*domain.Order, decimal.Decimal, error)
	ConfirmOrder(ctx context.Context, accountID int64) (*domain.Order, error)
	UnconfirmOrder(ctx context.Context, accountID int64) (*domain.Order, error)
	ConfirmOrderByID(ctx context.Context, orderID int64) (*domain.Order, error)
	UnconfirmOrderByID(ctx context.Context, orderID int64) (*domain.Order, error)
	GetOrdersForAccount(ctx context.Context, accountID int64) ([]*domain.Order, error)
	GetOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error)
	DescribeOrder(ctx context.Context, order *domain.Order) (*OrderDetail, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
}

// AccountService enforces account invariants around persistence.
type AccountService interface {
	SignUp(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int64, draft domain.AccountDraft) (*domain.Account, error)
	ChangePassword(ctx context.Context, id int64, newPassword string) (*domain.Account, error)
	SetRole(ctx context.Context, id int64, role domain.Role) (*domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) (*domain.Account, error)
}

// AuthService authenticates accounts and issues tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}

// ItemInput carries the editable catalog fields.
type ItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Available   bool
}

// CatalogPage is one page of the catalog.
type CatalogPage struct {
	Items []*domain.Item
	Page  pagination.Page
}

// CatalogService browses and administers the catalog.
type CatalogService interface {
	ListPage(ctx context.Context, page int) (*CatalogPage, error)
	ListAll(ctx context.Context) ([]*domain.Item, error)
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	CreateItem(ctx context.Context, in ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, in ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	AddImage(ctx context.Context, itemID int64, contentType string, data []byte) (*domain.ItemImage, error)
	ListImages(ctx context.Context, itemID int64) ([]*domain.ItemImage, error)
	GetImage(ctx context.Context, id string) (*domain.ItemImage, error)
	DeleteImage(ctx context.Context, id string) error
}

// CartSummary is the header badge shown in the shop: number of lines and
// their summed extension.
type CartSummary struct {
	LineCount int
	Total     decimal.Decimal
}

// CartService manages an account's active cart.
type CartService interface {
	AddToCart(ctx context.Context, accountID, itemID int64, qty int) error
	SetQuantity(ctx context.Context, accountID, itemID int64, qty int) error
	RemoveFromCart(ctx context.Context, accountID, itemID int64) error
	ListCart(ctx context.Context, accountID int64) ([]domain.CartLine, error)
	Summary(ctx context.Context, accountID int64) (*CartSummary, error)
}
