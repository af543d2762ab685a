package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type stubStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*domain.Account
	items    map[int64]*domain.Item
	images   map[string]*domain.ItemImage
	carts    map[int64]map[int64]int // account -> item -> qty
	orders   map[int64]*domain.Order

	orderSaveErr error // if set, OrderRepository.Save returns this error
	clearErr     error // if set, CartRepository.ClearAccount returns this error
	txCalls      int
}

func newStubStore() *stubStore {
	return &stubStore{
		accounts: make(map[int64]*domain.Account),
		items:    make(map[int64]*domain.Item),
		images:   make(map[string]*domain.ItemImage),
		carts:    make(map[int64]map[int64]int),
		orders:   make(map[int64]*domain.Order),
	}
}

func (s *stubStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *stubStore) addItem(name, price string, available bool) *domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := &domain.Item{ID: s.id(), Name: name, Price: decimal.RequireFromString(price), Available: available}
	s.items[item.ID] = item
	clone := *item
	return &clone
}

func (s *stubStore) addOrder(accountID int64, state domain.OrderState) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := &domain.Order{ID: s.id(), AccountID: accountID, State: state, Items: "{1,1.00,1}", CreatedAt: time.Now().UTC()}
	s.orders[o.ID] = o
	clone := *o
	return &clone
}

func (s *stubStore) putCart(accountID, itemID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts[accountID] == nil {
		s.carts[accountID] = make(map[int64]int)
	}
	s.carts[accountID][itemID] = qty
}

func (s *stubStore) repos() ports.TxRepos { return stubTxRepos{s: s} }

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

type stubAccountRepo struct{ s *stubStore }

func (r stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.AccountNotFound(id)
	}
	clone := *a
	return &clone, nil
}

func (r stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubAccountRepo) Save(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == 0 {
		a.ID = r.s.id()
	}
	clone := *a
	r.s.accounts[a.ID] = &clone
	return nil
}

func (r stubAccountRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[id]; !ok {
		return domain.AccountNotFound(id)
	}
	delete(r.s.accounts, id)
	return nil
}

func (r stubAccountRepo) EnableAccount(_ context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			a.Enabled = true
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// ---------------------------------------------------------------------------
// Items and images
// ---------------------------------------------------------------------------

type stubItemRepo struct{ s *stubStore }

func (r stubItemRepo) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ItemNotFound(id)
	}
	clone := *it
	return &clone, nil
}

func (r stubItemRepo) sorted() []*domain.Item {
	out := make([]*domain.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		clone := *it
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r stubItemRepo) ListAll(_ context.Context) ([]*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(), nil
}

func (r stubItemRepo) CountAll(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.items), nil
}

func (r stubItemRepo) ListSlice(_ context.Context, begin, count int) ([]*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.sorted()
	if begin >= len(all) {
		return []*domain.Item{}, nil
	}
	return all[begin:min(begin+count, len(all))], nil
}

func (r stubItemRepo) Save(_ context.Context, it *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it.ID == 0 {
		it.ID = r.s.id()
	}
	clone := *it
	r.s.items[it.ID] = &clone
	return nil
}

func (r stubItemRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ItemNotFound(id)
	}
	delete(r.s.items, id)
	return nil
}

type stubImageRepo struct{ s *stubStore }

func (r stubImageRepo) Create(_ context.Context, img *domain.ItemImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *img
	r.s.images[img.ID] = &clone
	return nil
}

func (r stubImageRepo) FindByID(_ context.Context, id string) (*domain.ItemImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	img, ok := r.s.images[id]
	if !ok {
		return nil, domain.ImageNotFound(id)
	}
	clone := *img
	return &clone, nil
}

func (r stubImageRepo) ListByItem(_ context.Context, itemID int64) ([]*domain.ItemImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.ItemImage
	for _, img := range r.s.images {
		if img.ItemID == itemID {
			clone := *img
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r stubImageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.images[id]; !ok {
		return domain.ImageNotFound(id)
	}
	delete(r.s.images, id)
	return nil
}

func (r stubImageRepo) DeleteByItem(_ context.Context, itemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, img := range r.s.images {
		if img.ItemID == itemID {
			delete(r.s.images, id)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

type stubCartRepo struct{ s *stubStore }

func (r stubCartRepo) ListByAccount(_ context.Context, accountID int64) ([]domain.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CartLine
	for itemID, qty := range r.s.carts[accountID] {
		it, ok := r.s.items[itemID]
		if !ok {
			continue
		}
		out = append(out, domain.CartLine{AccountID: accountID, Item: *it, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.ID < out[j].Item.ID })
	return out, nil
}

func (r stubCartRepo) AddQuantity(_ context.Context, accountID, itemID int64, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.carts[accountID] == nil {
		r.s.carts[accountID] = make(map[int64]int)
	}
	r.s.carts[accountID][itemID] += qty
	return nil
}

func (r stubCartRepo) SetQuantity(_ context.Context, accountID, itemID int64, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[accountID][itemID]; !ok {
		return domain.ItemNotFound(itemID)
	}
	r.s.carts[accountID][itemID] = qty
	return nil
}

func (r stubCartRepo) Remove(_ context.Context, accountID, itemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[accountID][itemID]; !ok {
		return domain.ItemNotFound(itemID)
	}
	delete(r.s.carts[accountID], itemID)
	return nil
}

func (r stubCartRepo) ClearAccount(_ context.Context, accountID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.clearErr != nil {
		return r.s.clearErr
	}
	delete(r.s.carts, accountID)
	return nil
}

func (r stubCartRepo) DeleteByItem(_ context.Context, itemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lines := range r.s.carts {
		delete(lines, itemID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type stubOrderRepo struct{ s *stubStore }

func (r stubOrderRepo) Save(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.orderSaveErr != nil {
		return r.s.orderSaveErr
	}
	o.ID = r.s.id()
	clone := *o
	r.s.orders[o.ID] = &clone
	return nil
}

func (r stubOrderRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.OrderNotFound(id)
	}
	clone := *o
	return &clone, nil
}

func (r stubOrderRepo) FindLatestByAccount(_ context.Context, accountID int64, state domain.OrderState) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.Order
	for _, o := range r.s.orders {
		if o.AccountID != accountID || (state != "" && o.State != state) {
			continue
		}
		if latest == nil || o.ID > latest.ID {
			latest = o
		}
	}
	if latest == nil {
		return nil, domain.ErrOrderNotFound
	}
	clone := *latest
	return &clone, nil
}

// ListByAccount returns orders in map order; sorting is the service's job.
func (r stubOrderRepo) ListByAccount(_ context.Context, accountID int64) ([]*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.s.orders {
		if o.AccountID == accountID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r stubOrderRepo) FindAll(_ context.Context) ([]*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubOrderRepo) UpdateState(_ context.Context, id int64, state domain.OrderState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.OrderNotFound(id)
	}
	o.State = state
	return nil
}

// ---------------------------------------------------------------------------
// Transactions, lock, events
// ---------------------------------------------------------------------------

type stubTxRepos struct{ s *stubStore }

func (r stubTxRepos) Accounts() ports.AccountRepository { return stubAccountRepo{r.s} }
func (r stubTxRepos) Items() ports.ItemRepository       { return stubItemRepo{r.s} }
func (r stubTxRepos) Images() ports.ImageRepository     { return stubImageRepo{r.s} }
func (r stubTxRepos) Carts() ports.CartRepository       { return stubCartRepo{r.s} }
func (r stubTxRepos) Orders() ports.OrderRepository     { return stubOrderRepo{r.s} }

type stubTx struct{ s *stubStore }

func (t stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context, r ports.TxRepos) error) error {
	t.s.mu.Lock()
	t.s.txCalls++
	t.s.mu.Unlock()
	return fn(ctx, t.s.repos())
}

type stubLocker struct {
	busy     bool
	err      error
	acquired int
	released int
}

func (l *stubLocker) Acquire(_ context.Context, _ int64, _ time.Duration) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.busy {
		return nil, false, nil
	}
	l.acquired++
	return func() { l.released++ }, true, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *stubPublisher) Publish(e domain.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// plainHasher avoids bcrypt cost in tests that do not check hashing itself.
type plainHasher struct{ err error }

func (h plainHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (h plainHasher) Verify(p, hashed string) bool { return hashed == "hashed:"+p }

var errBoom = errors.New("boom")
