package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/api/middleware"
	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newTestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, accountID int64, role domain.Role) {
	c.Set(middleware.ContextAccountID, accountID)
	c.Set(middleware.ContextRole, string(role))
}

// httpCode returns the status of an *echo.HTTPError, or 0 for any other error.
func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func mustStatus(t *testing.T, err error, want int) {
	t.Helper()
	if got := httpCode(err); got != want {
		t.Fatalf("expected HTTP %d, got err=%v", want, err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.Account, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

type stubAccountService struct {
	signUpFn         func(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error)
	updateFn         func(ctx context.Context, id int64, draft domain.AccountDraft) (*domain.Account, error)
	changePasswordFn func(ctx context.Context, id int64, pw string) (*domain.Account, error)
	setRoleFn        func(ctx context.Context, id int64, role domain.Role) (*domain.Account, error)
	getFn            func(ctx context.Context, id int64) (*domain.Account, error)
	listFn           func(ctx context.Context) ([]*domain.Account, error)
	deleteFn         func(ctx context.Context, id int64) (*domain.Account, error)
}

func (s *stubAccountService) SignUp(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
	return s.signUpFn(ctx, draft)
}
func (s *stubAccountService) UpdateAccount(ctx context.Context, id int64, draft domain.AccountDraft) (*domain.Account, error) {
	return s.updateFn(ctx, id, draft)
}
func (s *stubAccountService) ChangePassword(ctx context.Context, id int64, pw string) (*domain.Account, error) {
	return s.changePasswordFn(ctx, id, pw)
}
func (s *stubAccountService) SetRole(ctx context.Context, id int64, role domain.Role) (*domain.Account, error) {
	return s.setRoleFn(ctx, id, role)
}
func (s *stubAccountService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.getFn(ctx, id)
}
func (s *stubAccountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}
func (s *stubAccountService) DeleteAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.deleteFn(ctx, id)
}

type stubOrderService struct {
	placeFn       func(ctx context.Context, accountID int64) (*domain.Order, decimal.Decimal, error)
	confirmFn     func(ctx context.Context, accountID int64) (*domain.Order, error)
	unconfirmFn   func(ctx context.Context, accountID int64) (*domain.Order, error)
	confirmIDFn   func(ctx context.Context, orderID int64) (*domain.Order, error)
	unconfirmIDFn func(ctx context.Context, orderID int64) (*domain.Order, error)
	forAccountFn  func(ctx context.Context, accountID int64) ([]*domain.Order, error)
	detailFn      func(ctx context.Context, orderID int64) (*ports.OrderDetail, error)
	describeFn    func(ctx context.Context, order *domain.Order) (*ports.OrderDetail, error)
	listAllFn     func(ctx context.Context) ([]*domain.Order, error)
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, accountID int64) (*domain.Order, decimal.Decimal, error) {
	return s.placeFn(ctx, accountID)
}
func (s *stubOrderService) ConfirmOrder(ctx context.Context, accountID int64) (*domain.Order, error) {
	return s.confirmFn(ctx, accountID)
}
func (s *stubOrderService) UnconfirmOrder(ctx context.Context, accountID int64) (*domain.Order, error) {
	return s.unconfirmFn(ctx, accountID)
}
func (s *stubOrderService) ConfirmOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.confirmIDFn(ctx, orderID)
}
func (s *stubOrderService) UnconfirmOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.unconfirmIDFn(ctx, orderID)
}
func (s *stubOrderService) GetOrdersForAccount(ctx context.Context, accountID int64) ([]*domain.Order, error) {
	return s.forAccountFn(ctx, accountID)
}
func (s *stubOrderService) GetOrderDetail(ctx context.Context, orderID int64) (*ports.OrderDetail, error) {
	return s.detailFn(ctx, orderID)
}
func (s *stubOrderService) DescribeOrder(ctx context.Context, order *domain.Order) (*ports.OrderDetail, error) {
	return s.describeFn(ctx, order)
}
func (s *stubOrderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.listAllFn(ctx)
}

type stubCatalogService struct {
	listPageFn    func(ctx context.Context, page int) (*ports.CatalogPage, error)
	listAllFn     func(ctx context.Context) ([]*domain.Item, error)
	getFn         func(ctx context.Context, id int64) (*domain.Item, error)
	createFn      func(ctx context.Context, in ports.ItemInput) (*domain.Item, error)
	updateFn      func(ctx context.Context, id int64, in ports.ItemInput) (*domain.Item, error)
	deleteFn      func(ctx context.Context, id int64) error
	addImageFn    func(ctx context.Context, itemID int64, contentType string, data []byte) (*domain.ItemImage, error)
	listImagesFn  func(ctx context.Context, itemID int64) ([]*domain.ItemImage, error)
	getImageFn    func(ctx context.Context, id string) (*domain.ItemImage, error)
	deleteImageFn func(ctx context.Context, id string) error
}

func (s *stubCatalogService) ListPage(ctx context.Context, page int) (*ports.CatalogPage, error) {
	return s.listPageFn(ctx, page)
}
func (s *stubCatalogService) ListAll(ctx context.Context) ([]*domain.Item, error) {
	return s.listAllFn(ctx)
}
func (s *stubCatalogService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.getFn(ctx, id)
}
func (s *stubCatalogService) CreateItem(ctx context.Context, in ports.ItemInput) (*domain.Item, error) {
	return s.createFn(ctx, in)
}
func (s *stubCatalogService) UpdateItem(ctx context.Context, id int64, in ports.ItemInput) (*domain.Item, error) {
	return s.updateFn(ctx, id, in)
}
func (s *stubCatalogService) DeleteItem(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}
func (s *stubCatalogService) AddImage(ctx context.Context, itemID int64, contentType string, data []byte) (*domain.ItemImage, error) {
	return s.addImageFn(ctx, itemID, contentType, data)
}
func (s *stubCatalogService) ListImages(ctx context.Context, itemID int64) ([]*domain.ItemImage, error) {
	return s.listImagesFn(ctx, itemID)
}
func (s *stubCatalogService) GetImage(ctx context.Context, id string) (*domain.ItemImage, error) {
	return s.getImageFn(ctx, id)
}
func (s *stubCatalogService) DeleteImage(ctx context.Context, id string) error {
	return s.deleteImageFn(ctx, id)
}

type stubCartService struct {
	addFn     func(ctx context.Context, accountID, itemID int64, qty int) error
	setFn     func(ctx context.Context, accountID, itemID int64, qty int) error
	removeFn  func(ctx context.Context, accountID, itemID int64) error
	listFn    func(ctx context.Context, accountID int64) ([]domain.CartLine, error)
	summaryFn func(ctx context.Context, accountID int64) (*ports.CartSummary, error)
}

func (s *stubCartService) AddToCart(ctx context.Context, accountID, itemID int64, qty int) error {
	return s.addFn(ctx, accountID, itemID, qty)
}
func (s *stubCartService) SetQuantity(ctx context.Context, accountID, itemID int64, qty int) error {
	return s.setFn(ctx, accountID, itemID, qty)
}
func (s *stubCartService) RemoveFromCart(ctx context.Context, accountID, itemID int64) error {
	return s.removeFn(ctx, accountID, itemID)
}
func (s *stubCartService) ListCart(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	return s.listFn(ctx, accountID)
}
func (s *stubCartService) Summary(ctx context.Context, accountID int64) (*ports.CartSummary, error) {
	return s.summaryFn(ctx, accountID)
}

var (
	_ ports.AuthService    = (*stubAuthService)(nil)
	_ ports.AccountService = (*stubAccountService)(nil)
	_ ports.OrderService   = (*stubOrderService)(nil)
	_ ports.CatalogService = (*stubCatalogService)(nil)
	_ ports.CartService    = (*stubCartService)(nil)
)
