package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/lineitem"
	"github.com/cakeorder/bakery-storefront/internal/core/pagination"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// money renders an amount with exactly two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// --- Accounts ---

// Email format is checked by the account service after the uniqueness check,
// so the DTO only requires presence.
type signupRequest struct {
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name"  validate:"required,max=64"`
	Address   string `json:"address"    validate:"max=255"`
	Phone     string `json:"phone"      validate:"required"`
	Email     string `json:"email"      validate:"required,max=254"`
	Password  string `json:"password"   validate:"required,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateAccountRequest struct {
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name"  validate:"required,max=64"`
	Address   string `json:"address"    validate:"max=255"`
	Phone     string `json:"phone"      validate:"required"`
	Email     string `json:"email"      validate:"required,max=254"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type accountResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token   string           `json:"token,omitempty"`
	Account *accountResponse `json:"account,omitempty"`
}

func toAccountResponse(a *domain.Account) *accountResponse {
	return &accountResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address:   a.Address,
		Phone:     a.Phone,
		Email:     a.Email,
		Role:      string(a.Role),
		Enabled:   a.Enabled,
		CreatedAt: a.CreatedAt,
	}
}

func toAccountResponses(accounts []*domain.Account) []*accountResponse {
	out := make([]*accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

// --- Catalog ---

type itemRequest struct {
	Name        string `json:"name"        validate:"required,max=128"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price"       validate:"required,numeric"`
	Category    string `json:"category"    validate:"max=64"`
	Available   *bool  `json:"available"`
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

type catalogPageResponse struct {
	Items      []itemResponse  `json:"items"`
	Pagination pagination.Page `json:"pagination"`
}

type imageResponse struct {
	ID          string    `json:"id"`
	ItemID      int64     `json:"item_id"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

func toItemResponse(it *domain.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       money(it.Price),
		Category:    it.Category,
		Available:   it.Available,
	}
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toImageResponse(img *domain.ItemImage) imageResponse {
	return imageResponse{
		ID:          img.ID,
		ItemID:      img.ItemID,
		ContentType: img.ContentType,
		URL:         "/v1/images/" + img.ID,
		CreatedAt:   img.CreatedAt,
	}
}

// --- Cart ---

type addToCartRequest struct {
	ItemID   int64 `json:"item_id"  validate:"required,gt=0"`
	Quantity *int  `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineResponse struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Extension string `json:"extension"`
	Available bool   `json:"available"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	LineCount int                `json:"line_count"`
	Total     string             `json:"total"`
}

type cartSummaryResponse struct {
	LineCount int    `json:"line_count"`
	Total     string `json:"total"`
}

func toCartResponse(lines []domain.CartLine) cartResponse {
	out := make([]cartLineResponse, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		ext := l.Extension()
		total = total.Add(ext)
		out = append(out, cartLineResponse{
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			UnitPrice: money(l.Item.Price),
			Quantity:  l.Quantity,
			Extension: money(ext),
			Available: l.Item.Available,
		})
	}
	return cartResponse{Lines: out, LineCount: len(out), Total: money(total)}
}

// --- Orders ---

type orderLineResponse struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Extension string `json:"extension"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	AccountID     int64               `json:"account_id"`
	State         string              `json:"state"`
	TotalPrice    string              `json:"total_price"`
	TotalQuantity int                 `json:"total_quantity,omitempty"`
	Lines         []orderLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type checkoutResponse struct {
	Order orderResponse `json:"order"`
	Total string        `json:"total"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		AccountID:  o.AccountID,
		State:      string(o.State),
		TotalPrice: money(o.TotalPrice),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toOrderDetailResponse(d *ports.OrderDetail) orderResponse {
	resp := toOrderResponse(d.Order)
	resp.TotalQuantity = d.TotalQuantity
	resp.Lines = toOrderLines(d.Lines)
	return resp
}

func toOrderLines(lines []lineitem.DetailLine) []orderLineResponse {
	out := make([]orderLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderLineResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			Extension: money(l.Extension),
		})
	}
	return out
}
