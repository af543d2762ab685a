package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/api/metrics"
	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// maxImageBytes bounds a single uploaded image.
const maxImageBytes = 5 << 20

// AdminHandler serves the /v1/admin back office. Every route sits behind
// RBAC(ADMIN).
type AdminHandler struct {
	accounts ports.AccountService
	orders   ports.OrderService
	catalog  ports.CatalogService
}

func NewAdminHandler(accounts ports.AccountService, orders ports.OrderService, catalog ports.CatalogService) *AdminHandler {
	return &AdminHandler{accounts: accounts, orders: orders, catalog: catalog}
}

// --- Accounts ---

// ListAccounts handles GET /v1/admin/accounts.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/accounts [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.accounts.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponses(accounts))
}

// GetAccount handles GET /v1/admin/accounts/:id.
//
// @Summary      Get an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/accounts/{id} [get]
func (h *AdminHandler) GetAccount(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.accounts.GetAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// SetRole handles PUT /v1/admin/accounts/:id/role.
//
// @Summary      Change an account's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Account id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/accounts/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req setRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.SetRole(c.Request().Context(), id, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount handles DELETE /v1/admin/accounts/:id.
//
// @Summary      Delete an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.accounts.DeleteAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// --- Orders ---

// AccountOrders handles GET /v1/admin/accounts/:id/orders.
//
// @Summary      List an account's orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {array}   orderResponse
// @Router       /v1/admin/accounts/{id}/orders [get]
func (h *AdminHandler) AccountOrders(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	orders, err := h.orders.GetOrdersForAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ConfirmAccountOrder handles POST /v1/admin/accounts/:id/orders/confirm and
// confirms the account's most recent unconfirmed order.
//
// @Summary      Confirm an account's latest order
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/accounts/{id}/orders/confirm [post]
func (h *AdminHandler) ConfirmAccountOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.respondFlip(c, h.orders.ConfirmOrder, id)
}

// UnconfirmAccountOrder handles POST /v1/admin/accounts/:id/orders/unconfirm.
//
// @Summary      Unconfirm an account's latest confirmed order
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/accounts/{id}/orders/unconfirm [post]
func (h *AdminHandler) UnconfirmAccountOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.respondFlip(c, h.orders.UnconfirmOrder, id)
}

// ListOrders handles GET /v1/admin/orders.
//
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Router       /v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.orders.ListAllOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GetOrder handles GET /v1/admin/orders/:id with decoded line items.
//
// @Summary      Get an order with its lines
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/admin/orders/{id} [get]
func (h *AdminHandler) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.orders.GetOrderDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderDetailResponse(detail))
}

// ConfirmOrder handles POST /v1/admin/orders/:id/confirm.
//
// @Summary      Confirm an order
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/orders/{id}/confirm [post]
func (h *AdminHandler) ConfirmOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.respondFlip(c, h.orders.ConfirmOrderByID, id)
}

// UnconfirmOrder handles POST /v1/admin/orders/:id/unconfirm.
//
// @Summary      Unconfirm an order
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/orders/{id}/unconfirm [post]
func (h *AdminHandler) UnconfirmOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.respondFlip(c, h.orders.UnconfirmOrderByID, id)
}

func (h *AdminHandler) respondFlip(c echo.Context, flip func(ctx context.Context, id int64) (*domain.Order, error), id int64) error {
	order, err := flip(c.Request().Context(), id)
	if err != nil {
		return err
	}
	metrics.OrderStateChangesTotal.WithLabelValues(string(order.State)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// --- Catalog ---

func (req itemRequest) toInput() (ports.ItemInput, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return ports.ItemInput{}, echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return ports.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		Available:   available,
	}, nil
}

// ListItems handles GET /v1/admin/items, the whole catalog unpaged.
//
// @Summary      List every catalog item
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   itemResponse
// @Router       /v1/admin/items [get]
func (h *AdminHandler) ListItems(c echo.Context) error {
	items, err := h.catalog.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponses(items))
}

// CreateItem handles POST /v1/admin/items.
//
// @Summary      Create a catalog item
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      itemRequest  true  "Item fields"
// @Success      201   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/admin/items [post]
func (h *AdminHandler) CreateItem(c echo.Context) error {
	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	item, err := h.catalog.CreateItem(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

// UpdateItem handles PUT /v1/admin/items/:id.
//
// @Summary      Update a catalog item
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Item id"
// @Param        body  body      itemRequest  true  "Item fields"
// @Success      200   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/items/{id} [put]
func (h *AdminHandler) UpdateItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	item, err := h.catalog.UpdateItem(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// DeleteItem handles DELETE /v1/admin/items/:id. The item's images and cart
// lines go with it.
//
// @Summary      Delete a catalog item
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Item id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/items/{id} [delete]
func (h *AdminHandler) DeleteItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteItem(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddImage handles POST /v1/admin/items/:id/images as a multipart upload in
// the "image" field.
//
// @Summary      Upload an item image
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Item id"
// @Param        image  formData  file  true  "Image file"
// @Success      201    {object}  imageResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/admin/items/{id}/images [post]
func (h *AdminHandler) AddImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	if fh.Size > maxImageBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
	}
	if len(data) > maxImageBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	img, err := h.catalog.AddImage(c.Request().Context(), id, contentType, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toImageResponse(img))
}

// DeleteImage handles DELETE /v1/admin/images/:id.
//
// @Summary      Delete an image
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Image id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/images/{id} [delete]
func (h *AdminHandler) DeleteImage(c echo.Context) error {
	if err := h.catalog.DeleteImage(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
