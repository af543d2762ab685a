package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// List handles GET /v1/cart.
//
// @Summary      Show the current cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cart [get]
func (h *CartHandler) List(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	lines, err := h.carts.ListCart(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(lines))
}

// Add handles POST /v1/cart. Quantity defaults to 1 and adds to an existing line.
//
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Item and quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	ctx := c.Request().Context()
	if err := h.carts.AddToCart(ctx, accountID, req.ItemID, qty); err != nil {
		return err
	}
	lines, err := h.carts.ListCart(ctx, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(lines))
}

// SetQuantity handles PUT /v1/cart/:item_id.
//
// @Summary      Replace a cart line's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      int                 true  "Item id"
// @Param        body     body      setQuantityRequest  true  "New quantity"
// @Success      200      {object}  cartResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/cart/{item_id} [put]
func (h *CartHandler) SetQuantity(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		return err
	}
	var req setQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.carts.SetQuantity(ctx, accountID, itemID, req.Quantity); err != nil {
		return err
	}
	lines, err := h.carts.ListCart(ctx, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(lines))
}

// Remove handles DELETE /v1/cart/:item_id.
//
// @Summary      Remove a line from the cart
// @Tags         cart
// @Security     BearerAuth
// @Param        item_id  path  int  true  "Item id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/cart/{item_id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		return err
	}
	if err := h.carts.RemoveFromCart(c.Request().Context(), accountID, itemID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/cart/summary, the line count and total shown in the
// shop header.
//
// @Summary      Cart badge
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartSummaryResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cart/summary [get]
func (h *CartHandler) Summary(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	sum, err := h.carts.Summary(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartSummaryResponse{LineCount: sum.LineCount, Total: money(sum.Total)})
}
