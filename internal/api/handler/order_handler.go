package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cakeorder/bakery-storefront/internal/api/metrics"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// OrderHandler serves checkout and the signed-in account's order history.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Checkout handles POST /v1/orders: snapshots the cart into a new UNCONFIRMED
// order and clears the cart.
//
// @Summary      Check out the current cart
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  checkoutResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}

	start := time.Now()
	order, total, err := h.orders.PlaceOrder(c.Request().Context(), accountID)
	if err != nil {
		metrics.CheckoutDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	}
	metrics.CheckoutDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	metrics.OrdersPlacedTotal.Inc()

	return c.JSON(http.StatusCreated, checkoutResponse{Order: toOrderResponse(order), Total: money(total)})
}

// List handles GET /v1/orders, oldest first, with decoded line items.
//
// @Summary      List the current account's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	orders, err := h.orders.GetOrdersForAccount(ctx, accountID)
	if err != nil {
		return err
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		detail, err := h.orders.DescribeOrder(ctx, o)
		if err != nil {
			return err
		}
		out = append(out, toOrderDetailResponse(detail))
	}
	return c.JSON(http.StatusOK, out)
}
