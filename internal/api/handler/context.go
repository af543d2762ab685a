package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cakeorder/bakery-storefront/internal/api/middleware"
	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

// ctxAccount extracts the caller identity injected by the Auth middleware and
// fails fast before any service call when it is missing.
func ctxAccount(c echo.Context) (int64, domain.Role, error) {
	accountID, _ := c.Get(middleware.ContextAccountID).(int64)
	role, _ := c.Get(middleware.ContextRole).(string)
	if accountID <= 0 || role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return accountID, domain.Role(role), nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bindAndValidate binds the request body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
