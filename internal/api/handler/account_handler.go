package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// AccountHandler serves the signed-in account's own profile.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Get handles GET /v1/account.
//
// @Summary      Get the current account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/account [get]
func (h *AccountHandler) Get(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Update handles PUT /v1/account.
//
// @Summary      Update the current account's profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Profile fields"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/account [put]
func (h *AccountHandler) Update(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateAccount(c.Request().Context(), accountID, domain.AccountDraft{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ChangePassword handles PUT /v1/account/password.
//
// @Summary      Change the current account's password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/account/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.accounts.ChangePassword(c.Request().Context(), accountID, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// Delete handles DELETE /v1/account. Orders placed by the account are kept.
//
// @Summary      Delete the current account
// @Tags         account
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/account [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	accountID, _, err := ctxAccount(c)
	if err != nil {
		return err
	}
	if _, err := h.accounts.DeleteAccount(c.Request().Context(), accountID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
