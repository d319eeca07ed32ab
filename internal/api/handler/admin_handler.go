package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// accountListResponse is the admin-only account roster. Password hashes
// never serialize (json:"-" on the domain type).
type accountListResponse struct {
	Data  []domain.Account `json:"data"`
	Total int              `json:"total"`
}

// AdminHandler serves the admin-only account endpoints.
type AdminHandler struct {
	accounts ports.AccountRepository
}

func NewAdminHandler(accounts ports.AccountRepository) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// ListAccounts handles GET /api/admin/accounts.
//
// @Summary      List registered accounts
// @Tags         admin
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  accountListResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /api/admin/accounts [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountListResponse{
		Data:  accounts,
		Total: len(accounts),
	})
}
