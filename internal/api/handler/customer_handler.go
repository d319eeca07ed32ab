package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customer records.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Create handles POST /api/customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createCustomerRequest  true  "Customer details"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	customer, err := h.service.Create(c.Request().Context(), ports.CreateCustomerInput{
		Name:               req.Name,
		Phone:              req.Phone,
		Email:              req.Email,
		Whatsapp:           req.Whatsapp,
		RequirementType:    req.RequirementType,
		PropertyType:       req.PropertyType,
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredLocations: req.PreferredLocations,
		Furnishing:         req.Furnishing,
		Notes:              req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// List handles GET /api/customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     SessionAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  customerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customerListResponse{
		Data:       result.Customers,
		Pagination: paginate(result.Total, result.Page, result.Limit),
	})
}

// pageParams parses the shared page/limit query parameters; services clamp
// them further.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
