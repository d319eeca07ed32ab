package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// PropertyHandler handles HTTP requests for property listings.
type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Create handles POST /api/properties.
//
// @Summary      Create a property listing
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createPropertyRequest  true  "Listing details"
// @Success      201   {object}  domain.Property
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req createPropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	property, err := h.service.Create(c.Request().Context(), ports.CreatePropertyInput{
		Owner:           req.Owner,
		TransactionType: req.TransactionType,
		Type:            req.Type,
		Location:        req.Location,
		SizeSqft:        req.SizeSqft,
		PriceOrRent:     req.PriceOrRent,
		Furnishing:      req.Furnishing,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, property)
}

// ChangeStatus handles PATCH /api/properties/:code/status.
//
// @Summary      Change listing status
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        code  path      string               true  "Listing code (e.g. PD-7A8B9C2D)"
// @Param        body  body      changeStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Property
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/properties/{code}/status [patch]
func (h *PropertyHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	property, err := h.service.ChangeStatus(c.Request().Context(), c.Param("code"), domain.PropertyStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, property)
}

// List handles GET /api/properties.
//
// @Summary      List property listings
// @Tags         properties
// @Produce      json
// @Security     SessionAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  propertyListResponse
// @Router       /api/properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, propertyListResponse{
		Data:       result.Properties,
		Pagination: paginate(result.Total, result.Page, result.Limit),
	})
}
