package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// DealHandler handles HTTP requests for deals.
type DealHandler struct {
	service ports.DealService
}

func NewDealHandler(service ports.DealService) *DealHandler {
	return &DealHandler{service: service}
}

// Create handles POST /api/deals.
//
// @Summary      Open a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createDealRequest  true  "Deal details"
// @Success      201   {object}  domain.Deal
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	deal, err := h.service.Create(c.Request().Context(), ports.CreateDealInput{
		CustomerID:    req.CustomerID,
		PropertyID:    req.PropertyID,
		Value:         req.Value,
		AssignedAgent: req.AssignedAgent,
		FollowUpAt:    req.FollowUpAt,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, deal)
}

// AdvanceStage handles PATCH /api/deals/:id/stage.
//
// @Summary      Advance a deal through the pipeline
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        id    path      string               true  "Deal ID"
// @Param        body  body      advanceStageRequest  true  "Target stage"
// @Success      200   {object}  domain.Deal
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/deals/{id}/stage [patch]
func (h *DealHandler) AdvanceStage(c echo.Context) error {
	var req advanceStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	deal, err := h.service.AdvanceStage(c.Request().Context(), c.Param("id"), domain.DealStage(req.Stage), req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deal)
}

// List handles GET /api/deals.
//
// @Summary      List deals
// @Tags         deals
// @Produce      json
// @Security     SessionAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  dealListResponse
// @Router       /api/deals [get]
func (h *DealHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dealListResponse{
		Data:       result.Deals,
		Pagination: paginate(result.Total, result.Page, result.Limit),
	})
}
