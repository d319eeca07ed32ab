package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/api/metrics"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// LeadDispatcher is the interface the handler uses to enqueue leads.
type LeadDispatcher interface {
	Enqueue(lead ports.LeadInput)
	EnqueueBatch(leads []ports.LeadInput)
}

// LeadHandler handles marketing lead ingestion.
type LeadHandler struct {
	dispatcher LeadDispatcher
}

// NewLeadHandler creates a LeadHandler backed by the given dispatcher.
func NewLeadHandler(dispatcher LeadDispatcher) *LeadHandler {
	return &LeadHandler{dispatcher: dispatcher}
}

// Receive handles POST /api/leads — enqueues a single lead, returns 202.
//
// @Summary      Ingest a single lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      leadRequest  true  "Lead submission"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Receive(c echo.Context) error {
	var req leadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	in := toLeadInput(req)
	if in.ContactKey() == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "lead needs an email or phone")
	}

	h.dispatcher.Enqueue(in)
	metrics.LeadsReceivedTotal.WithLabelValues(req.Source).Inc()
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "lead accepted"})
}

// ReceiveBatch handles POST /api/leads/batch — enqueues a batch, returns 202.
//
// @Summary      Ingest a batch of leads
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      []leadRequest  true  "Array of lead submissions"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/leads/batch [post]
func (h *LeadHandler) ReceiveBatch(c echo.Context) error {
	var reqs []leadRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.LeadInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("lead[%d]: %s", i, err.Error()))
		}
		in := toLeadInput(req)
		if in.ContactKey() == "" {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("lead[%d]: needs an email or phone", i))
		}
		inputs = append(inputs, in)
	}

	h.dispatcher.EnqueueBatch(inputs)
	for _, in := range inputs {
		metrics.LeadsReceivedTotal.WithLabelValues(in.Source).Inc()
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "leads accepted",
		Count:   len(inputs),
	})
}

// toLeadInput maps the HTTP request to the service DTO.
func toLeadInput(r leadRequest) ports.LeadInput {
	return ports.LeadInput{
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		Source:          r.Source,
		RequirementType: r.RequirementType,
		PropertyType:    r.PropertyType,
		Location:        r.Location,
		Notes:           r.Notes,
	}
}
