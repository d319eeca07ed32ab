package handler

import (
	"time"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// --- Customers ---

type createCustomerRequest struct {
	Name               string   `json:"name"                validate:"required"`
	Phone              string   `json:"phone,omitempty"`
	Email              string   `json:"email,omitempty"     validate:"omitempty,email"`
	Whatsapp           string   `json:"whatsapp,omitempty"`
	RequirementType    string   `json:"requirement_type"    validate:"required,oneof=rent sale lease"`
	PropertyType       string   `json:"property_type"       validate:"required"`
	BudgetMin          int64    `json:"budget_min,omitempty"`
	BudgetMax          int64    `json:"budget_max,omitempty"`
	PreferredLocations []string `json:"preferred_locations,omitempty"`
	Furnishing         string   `json:"furnishing,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// --- Properties ---

type createPropertyRequest struct {
	Owner           string `json:"owner,omitempty"`
	TransactionType string `json:"transaction_type" validate:"required,oneof=rent sale lease"`
	Type            string `json:"type"             validate:"required"`
	Location        string `json:"location"         validate:"required"`
	SizeSqft        int64  `json:"size_sqft,omitempty"`
	PriceOrRent     int64  `json:"price_or_rent"    validate:"required,gt=0"`
	Furnishing      string `json:"furnishing,omitempty"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available booked closed"`
}

// --- Deals ---

type createDealRequest struct {
	CustomerID    string     `json:"customer_id"    validate:"required"`
	PropertyID    string     `json:"property_id"    validate:"required"`
	Value         int64      `json:"value,omitempty"`
	AssignedAgent string     `json:"assigned_agent,omitempty"`
	FollowUpAt    *time.Time `json:"follow_up_at,omitempty"`
}

type advanceStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=enquiry site_visit negotiation agreement closed"`
	Notes string `json:"notes,omitempty"`
}

// --- Shared list envelope ---

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func paginate(total int64, page, limit int) paginationResponse {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return paginationResponse{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

type customerListResponse struct {
	Data       []domain.Customer  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type propertyListResponse struct {
	Data       []domain.Property  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type dealListResponse struct {
	Data       []domain.Deal      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
