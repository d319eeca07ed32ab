package domain

import (
	"errors"
	"time"
)

// RequirementType describes what a customer is looking for, or how a
// property is offered on the market.
type RequirementType string

const (
	RequirementRent  RequirementType = "rent"
	RequirementSale  RequirementType = "sale"
	RequirementLease RequirementType = "lease"
)

// Valid reports whether t is a known requirement type.
func (t RequirementType) Valid() bool {
	switch t {
	case RequirementRent, RequirementSale, RequirementLease:
		return true
	}
	return false
}

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is a lead or active buyer/tenant in the pipeline.
type Customer struct {
	ID                 string          `json:"id" bson:"_id,omitempty"`
	Name               string          `json:"name" bson:"name"`
	Phone              string          `json:"phone,omitempty" bson:"phone,omitempty"`
	Email              string          `json:"email,omitempty" bson:"email,omitempty"`
	Whatsapp           string          `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	RequirementType    RequirementType `json:"requirement_type" bson:"requirement_type"`
	PropertyType       string          `json:"property_type" bson:"property_type"`
	BudgetMin          int64           `json:"budget_min,omitempty" bson:"budget_min,omitempty"`
	BudgetMax          int64           `json:"budget_max,omitempty" bson:"budget_max,omitempty"`
	PreferredLocations []string        `json:"preferred_locations,omitempty" bson:"preferred_locations,omitempty"`
	Furnishing         string          `json:"furnishing,omitempty" bson:"furnishing,omitempty"`
	Notes              string          `json:"notes,omitempty" bson:"notes,omitempty"`
	Source             string          `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt          time.Time       `json:"created_at" bson:"created_at"`
}
