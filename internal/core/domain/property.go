package domain

import (
	"errors"
	"time"
)

// PropertyStatus represents the market state of a listing.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyBooked    PropertyStatus = "booked"
	PropertyClosed    PropertyStatus = "closed"
)

// validPropertyTransitions defines the allowed listing state changes.
// A booked listing may return to available when a deal falls through;
// closed is terminal.
var validPropertyTransitions = map[PropertyStatus][]PropertyStatus{
	PropertyAvailable: {PropertyBooked},
	PropertyBooked:    {PropertyAvailable, PropertyClosed},
}

var ErrPropertyNotFound = errors.New("property not found")
var ErrInvalidStatusChange = errors.New("invalid property status change")

// CanTransitionTo reports whether a listing may move from s to next.
func (s PropertyStatus) CanTransitionTo(next PropertyStatus) bool {
	for _, allowed := range validPropertyTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Property is a marketed listing.
type Property struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	Code            string          `json:"code" bson:"code"`
	Owner           string          `json:"owner,omitempty" bson:"owner,omitempty"`
	TransactionType RequirementType `json:"transaction_type" bson:"transaction_type"`
	Type            string          `json:"type" bson:"type"`
	Location        string          `json:"location" bson:"location"`
	SizeSqft        int64           `json:"size_sqft,omitempty" bson:"size_sqft,omitempty"`
	PriceOrRent     int64           `json:"price_or_rent" bson:"price_or_rent"`
	Furnishing      string          `json:"furnishing,omitempty" bson:"furnishing,omitempty"`
	Status          PropertyStatus  `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
}
