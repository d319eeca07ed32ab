package domain

import (
	"errors"
	"time"
)

// DealStage represents the pipeline position of a deal.
type DealStage string

const (
	StageEnquiry     DealStage = "enquiry"
	StageSiteVisit   DealStage = "site_visit"
	StageNegotiation DealStage = "negotiation"
	StageAgreement   DealStage = "agreement"
	StageClosed      DealStage = "closed"
)

// validStageTransitions defines the pipeline: forward only, one stage at a
// time. Closed is terminal.
var validStageTransitions = map[DealStage][]DealStage{
	StageEnquiry:     {StageSiteVisit},
	StageSiteVisit:   {StageNegotiation},
	StageNegotiation: {StageAgreement},
	StageAgreement:   {StageClosed},
}

var ErrDealNotFound = errors.New("deal not found")
var ErrInvalidStageTransition = errors.New("invalid deal stage transition")

// CanAdvanceTo reports whether a deal may move from s to next.
func (s DealStage) CanAdvanceTo(next DealStage) bool {
	for _, allowed := range validStageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known pipeline stage.
func (s DealStage) Valid() bool {
	switch s {
	case StageEnquiry, StageSiteVisit, StageNegotiation, StageAgreement, StageClosed:
		return true
	}
	return false
}

// StageHistoryEntry records a single stage change on a deal.
type StageHistoryEntry struct {
	Stage     DealStage `json:"stage" bson:"stage"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Deal links a customer to a property and tracks pipeline progress.
type Deal struct {
	ID            string              `json:"id" bson:"_id,omitempty"`
	CustomerID    string              `json:"customer_id" bson:"customer_id"`
	PropertyID    string              `json:"property_id" bson:"property_id"`
	Stage         DealStage           `json:"stage" bson:"stage"`
	Value         int64               `json:"value,omitempty" bson:"value,omitempty"`
	AssignedAgent string              `json:"assigned_agent,omitempty" bson:"assigned_agent,omitempty"`
	FollowUpAt    *time.Time          `json:"follow_up_at,omitempty" bson:"follow_up_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	StageHistory  []StageHistoryEntry `json:"stage_history" bson:"stage_history"`
}
