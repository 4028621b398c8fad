package services

import (
	"fmt"

	"eventease/internal/models"
)

// planLimits captures what each plan tier allows. A zero limit means
// unlimited.
type planLimits struct {
	MaxCapacity     int
	PaidTickets     bool
	MaxActiveEvents int
}

var limitsByPlan = map[models.PlanTier]planLimits{
	models.PlanFree: {MaxCapacity: 200, PaidTickets: false, MaxActiveEvents: 1},
	models.PlanPaid: {MaxCapacity: 2000, PaidTickets: true, MaxActiveEvents: 10},
	models.PlanPro:  {},
}

// PolicyDecision is the outcome of a plan capability check.
type PolicyDecision struct {
	Allowed bool
	Reason  string
}

// PlanPolicy centralizes every plan-tier quota check so the limits live in
// one place instead of being duplicated across services.
type PlanPolicy struct{}

// NewPlanPolicy creates a plan policy
func NewPlanPolicy() *PlanPolicy {
	return &PlanPolicy{}
}

// CanPublish decides whether an organizer on the given plan may publish
// the event. activeEvents counts the organizer's other currently active
// events, excluding the one being published.
func (p *PlanPolicy) CanPublish(event *models.Event, tickets []*models.TicketType, plan models.PlanTier, activeEvents int) PolicyDecision {
	limits, ok := limitsByPlan[plan]
	if !ok {
		limits = limitsByPlan[models.PlanFree]
	}

	if limits.MaxCapacity > 0 && event.Capacity > limits.MaxCapacity {
		return PolicyDecision{Reason: fmt.Sprintf("plan allows a maximum capacity of %d", limits.MaxCapacity)}
	}

	if !limits.PaidTickets {
		for _, tt := range tickets {
			if tt.Active && !tt.IsFree() {
				return PolicyDecision{Reason: "plan does not allow paid tickets"}
			}
		}
	}

	if limits.MaxActiveEvents > 0 && activeEvents >= limits.MaxActiveEvents {
		return PolicyDecision{Reason: fmt.Sprintf("plan allows at most %d active event(s)", limits.MaxActiveEvents)}
	}

	return PolicyDecision{Allowed: true}
}
