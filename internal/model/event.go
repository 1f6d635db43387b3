package model

import (
	"time"
)

// EventType enumerates the email lifecycle events written by the workflow engine.
type EventType string

const (
	EventSent      EventType = "sent"
	EventDelivered EventType = "delivered"
	EventOpened    EventType = "opened"
	EventClicked   EventType = "clicked"
	EventReplied   EventType = "replied"
	EventBounced   EventType = "bounced"
	EventOptOut    EventType = "opt_out"
)

// ValidEventType reports whether s is a member of the closed event enum.
func ValidEventType(s string) bool {
	switch EventType(s) {
	case EventSent, EventDelivered, EventOpened, EventClicked, EventReplied, EventBounced, EventOptOut:
		return true
	default:
		return false
	}
}

// EventRequest represents an incoming event payload.
type EventRequest struct {
	IdempotencyKey string                 `json:"idempotency_key"`
	WorkspaceID    string                 `json:"workspace_id"`
	CampaignName   *string                `json:"campaign_name"`
	ContactEmail   string                 `json:"contact_email"`
	EventType      string                 `json:"event_type"`
	Step           int                    `json:"step"`
	Timestamp      int64                  `json:"timestamp"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// EmailEvent is the domain model for one outbound-email lifecycle event.
// Rows are append-only; the aggregation layer only ever reads them.
type EmailEvent struct {
	ID             int64
	IdempotencyKey string
	WorkspaceID    string
	CampaignName   *string
	ContactEmail   string
	EventType      EventType
	Step           int
	SenderEmail    string
	EventTimestamp time.Time
	Metadata       map[string]interface{}
}

// Campaign returns the grouping key for the event's campaign.
// Null or empty campaign names fold under the literal "Unknown".
func (e EmailEvent) Campaign() string {
	if e.CampaignName == nil || *e.CampaignName == "" {
		return "Unknown"
	}
	return *e.CampaignName
}

// Day returns the UTC calendar date of the event timestamp, the sole
// grouping key for time-bucketed aggregation.
func (e EmailEvent) Day() string {
	return e.EventTimestamp.UTC().Format("2006-01-02")
}

// Sender resolves the sender email for the event: the lead record's
// sender_email first, then the in-row metadata field, then "unknown".
func (e EmailEvent) Sender() string {
	if e.SenderEmail != "" {
		return e.SenderEmail
	}
	if e.Metadata != nil {
		if v, ok := e.Metadata["sender_email"].(string); ok && v != "" {
			return v
		}
	}
	return "unknown"
}
