package model

import "time"

// UsageRequest represents an incoming LLM usage payload.
type UsageRequest struct {
	IdempotencyKey string  `json:"idempotency_key"`
	WorkspaceID    string  `json:"workspace_id"`
	CampaignName   *string `json:"campaign_name"`
	Provider       string  `json:"provider"`
	Model          string  `json:"model"`
	TokensIn       int64   `json:"tokens_in"`
	TokensOut      int64   `json:"tokens_out"`
	CostUSD        float64 `json:"cost_usd"`
	Timestamp      int64   `json:"timestamp"`
}

// UsageRecord is the domain model for one LLM/API call. Cost is attributed
// to exactly one provider+model pair; rows are append-only.
type UsageRecord struct {
	ID             int64
	IdempotencyKey string
	WorkspaceID    string
	CampaignName   *string
	Provider       string
	Model          string
	TokensIn       int64
	TokensOut      int64
	CostUSD        float64
	CreatedAt      time.Time
}

// Campaign returns the grouping key for the record's campaign.
func (u UsageRecord) Campaign() string {
	if u.CampaignName == nil || *u.CampaignName == "" {
		return "Unknown"
	}
	return *u.CampaignName
}

// Day returns the UTC calendar date the call was made.
func (u UsageRecord) Day() string {
	return u.CreatedAt.UTC().Format("2006-01-02")
}
