package model

import "time"

// MetricsQuery carries the resolved query parameters shared by every
// aggregation endpoint. Workspace scoping is assumed to be authorized
// before this layer runs.
type MetricsQuery struct {
	WorkspaceID string
	Start       string
	End         string
	Campaign    string
	Provider    string
	Sender      string
	Metric      string
}

// DailyStat is one pre-aggregated row per workspace+campaign+day,
// served from the mv_daily_stats materialized view.
type DailyStat struct {
	Day          string
	CampaignName *string
	Sends        int64
	Replies      int64
	OptOuts      int64
	Bounces      int64
	Opens        int64
	Clicks       int64
}

// Campaign returns the grouping key for the row's campaign.
func (d DailyStat) Campaign() string {
	if d.CampaignName == nil || *d.CampaignName == "" {
		return "Unknown"
	}
	return *d.CampaignName
}

// DailyCost is one pre-aggregated cost row per workspace+campaign+day,
// served from the mv_llm_cost materialized view.
type DailyCost struct {
	Day          string
	CampaignName *string
	CostUSD      float64
	TokensIn     int64
	TokensOut    int64
	Calls        int64
}

// Campaign returns the grouping key for the row's campaign.
func (d DailyCost) Campaign() string {
	if d.CampaignName == nil || *d.CampaignName == "" {
		return "Unknown"
	}
	return *d.CampaignName
}

// SummaryResponse is the dashboard KPI payload. Every numeric field
// defaults to 0 when no underlying data exists; projected_monthly_cost is
// the one nullable field (null means the range starts outside the current
// calendar month).
type SummaryResponse struct {
	Sends                int64    `json:"sends"`
	Replies              int64    `json:"replies"`
	OptOuts              int64    `json:"opt_outs"`
	Bounces              int64    `json:"bounces"`
	Opens                int64    `json:"opens"`
	Clicks               int64    `json:"clicks"`
	ReplyRatePct         float64  `json:"reply_rate_pct"`
	OptOutRatePct        float64  `json:"opt_out_rate_pct"`
	BounceRatePct        float64  `json:"bounce_rate_pct"`
	OpenRatePct          float64  `json:"open_rate_pct"`
	ClickRatePct         float64  `json:"click_rate_pct"`
	CostUSD              float64  `json:"cost_usd"`
	CostPerReply         float64  `json:"cost_per_reply"`
	CostPerSend          float64  `json:"cost_per_send"`
	ProjectedMonthlyCost *float64 `json:"projected_monthly_cost"`
	SendsChangePct       float64  `json:"sends_change_pct"`
	ReplyRateChangePP    float64  `json:"reply_rate_change_pp"`
	OptOutRateChangePP   float64  `json:"opt_out_rate_change_pp"`
	PrevSends            int64    `json:"prev_sends"`
	PrevReplyRatePct     float64  `json:"prev_reply_rate_pct"`
	StartDate            string   `json:"start_date"`
	EndDate              string   `json:"end_date"`
	Source               string   `json:"source"`
}

// TimeSeriesPoint is one dense per-day value.
type TimeSeriesPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// TimeSeriesResponse carries one point per calendar day in the inclusive
// requested range, ascending, gap-filled with zeros.
type TimeSeriesResponse struct {
	Metric    string            `json:"metric"`
	Points    []TimeSeriesPoint `json:"points"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
}

// CostTotals sums usage rows over the whole range.
type CostTotals struct {
	CostUSD   float64 `json:"cost_usd"`
	TokensIn  int64   `json:"tokens_in"`
	TokensOut int64   `json:"tokens_out"`
	Calls     int64   `json:"calls"`
}

// ProviderCost is one by_provider breakdown entry.
type ProviderCost struct {
	Provider  string  `json:"provider"`
	CostUSD   float64 `json:"cost_usd"`
	TokensIn  int64   `json:"tokens_in"`
	TokensOut int64   `json:"tokens_out"`
	Calls     int64   `json:"calls"`
}

// ModelCost is one by_model breakdown entry.
type ModelCost struct {
	Provider  string  `json:"provider"`
	Model     string  `json:"model"`
	CostUSD   float64 `json:"cost_usd"`
	TokensIn  int64   `json:"tokens_in"`
	TokensOut int64   `json:"tokens_out"`
	Calls     int64   `json:"calls"`
}

// CostBreakdownResponse is the LLM spend panel payload. by_provider and
// by_model are sorted descending by cost; by_model is capped to the top
// five entries.
type CostBreakdownResponse struct {
	Total      CostTotals        `json:"total"`
	ByProvider []ProviderCost    `json:"by_provider"`
	ByModel    []ModelCost       `json:"by_model"`
	Daily      []TimeSeriesPoint `json:"daily"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
}

// StepStat is one sequence-step breakdown entry.
type StepStat struct {
	Step       int        `json:"step"`
	Name       string     `json:"name"`
	Sends      int64      `json:"sends"`
	LastSentAt *time.Time `json:"lastSentAt,omitempty"`
}

// DailySend is one per-day send count in the step breakdown.
type DailySend struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DateRange echoes the resolved window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StepBreakdownResponse is the sequence-step panel payload. uniqueContacts
// counts distinct step-1 contacts, which is not the same as sends: a contact
// re-sent step 1 counts once here but twice in sends.
type StepBreakdownResponse struct {
	Steps          []StepStat  `json:"steps"`
	DailySends     []DailySend `json:"dailySends"`
	TotalSends     int64       `json:"totalSends"`
	UniqueContacts int64       `json:"uniqueContacts"`
	TotalLeads     int64       `json:"totalLeads"`
	DateRange      DateRange   `json:"dateRange"`
	Source         string      `json:"source"`
}

// CampaignStat is one per-campaign entry with the full derived-metric set.
type CampaignStat struct {
	Campaign      string  `json:"campaign"`
	Sends         int64   `json:"sends"`
	Replies       int64   `json:"replies"`
	OptOuts       int64   `json:"opt_outs"`
	Bounces       int64   `json:"bounces"`
	Opens         int64   `json:"opens"`
	Clicks        int64   `json:"clicks"`
	ReplyRatePct  float64 `json:"reply_rate_pct"`
	OptOutRatePct float64 `json:"opt_out_rate_pct"`
	BounceRatePct float64 `json:"bounce_rate_pct"`
	OpenRatePct   float64 `json:"open_rate_pct"`
	ClickRatePct  float64 `json:"click_rate_pct"`
	CostUSD       float64 `json:"cost_usd"`
	CostPerReply  float64 `json:"cost_per_reply"`
	CostPerSend   float64 `json:"cost_per_send"`
}

// SenderStat is one per-sender entry. Usage rows carry no sender
// attribution, so cost metrics are campaign-scoped only and omitted here.
type SenderStat struct {
	Sender        string  `json:"sender"`
	Sends         int64   `json:"sends"`
	Replies       int64   `json:"replies"`
	OptOuts       int64   `json:"opt_outs"`
	Bounces       int64   `json:"bounces"`
	Opens         int64   `json:"opens"`
	Clicks        int64   `json:"clicks"`
	ReplyRatePct  float64 `json:"reply_rate_pct"`
	OptOutRatePct float64 `json:"opt_out_rate_pct"`
	BounceRatePct float64 `json:"bounce_rate_pct"`
	OpenRatePct   float64 `json:"open_rate_pct"`
	ClickRatePct  float64 `json:"click_rate_pct"`
}
