// Package aggregate folds raw event and usage rows into dimension-keyed
// running totals and derives the dashboard's rate metrics from them.
// Folding is pure CPU work over already-fetched row sets: no I/O, no
// shared state, fresh output structures per call.
package aggregate

import (
	"time"

	"outreach-metrics-service/internal/model"
)

// Dimension selects the grouping key for a fold.
type Dimension string

const (
	ByDay           Dimension = "day"
	ByCampaign      Dimension = "campaign"
	ByProvider      Dimension = "provider"
	ByProviderModel Dimension = "provider_model"
	BySender        Dimension = "sender"
)

// Totals is one aggregate bucket. Counts only grow while rows fold in;
// afterwards the bucket is read-only input for rate derivation.
type Totals struct {
	Sends     int64
	Replies   int64
	OptOuts   int64
	Bounces   int64
	Opens     int64
	Clicks    int64
	TokensIn  int64
	TokensOut int64
	Calls     int64
	CostUSD   float64
}

func (t *Totals) addEvent(et model.EventType) {
	switch et {
	case model.EventSent, model.EventDelivered:
		t.Sends++
	case model.EventReplied:
		t.Replies++
	case model.EventOptOut:
		t.OptOuts++
	case model.EventBounced:
		t.Bounces++
	case model.EventOpened:
		t.Opens++
	case model.EventClicked:
		t.Clicks++
	}
	// unrecognized event types fold into nothing
}

func (t *Totals) addUsage(u model.UsageRecord) {
	t.CostUSD += u.CostUSD
	t.TokensIn += u.TokensIn
	t.TokensOut += u.TokensOut
	t.Calls++
}

func eventKey(e model.EmailEvent, dim Dimension) string {
	switch dim {
	case ByCampaign:
		return e.Campaign()
	case BySender:
		return e.Sender()
	default:
		return e.Day()
	}
}

func usageKey(u model.UsageRecord, dim Dimension) string {
	switch dim {
	case ByCampaign:
		return u.Campaign()
	case ByProvider:
		return u.Provider
	case ByProviderModel:
		return u.Provider + ":" + u.Model
	default:
		return u.Day()
	}
}

// FoldEvents groups event rows into running totals keyed by the dimension.
func FoldEvents(events []model.EmailEvent, dim Dimension) map[string]*Totals {
	buckets := make(map[string]*Totals)
	for _, e := range events {
		key := eventKey(e, dim)
		b, ok := buckets[key]
		if !ok {
			b = &Totals{}
			buckets[key] = b
		}
		b.addEvent(e.EventType)
	}
	return buckets
}

// FoldUsage groups usage rows into running totals keyed by the dimension.
// One call is one usage record, regardless of token counts.
func FoldUsage(rows []model.UsageRecord, dim Dimension) map[string]*Totals {
	buckets := make(map[string]*Totals)
	for _, u := range rows {
		key := usageKey(u, dim)
		b, ok := buckets[key]
		if !ok {
			b = &Totals{}
			buckets[key] = b
		}
		b.addUsage(u)
	}
	return buckets
}

// SumEvents folds all event rows into a single bucket.
func SumEvents(events []model.EmailEvent) Totals {
	var t Totals
	for _, e := range events {
		t.addEvent(e.EventType)
	}
	return t
}

// SumUsage folds all usage rows into a single bucket.
func SumUsage(rows []model.UsageRecord) Totals {
	var t Totals
	for _, u := range rows {
		t.addUsage(u)
	}
	return t
}

// CampaignKeyed is any row type that exposes its campaign grouping key.
type CampaignKeyed interface {
	Campaign() string
}

// FilterDenied drops rows whose campaign name is on the deny-list. It is
// the post-fetch safety net behind the query-level exclusion filters. An
// explicit campaign filter takes precedence: when the caller named a
// campaign, nothing is dropped, so a deny-listed campaign can still be
// inspected directly.
func FilterDenied[R CampaignKeyed](rows []R, denied []string, explicit string) []R {
	if explicit != "" || len(denied) == 0 {
		return rows
	}
	deny := make(map[string]struct{}, len(denied))
	for _, name := range denied {
		deny[name] = struct{}{}
	}
	kept := make([]R, 0, len(rows))
	for _, r := range rows {
		if _, drop := deny[r.Campaign()]; drop {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// StepTotals is one sequence-step bucket.
type StepTotals struct {
	Sends      int64
	LastSentAt time.Time
}

// FoldSteps groups send events by sequence step and counts distinct step-1
// contacts. A contact that received step 1 twice counts once in the unique
// total but twice in Sends.
func FoldSteps(events []model.EmailEvent) (map[int]*StepTotals, int64) {
	steps := make(map[int]*StepTotals)
	firstTouch := make(map[string]struct{})

	for _, e := range events {
		if e.EventType != model.EventSent && e.EventType != model.EventDelivered {
			continue
		}
		step := e.Step
		if step <= 0 {
			step = 1
		}
		b, ok := steps[step]
		if !ok {
			b = &StepTotals{}
			steps[step] = b
		}
		b.Sends++
		if ts := e.EventTimestamp.UTC(); ts.After(b.LastSentAt) {
			b.LastSentAt = ts
		}
		if step == 1 {
			firstTouch[e.ContactEmail] = struct{}{}
		}
	}

	return steps, int64(len(firstTouch))
}
