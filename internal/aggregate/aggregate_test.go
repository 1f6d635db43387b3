package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outreach-metrics-service/internal/model"
)

func strptr(s string) *string { return &s }

func event(campaign *string, et model.EventType, day string) model.EmailEvent {
	ts, _ := time.Parse("2006-01-02", day)
	return model.EmailEvent{CampaignName: campaign, EventType: et, EventTimestamp: ts}
}

func TestSumEvents_FoldingRules(t *testing.T) {
	events := []model.EmailEvent{
		event(nil, model.EventSent, "2025-01-01"),
		event(nil, model.EventDelivered, "2025-01-01"),
		event(nil, model.EventReplied, "2025-01-02"),
		event(nil, model.EventOptOut, "2025-01-02"),
		event(nil, model.EventBounced, "2025-01-02"),
		event(nil, model.EventOpened, "2025-01-03"),
		event(nil, model.EventClicked, "2025-01-03"),
		event(nil, model.EventType("forwarded"), "2025-01-03"), // not in the enum
	}

	got := SumEvents(events)

	// sent and delivered both land in Sends; the unrecognized type folds
	// into nothing
	require.Equal(t, Totals{Sends: 2, Replies: 1, OptOuts: 1, Bounces: 1, Opens: 1, Clicks: 1}, got)
}

func TestFoldEvents_ByCampaign(t *testing.T) {
	events := []model.EmailEvent{
		event(strptr("launch"), model.EventSent, "2025-01-01"),
		event(strptr("launch"), model.EventReplied, "2025-01-01"),
		event(nil, model.EventSent, "2025-01-01"),
		event(strptr(""), model.EventSent, "2025-01-02"),
	}

	buckets := FoldEvents(events, ByCampaign)

	require.Len(t, buckets, 2)
	require.Equal(t, int64(1), buckets["launch"].Sends)
	require.Equal(t, int64(1), buckets["launch"].Replies)
	// nil and empty campaign names share the Unknown bucket
	require.Equal(t, int64(2), buckets["Unknown"].Sends)
}

func TestFoldEvents_ByDay(t *testing.T) {
	events := []model.EmailEvent{
		event(nil, model.EventSent, "2025-01-01"),
		event(nil, model.EventSent, "2025-01-01"),
		event(nil, model.EventSent, "2025-01-03"),
	}

	buckets := FoldEvents(events, ByDay)

	require.Len(t, buckets, 2)
	require.Equal(t, int64(2), buckets["2025-01-01"].Sends)
	require.Equal(t, int64(1), buckets["2025-01-03"].Sends)
}

func TestFoldEvents_BySenderResolution(t *testing.T) {
	events := []model.EmailEvent{
		{EventType: model.EventSent, SenderEmail: "alex@acme.io"},
		{EventType: model.EventSent, Metadata: map[string]interface{}{"sender_email": "sam@acme.io"}},
		{EventType: model.EventSent},
	}

	buckets := FoldEvents(events, BySender)

	require.Equal(t, int64(1), buckets["alex@acme.io"].Sends)
	require.Equal(t, int64(1), buckets["sam@acme.io"].Sends)
	require.Equal(t, int64(1), buckets["unknown"].Sends)
}

func TestFoldUsage(t *testing.T) {
	rows := []model.UsageRecord{
		{Provider: "openai", Model: "gpt-4o", TokensIn: 100, TokensOut: 50, CostUSD: 0.10},
		{Provider: "openai", Model: "gpt-4o", TokensIn: 200, TokensOut: 80, CostUSD: 0.25},
		{Provider: "anthropic", Model: "claude-3-5-sonnet", TokensIn: 300, TokensOut: 120, CostUSD: 0.40},
	}

	byProvider := FoldUsage(rows, ByProvider)
	require.Len(t, byProvider, 2)
	require.Equal(t, int64(2), byProvider["openai"].Calls)
	require.Equal(t, int64(300), byProvider["openai"].TokensIn)
	require.InDelta(t, 0.35, byProvider["openai"].CostUSD, 1e-9)

	byModel := FoldUsage(rows, ByProviderModel)
	require.Len(t, byModel, 2)
	require.Equal(t, int64(2), byModel["openai:gpt-4o"].Calls)
	require.Equal(t, int64(1), byModel["anthropic:claude-3-5-sonnet"].Calls)
}

func TestFilterDenied(t *testing.T) {
	events := []model.EmailEvent{
		event(strptr("launch"), model.EventSent, "2025-01-01"),
		event(strptr("internal-test"), model.EventSent, "2025-01-01"),
	}
	denied := []string{"internal-test"}

	t.Run("deny-listed rows are dropped", func(t *testing.T) {
		kept := FilterDenied(events, denied, "")
		require.Len(t, kept, 1)
		require.Equal(t, "launch", kept[0].Campaign())
	})

	t.Run("explicit campaign filter takes precedence", func(t *testing.T) {
		kept := FilterDenied(events, denied, "internal-test")
		require.Len(t, kept, 2)
	})

	t.Run("empty deny-list keeps everything", func(t *testing.T) {
		kept := FilterDenied(events, nil, "")
		require.Len(t, kept, 2)
	})
}

func TestFoldSteps(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	events := []model.EmailEvent{
		{EventType: model.EventSent, Step: 1, ContactEmail: "a@x.io", EventTimestamp: day1},
		{EventType: model.EventSent, Step: 1, ContactEmail: "a@x.io", EventTimestamp: day2}, // retry
		{EventType: model.EventDelivered, Step: 1, ContactEmail: "b@x.io", EventTimestamp: day1},
		{EventType: model.EventSent, Step: 2, ContactEmail: "a@x.io", EventTimestamp: day2},
		{EventType: model.EventSent, Step: 0, ContactEmail: "c@x.io", EventTimestamp: day1}, // missing step defaults to 1
		{EventType: model.EventReplied, Step: 1, ContactEmail: "d@x.io", EventTimestamp: day2},
	}

	steps, unique := FoldSteps(events)

	require.Len(t, steps, 2)
	// the retried contact counts twice in sends but once in uniques
	require.Equal(t, int64(4), steps[1].Sends)
	require.Equal(t, int64(1), steps[2].Sends)
	require.Equal(t, int64(3), unique)
	require.Equal(t, day2, steps[1].LastSentAt)
}
