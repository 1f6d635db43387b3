package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"outreach-metrics-service/internal/aggregate"
	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/period"
)

// StepBreakdown produces the sequence-step panel: per-step send totals,
// a dense daily send series, and the distinct-contacts-reached count.
func (s *metricsService) StepBreakdown(ctx context.Context, q model.MetricsQuery) (model.StepBreakdownResponse, error) {
	w := period.Resolve(q.Start, q.End, defaultSeriesDays, s.now())

	var (
		events []model.EmailEvent
		leads  int64

		eventsErr, leadsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, eventsErr = s.repo.FetchEvents(gctx, s.eventQuery(q, w))
		return nil
	})
	g.Go(func() error {
		leads, leadsErr = s.repo.CountLeads(gctx, q.WorkspaceID, q.Campaign)
		return nil
	})
	_ = g.Wait()

	resp := model.StepBreakdownResponse{
		Steps:      []model.StepStat{},
		DailySends: []model.DailySend{},
		DateRange:  model.DateRange{Start: w.StartDate(), End: w.EndDate()},
		Source:     SourceDatabase,
	}

	if eventsErr != nil {
		s.logger.Error("steps: event fetch failed", "workspace", q.WorkspaceID, "err", eventsErr)
		resp.Source = sourceFor(eventsErr)
		resp.DailySends = dailySends(nil, w)
		return resp, nil
	}
	if leadsErr != nil {
		s.logger.Warn("steps: lead count failed, totalLeads zeroed", "workspace", q.WorkspaceID, "err", leadsErr)
		resp.Source = SourceFallback
	}

	events = aggregate.FilterDenied(events, s.excluded, q.Campaign)

	steps, uniqueContacts := aggregate.FoldSteps(events)

	numbers := make([]int, 0, len(steps))
	for n := range steps {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		st := steps[n]
		stat := model.StepStat{
			Step:  n,
			Name:  fmt.Sprintf("Step %d", n),
			Sends: st.Sends,
		}
		if !st.LastSentAt.IsZero() {
			last := st.LastSentAt
			stat.LastSentAt = &last
		}
		resp.Steps = append(resp.Steps, stat)
		resp.TotalSends += st.Sends
	}

	resp.UniqueContacts = uniqueContacts
	resp.TotalLeads = leads

	byDay := make(map[string]float64)
	for day, t := range aggregate.FoldEvents(events, aggregate.ByDay) {
		byDay[day] = float64(t.Sends)
	}
	resp.DailySends = dailySends(byDay, w)

	return resp, nil
}

func dailySends(values map[string]float64, w period.Window) []model.DailySend {
	points := aggregate.Fill(values, w)
	out := make([]model.DailySend, 0, len(points))
	for _, p := range points {
		out = append(out, model.DailySend{Date: p.Day, Count: int64(p.Value)})
	}
	return out
}

// CampaignStats produces one stat object per campaign, carrying the full
// derived-metric set, sorted by sends descending.
func (s *metricsService) CampaignStats(ctx context.Context, q model.MetricsQuery) ([]model.CampaignStat, error) {
	w := period.Resolve(q.Start, q.End, defaultSummaryDays, s.now())

	var (
		events []model.EmailEvent
		usage  []model.UsageRecord

		eventsErr, usageErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, eventsErr = s.repo.FetchEvents(gctx, s.eventQuery(q, w))
		return nil
	})
	g.Go(func() error {
		usage, usageErr = s.repo.FetchUsage(gctx, s.usageQuery(q, w))
		return nil
	})
	_ = g.Wait()

	if eventsErr != nil {
		s.logger.Error("campaigns: event fetch failed", "workspace", q.WorkspaceID, "err", eventsErr)
		return []model.CampaignStat{}, nil
	}
	if usageErr != nil {
		s.logger.Warn("campaigns: usage fetch failed, costs zeroed", "workspace", q.WorkspaceID, "err", usageErr)
		usage = nil
	}

	events = aggregate.FilterDenied(events, s.excluded, q.Campaign)
	usage = aggregate.FilterDenied(usage, s.excluded, q.Campaign)

	evBuckets := aggregate.FoldEvents(events, aggregate.ByCampaign)
	costBuckets := aggregate.FoldUsage(usage, aggregate.ByCampaign)

	names := make(map[string]struct{}, len(evBuckets))
	for name := range evBuckets {
		names[name] = struct{}{}
	}
	for name := range costBuckets {
		names[name] = struct{}{}
	}

	stats := make([]model.CampaignStat, 0, len(names))
	for name := range names {
		var ev, cost aggregate.Totals
		if b := evBuckets[name]; b != nil {
			ev = *b
		}
		if b := costBuckets[name]; b != nil {
			cost = *b
		}
		stats = append(stats, model.CampaignStat{
			Campaign:      name,
			Sends:         ev.Sends,
			Replies:       ev.Replies,
			OptOuts:       ev.OptOuts,
			Bounces:       ev.Bounces,
			Opens:         ev.Opens,
			Clicks:        ev.Clicks,
			ReplyRatePct:  aggregate.RatePct(ev.Replies, ev.Sends),
			OptOutRatePct: aggregate.RatePct(ev.OptOuts, ev.Sends),
			BounceRatePct: aggregate.RatePct(ev.Bounces, ev.Sends),
			OpenRatePct:   aggregate.RatePct(ev.Opens, ev.Sends),
			ClickRatePct:  aggregate.RatePct(ev.Clicks, ev.Sends),
			CostUSD:       aggregate.Round2(cost.CostUSD),
			CostPerReply:  aggregate.CostPerReply(cost.CostUSD, ev.Replies),
			CostPerSend:   aggregate.CostPerSend(cost.CostUSD, ev.Sends),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Sends != stats[j].Sends {
			return stats[i].Sends > stats[j].Sends
		}
		if stats[i].Replies != stats[j].Replies {
			return stats[i].Replies > stats[j].Replies
		}
		return stats[i].Campaign < stats[j].Campaign
	})

	return stats, nil
}

// SenderStats produces one stat object per resolved sender email, sorted by
// sends descending. Usage rows carry no sender attribution, so the entries
// carry rates only.
func (s *metricsService) SenderStats(ctx context.Context, q model.MetricsQuery) ([]model.SenderStat, error) {
	w := period.Resolve(q.Start, q.End, defaultSummaryDays, s.now())

	events, err := s.repo.FetchEvents(ctx, s.eventQuery(q, w))
	if err != nil {
		s.logger.Error("senders: event fetch failed", "workspace", q.WorkspaceID, "err", err)
		return []model.SenderStat{}, nil
	}

	events = aggregate.FilterDenied(events, s.excluded, q.Campaign)

	buckets := aggregate.FoldEvents(events, aggregate.BySender)
	stats := make([]model.SenderStat, 0, len(buckets))
	for sender, t := range buckets {
		stats = append(stats, model.SenderStat{
			Sender:        sender,
			Sends:         t.Sends,
			Replies:       t.Replies,
			OptOuts:       t.OptOuts,
			Bounces:       t.Bounces,
			Opens:         t.Opens,
			Clicks:        t.Clicks,
			ReplyRatePct:  aggregate.RatePct(t.Replies, t.Sends),
			OptOutRatePct: aggregate.RatePct(t.OptOuts, t.Sends),
			BounceRatePct: aggregate.RatePct(t.Bounces, t.Sends),
			OpenRatePct:   aggregate.RatePct(t.Opens, t.Sends),
			ClickRatePct:  aggregate.RatePct(t.Clicks, t.Sends),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Sends != stats[j].Sends {
			return stats[i].Sends > stats[j].Sends
		}
		if stats[i].Replies != stats[j].Replies {
			return stats[i].Replies > stats[j].Replies
		}
		return stats[i].Sender < stats[j].Sender
	})

	return stats, nil
}
