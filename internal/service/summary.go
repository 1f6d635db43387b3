package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"outreach-metrics-service/internal/aggregate"
	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/period"
)

// Summary produces the dashboard KPI block: totals and rates for the
// requested window plus a comparison against the same-length immediately
// preceding window.
func (s *metricsService) Summary(ctx context.Context, q model.MetricsQuery) (model.SummaryResponse, error) {
	w := period.Resolve(q.Start, q.End, defaultSummaryDays, s.now())
	prev := period.Previous(w)

	var (
		curEvents  []model.EmailEvent
		prevEvents []model.EmailEvent
		usage      []model.UsageRecord

		curErr, prevErr, usageErr error
	)

	// The three fetches run concurrently and are awaited jointly. Each
	// records its own error so one failure only zeroes its contribution.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		curEvents, curErr = s.repo.FetchEvents(gctx, s.eventQuery(q, w))
		return nil
	})
	g.Go(func() error {
		prevEvents, prevErr = s.repo.FetchEvents(gctx, s.eventQuery(q, prev))
		return nil
	})
	g.Go(func() error {
		usage, usageErr = s.repo.FetchUsage(gctx, s.usageQuery(q, w))
		return nil
	})
	_ = g.Wait()

	resp := model.SummaryResponse{
		StartDate:            w.StartDate(),
		EndDate:              w.EndDate(),
		Source:               SourceDatabase,
		ProjectedMonthlyCost: aggregate.MonthlyProjection(0, w.Start, s.now()),
	}

	if curErr != nil {
		s.logger.Error("summary: event fetch failed", "workspace", q.WorkspaceID, "err", curErr)
		resp.Source = sourceFor(curErr)
		return resp, nil
	}
	if prevErr != nil {
		s.logger.Warn("summary: previous-period fetch failed, comparison zeroed", "workspace", q.WorkspaceID, "err", prevErr)
		prevEvents = nil
		resp.Source = SourceFallback
	}
	if usageErr != nil {
		s.logger.Warn("summary: usage fetch failed, cost zeroed", "workspace", q.WorkspaceID, "err", usageErr)
		usage = nil
		resp.Source = SourceFallback
	}

	cur := aggregate.SumEvents(aggregate.FilterDenied(curEvents, s.excluded, q.Campaign))
	prv := aggregate.SumEvents(aggregate.FilterDenied(prevEvents, s.excluded, q.Campaign))
	cost := aggregate.SumUsage(aggregate.FilterDenied(usage, s.excluded, q.Campaign))

	prevReplyRate := aggregate.RatePct(prv.Replies, prv.Sends)
	prevOptOutRate := aggregate.RatePct(prv.OptOuts, prv.Sends)

	resp.Sends = cur.Sends
	resp.Replies = cur.Replies
	resp.OptOuts = cur.OptOuts
	resp.Bounces = cur.Bounces
	resp.Opens = cur.Opens
	resp.Clicks = cur.Clicks
	resp.ReplyRatePct = aggregate.RatePct(cur.Replies, cur.Sends)
	resp.OptOutRatePct = aggregate.RatePct(cur.OptOuts, cur.Sends)
	resp.BounceRatePct = aggregate.RatePct(cur.Bounces, cur.Sends)
	resp.OpenRatePct = aggregate.RatePct(cur.Opens, cur.Sends)
	resp.ClickRatePct = aggregate.RatePct(cur.Clicks, cur.Sends)
	resp.CostUSD = cost.CostUSD
	resp.CostPerReply = aggregate.CostPerReply(cost.CostUSD, cur.Replies)
	resp.CostPerSend = aggregate.CostPerSend(cost.CostUSD, cur.Sends)
	resp.ProjectedMonthlyCost = aggregate.MonthlyProjection(cost.CostUSD, w.Start, s.now())
	resp.SendsChangePct = aggregate.ChangePct(cur.Sends, prv.Sends)
	resp.ReplyRateChangePP = aggregate.ChangePP(resp.ReplyRatePct, prevReplyRate)
	resp.OptOutRateChangePP = aggregate.ChangePP(resp.OptOutRatePct, prevOptOutRate)
	resp.PrevSends = prv.Sends
	resp.PrevReplyRatePct = prevReplyRate

	return resp, nil
}
