package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"outreach-metrics-service/internal/aggregate"
	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/period"
	"outreach-metrics-service/internal/repository"
)

// by_model lists are capped so the widest dashboard panel stays readable.
const topModelEntries = 5

// TimeSeries produces one dense per-day series for the requested metric.
// Event metrics are served from mv_daily_stats when possible, falling back
// to folding raw rows; metric=cost always folds usage rows.
func (s *metricsService) TimeSeries(ctx context.Context, q model.MetricsQuery) (model.TimeSeriesResponse, error) {
	w := period.Resolve(q.Start, q.End, defaultSeriesDays, s.now())

	metric := q.Metric
	if metric == "" {
		metric = "sends"
	}

	var values map[string]float64
	if metric == "cost" {
		values = s.dailyCostValues(ctx, q, w)
	} else {
		values = s.dailyEventValues(ctx, q, w, metric)
	}

	return model.TimeSeriesResponse{
		Metric:    metric,
		Points:    aggregate.Fill(values, w),
		StartDate: w.StartDate(),
		EndDate:   w.EndDate(),
	}, nil
}

// dailyEventValues prefers the pre-aggregated view and falls back to raw
// rows when the view query fails or a sender filter is present (the view
// has no sender column). Fetch failures yield an empty map, which the gap
// filler turns into a dense zero series.
func (s *metricsService) dailyEventValues(ctx context.Context, q model.MetricsQuery, w period.Window, metric string) map[string]float64 {
	values := make(map[string]float64)

	if q.Sender == "" {
		stats, err := s.repo.FetchDailyStats(ctx, s.eventQuery(q, w))
		if err == nil {
			stats = aggregate.FilterDenied(stats, s.excluded, q.Campaign)
			for _, st := range stats {
				values[st.Day] += dailyStatValue(st, metric)
			}
			return values
		}
		if errors.Is(err, repository.ErrDataUnavailable) {
			return values
		}
		s.logger.Warn("timeseries: daily stats query failed, folding raw events", "workspace", q.WorkspaceID, "err", err)
	}

	events, err := s.repo.FetchEvents(ctx, s.eventQuery(q, w))
	if err != nil {
		s.logger.Error("timeseries: event fetch failed", "workspace", q.WorkspaceID, "err", err)
		return values
	}
	events = aggregate.FilterDenied(events, s.excluded, q.Campaign)
	for day, t := range aggregate.FoldEvents(events, aggregate.ByDay) {
		values[day] = totalsValue(*t, metric)
	}
	return values
}

func (s *metricsService) dailyCostValues(ctx context.Context, q model.MetricsQuery, w period.Window) map[string]float64 {
	values := make(map[string]float64)

	rows, err := s.repo.FetchUsage(ctx, s.usageQuery(q, w))
	if err != nil {
		s.logger.Error("timeseries: usage fetch failed", "workspace", q.WorkspaceID, "err", err)
		return values
	}
	rows = aggregate.FilterDenied(rows, s.excluded, q.Campaign)
	for day, t := range aggregate.FoldUsage(rows, aggregate.ByDay) {
		values[day] = t.CostUSD
	}
	return values
}

// CostBreakdown produces the LLM spend panel: range totals, per-provider
// and per-model breakdowns from raw usage rows, and a dense daily series
// preferring the mv_llm_cost view.
func (s *metricsService) CostBreakdown(ctx context.Context, q model.MetricsQuery) (model.CostBreakdownResponse, error) {
	w := period.Resolve(q.Start, q.End, defaultSummaryDays, s.now())

	var (
		usage []model.UsageRecord
		daily []model.DailyCost

		usageErr, dailyErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		usage, usageErr = s.repo.FetchUsage(gctx, s.usageQuery(q, w))
		return nil
	})
	g.Go(func() error {
		if q.Provider != "" {
			// the view has no provider column; the raw fold below serves
			// the daily series instead
			return nil
		}
		daily, dailyErr = s.repo.FetchDailyCost(gctx, s.usageQuery(q, w))
		return nil
	})
	_ = g.Wait()

	resp := model.CostBreakdownResponse{
		ByProvider: []model.ProviderCost{},
		ByModel:    []model.ModelCost{},
		StartDate:  w.StartDate(),
		EndDate:    w.EndDate(),
	}

	if usageErr != nil {
		s.logger.Error("costs: usage fetch failed", "workspace", q.WorkspaceID, "err", usageErr)
		resp.Daily = aggregate.Fill(nil, w)
		return resp, nil
	}

	usage = aggregate.FilterDenied(usage, s.excluded, q.Campaign)

	total := aggregate.SumUsage(usage)
	resp.Total = model.CostTotals{
		CostUSD:   aggregate.Round2(total.CostUSD),
		TokensIn:  total.TokensIn,
		TokensOut: total.TokensOut,
		Calls:     total.Calls,
	}

	resp.ByProvider = providerBreakdown(aggregate.FoldUsage(usage, aggregate.ByProvider))
	resp.ByModel = modelBreakdown(aggregate.FoldUsage(usage, aggregate.ByProviderModel))

	values := make(map[string]float64)
	if q.Provider == "" && dailyErr == nil && daily != nil {
		for _, d := range aggregate.FilterDenied(daily, s.excluded, q.Campaign) {
			values[d.Day] += d.CostUSD
		}
	} else {
		if dailyErr != nil {
			s.logger.Warn("costs: daily cost view failed, folding raw usage", "workspace", q.WorkspaceID, "err", dailyErr)
		}
		for day, t := range aggregate.FoldUsage(usage, aggregate.ByDay) {
			values[day] = t.CostUSD
		}
	}
	resp.Daily = aggregate.Fill(values, w)

	return resp, nil
}

func providerBreakdown(buckets map[string]*aggregate.Totals) []model.ProviderCost {
	out := make([]model.ProviderCost, 0, len(buckets))
	for provider, t := range buckets {
		out = append(out, model.ProviderCost{
			Provider:  provider,
			CostUSD:   aggregate.Round2(t.CostUSD),
			TokensIn:  t.TokensIn,
			TokensOut: t.TokensOut,
			Calls:     t.Calls,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CostUSD != out[j].CostUSD {
			return out[i].CostUSD > out[j].CostUSD
		}
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Provider < out[j].Provider
	})
	return out
}

func modelBreakdown(buckets map[string]*aggregate.Totals) []model.ModelCost {
	out := make([]model.ModelCost, 0, len(buckets))
	for key, t := range buckets {
		provider, name, found := strings.Cut(key, ":")
		if !found {
			name = provider
			provider = ""
		}
		out = append(out, model.ModelCost{
			Provider:  provider,
			Model:     name,
			CostUSD:   aggregate.Round2(t.CostUSD),
			TokensIn:  t.TokensIn,
			TokensOut: t.TokensOut,
			Calls:     t.Calls,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CostUSD != out[j].CostUSD {
			return out[i].CostUSD > out[j].CostUSD
		}
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Model < out[j].Model
	})
	if len(out) > topModelEntries {
		out = out[:topModelEntries]
	}
	return out
}

func dailyStatValue(d model.DailyStat, metric string) float64 {
	switch metric {
	case "sends":
		return float64(d.Sends)
	case "replies":
		return float64(d.Replies)
	case "opt_outs":
		return float64(d.OptOuts)
	case "bounces":
		return float64(d.Bounces)
	case "opens":
		return float64(d.Opens)
	case "clicks":
		return float64(d.Clicks)
	default:
		return 0
	}
}

func totalsValue(t aggregate.Totals, metric string) float64 {
	switch metric {
	case "sends":
		return float64(t.Sends)
	case "replies":
		return float64(t.Replies)
	case "opt_outs":
		return float64(t.OptOuts)
	case "bounces":
		return float64(t.Bounces)
	case "opens":
		return float64(t.Opens)
	case "clicks":
		return float64(t.Clicks)
	case "cost":
		return t.CostUSD
	default:
		return 0
	}
}
