package insights

import (
	"context"
	"sort"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// Trend builds the daily performance series between the request bounds,
// dates ascending. Days without posts are absent rather than zero-filled,
// matching the chart contract.
func (s *Service) Trend(ctx context.Context, req TrendRequest) (*TrendResponse, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, invalidQueryf("start_date and end_date are required")
	}
	records, err := s.fetch(ctx, req.Username, req.PostType, &req.StartDate, &req.EndDate)
	if err != nil {
		return nil, err
	}
	return buildTrend(records), nil
}

func buildTrend(records []*v1.PostRecord) *TrendResponse {
	byDay := coreins.GroupBy(records, func(r *v1.PostRecord) string {
		return r.PublishDate.Format("2006-01-02")
	})

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	resp := &TrendResponse{
		Labels: make([]string, 0, len(days)),
		Datasets: TrendDatasets{
			Impresiones:   make([]int64, 0, len(days)),
			Interacciones: make([]int64, 0, len(days)),
			EngagementPct: make([]string, 0, len(days)),
		},
	}
	for _, day := range days {
		group := byDay[day]
		totals := coreins.Reduce(group)
		resp.Labels = append(resp.Labels, dateLabel(group[0].PublishDate))
		resp.Datasets.Impresiones = append(resp.Datasets.Impresiones, totals.Impressions)
		resp.Datasets.Interacciones = append(resp.Datasets.Interacciones, totals.Interactions)
		resp.Datasets.EngagementPct = append(resp.Datasets.EngagementPct, fixed(totals.MeanEngagement()*100, 2))
	}
	return resp
}
