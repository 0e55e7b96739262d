package insights

import (
	"context"
	"time"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// topFormats is how many named post types survive before the remainder
// collapses into the "Otros" group.
const topFormats = 5

// FormatsRequest selects and ranks post types for one user.
type FormatsRequest struct {
	Username  string
	Metric    string // engagement_rate (default) or interacciones_total
	StartDate *time.Time
	EndDate   *time.Time
}

// EffectiveFormats ranks post types by the chosen metric, top five plus a
// collapsed tail. Averages are weighted over the group's raw sums, so the
// "Otros" row reflects its member posts rather than an average of averages.
func (s *Service) EffectiveFormats(ctx context.Context, req FormatsRequest) (*EffectiveFormatsResponse, error) {
	metric := req.Metric
	if metric == "" {
		metric = coreins.MetricEngagementRate
	}
	if !coreins.ValidMetric(metric) {
		return nil, invalidQueryf("unknown metric %q", metric)
	}
	records, err := s.fetchTyped(ctx, req.Username, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &EffectiveFormatsResponse{
			Message:          "No hay datos de publicaciones para generar este insight.",
			EffectiveFormats: []EffectiveFormat{},
		}, nil
	}

	byType := coreins.GroupBy(records, func(r *v1.PostRecord) string { return r.PostType })
	groups := make([]coreins.RankedGroup, 0, len(byType))
	for postType, members := range byType {
		groups = append(groups, coreins.RankedGroup{Label: postType, Totals: coreins.Reduce(members)})
	}
	coreins.SortByMetric(groups, metric)
	groups = coreins.CollapseTail(groups, topFormats)

	out := make([]EffectiveFormat, 0, len(groups))
	for _, g := range groups {
		out = append(out, EffectiveFormat{
			TipoPost:          g.Label,
			AvgEngagementRate: fixed(g.Totals.WeightedEngagement(), 4),
			AvgInteracciones:  fixed(g.Totals.AvgInteractions(), 2),
			NumPosts:          g.Totals.Posts,
		})
	}
	return &EffectiveFormatsResponse{EffectiveFormats: out}, nil
}
