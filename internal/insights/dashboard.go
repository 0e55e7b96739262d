package insights

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

// Dashboard assembles every dashboard section in one request. The three
// store reads run concurrently; a failed read logs and leaves its sections
// absent, so one bad query never blanks the whole dashboard.
func (s *Service) Dashboard(ctx context.Context, req DashboardRequest) (*DashboardResponse, error) {
	if req.Username == "" {
		return nil, invalidQueryf("username is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, invalidQueryf("start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, invalidQueryf("end_date precedes start_date")
	}

	var (
		filtered []*v1.PostRecord // honors the tipo_post filter
		base     []*v1.PostRecord // range only, for the per-type sections
		types    []string

		filteredErr, baseErr, typesErr error
	)

	// Section queries swallow their own errors so g.Wait() never cancels a
	// sibling. A query failure is reported per section, not per request.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		filtered, filteredErr = s.fetch(gctx, req.Username, req.PostType, &req.StartDate, &req.EndDate)
		if filteredErr != nil {
			slog.Error("Dashboard filtered query failed", "username", req.Username, "error", filteredErr)
		}
		return nil
	})
	g.Go(func() error {
		if req.PostType == "" {
			return nil // base equals filtered, skip the duplicate read
		}
		base, baseErr = s.fetch(gctx, req.Username, "", &req.StartDate, &req.EndDate)
		if baseErr != nil {
			slog.Error("Dashboard base query failed", "username", req.Username, "error", baseErr)
		}
		return nil
	})
	g.Go(func() error {
		types, typesErr = s.store.ListPostTypes(gctx, req.Username)
		if typesErr != nil {
			slog.Error("Dashboard post type listing failed", "username", req.Username, "error", typesErr)
		}
		return nil
	})
	_ = g.Wait()

	if filteredErr != nil && typesErr != nil && (req.PostType == "" || baseErr != nil) {
		// Nothing survived; surface the failure instead of an empty 200.
		return nil, filteredErr
	}

	resp := &DashboardResponse{AvailablePostTypes: types}
	if typesErr != nil {
		resp.AvailablePostTypes = []string{}
	}

	if filteredErr == nil {
		resp.Trend = buildTrend(filtered)
		resp.KeyMetrics = keyMetrics(filtered)
		resp.EngagementByWeekday = engagementByWeekday(filtered)
	}

	if req.PostType == "" {
		base, baseErr = filtered, filteredErr
	}
	if baseErr == nil {
		resp.PostTypePerformance = typePerformance(base)
		resp.PostTypeDistribution = typeDistribution(base)
		resp.AvgRetentionByType = retentionByType(base)
	}
	return resp, nil
}

func keyMetrics(records []*v1.PostRecord) *KeyMetrics {
	t := coreins.Reduce(records)
	return &KeyMetrics{
		TotalImpresiones:     t.Impressions,
		TotalInteracciones:   t.Interactions,
		AvgEngagementRatePct: fixed(t.MeanEngagement()*100, 2),
		TotalClics:           t.LinkClicks,
	}
}

func sortedTypeGroups(records []*v1.PostRecord) ([]string, map[string][]*v1.PostRecord) {
	byType := coreins.GroupBy(records, func(r *v1.PostRecord) string { return r.PostType })
	types := make([]string, 0, len(byType))
	for postType := range byType {
		types = append(types, postType)
	}
	sort.Strings(types)
	return types, byType
}

func typePerformance(records []*v1.PostRecord) []TypeValueRow {
	types, byType := sortedTypeGroups(records)
	rows := make([]TypeValueRow, 0, len(types))
	for _, postType := range types {
		t := coreins.Reduce(byType[postType])
		rows = append(rows, TypeValueRow{
			TipoPost: postType,
			Valor:    fixed(t.MeanEngagement()*100, 2),
		})
	}
	return rows
}

func typeDistribution(records []*v1.PostRecord) []TypeCountRow {
	types, byType := sortedTypeGroups(records)
	rows := make([]TypeCountRow, 0, len(types))
	for _, postType := range types {
		rows = append(rows, TypeCountRow{
			TipoPost: postType,
			Cantidad: int64(len(byType[postType])),
		})
	}
	return rows
}

// retentionByType averages retention seconds per type over the posts that
// actually carry a measurement. Types with no measured posts are omitted.
func retentionByType(records []*v1.PostRecord) []TypeValueRow {
	types, byType := sortedTypeGroups(records)
	rows := make([]TypeValueRow, 0, len(types))
	for _, postType := range types {
		var sum float64
		var n int64
		for _, r := range byType[postType] {
			if r.HasRetention() {
				sum += *r.RetentionSeconds
				n++
			}
		}
		if n == 0 {
			continue
		}
		rows = append(rows, TypeValueRow{
			TipoPost: postType,
			Valor:    fixed(sum/float64(n), 1),
		})
	}
	return rows
}

func engagementByWeekday(records []*v1.PostRecord) []WeekdayEngagementRow {
	byDay := coreins.GroupBy(records, func(r *v1.PostRecord) int { return r.ISOWeekday() })
	rows := make([]WeekdayEngagementRow, 0, 7)
	for day := 1; day <= 7; day++ {
		group, ok := byDay[day]
		if !ok {
			continue
		}
		t := coreins.Reduce(group)
		rows = append(rows, WeekdayEngagementRow{
			NumDiaSemana:  day,
			DiaSemana:     coreins.WeekdayName(day),
			EngagementPct: fixed(t.MeanEngagement()*100, 2),
		})
	}
	return rows
}

// InteractionsOverview builds the all-time daily interaction totals for one
// user, dates ascending.
func (s *Service) InteractionsOverview(ctx context.Context, username string) (*OverviewResponse, error) {
	if username == "" {
		return nil, invalidQueryf("username is required")
	}
	records, err := s.store.QueryPosts(ctx, storage.PostFilter{Username: username})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &OverviewResponse{Labels: []string{}, Data: []int64{}}, nil
	}

	byDay := coreins.GroupBy(records, func(r *v1.PostRecord) string {
		return r.PublishDate.Format("2006-01-02")
	})
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	resp := &OverviewResponse{
		Labels:  make([]string, 0, len(days)),
		Data:    make([]int64, 0, len(days)),
		HasData: true,
	}
	for _, day := range days {
		group := byDay[day]
		resp.Labels = append(resp.Labels, dateLabel(group[0].PublishDate))
		resp.Data = append(resp.Data, coreins.Reduce(group).Interactions)
	}
	resp.FirstDateDisplay = dateDisplay(byDay[days[0]][0].PublishDate)
	resp.LastDateDisplay = dateDisplay(byDay[days[len(days)-1]][0].PublishDate)
	return resp, nil
}
