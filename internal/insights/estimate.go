package insights

import (
	"context"

	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// hourTolerance widens the estimate's hour match to adjacent hours, wrapping
// at midnight so hour 0 also matches 23 and 1.
const hourTolerance = 1

// Estimate averages the user's history of similar posts: same type, same
// weekday, publish hour within the fuzzy window. With no similar posts every
// average reads "N/A" and the count is zero.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	if req.PostType == "" {
		return nil, invalidQueryf("tipo_post is required")
	}
	if !coreins.ValidISOWeekday(req.Weekday) {
		return nil, invalidQueryf("dia_semana must be between 1 and 7")
	}
	if !coreins.ValidHour(req.Hour) {
		return nil, invalidQueryf("hora must be between 0 and 23")
	}
	records, err := s.fetch(ctx, req.Username, req.PostType, nil, nil)
	if err != nil {
		return nil, err
	}

	var totals coreins.Totals
	for _, r := range records {
		hour := r.Hour()
		if hour < 0 || r.ISOWeekday() != req.Weekday {
			continue
		}
		if !coreins.HourInWindow(hour, req.Hour, hourTolerance) {
			continue
		}
		totals.Posts++
		totals.Impressions += r.Impressions
		totals.Interactions += r.TotalInteractions
		totals.EngagementSum += r.EngagementRate
	}

	if totals.Posts == 0 {
		return &EstimateResponse{
			Message: "No hay suficientes datos de publicaciones similares para estimar.",
			Estimation: Estimation{
				AvgImpresiones:    notApplicable,
				AvgInteracciones:  notApplicable,
				AvgEngagementRate: notApplicable,
			},
		}, nil
	}
	return &EstimateResponse{
		Estimation: Estimation{
			AvgImpresiones:       fixed(totals.AvgImpressions(), 0),
			AvgInteracciones:     fixed(totals.AvgInteractions(), 0),
			AvgEngagementRate:    fixed(totals.MeanEngagement(), 4),
			NumPostsConsiderados: totals.Posts,
		},
	}, nil
}
