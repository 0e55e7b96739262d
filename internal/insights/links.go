package insights

import (
	"context"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// LinkImpactStats compares posts with and without links. Both shapes are
// always present; an empty side reports zeroed averages and num_posts 0.
func (s *Service) LinkImpactStats(ctx context.Context, username string) (*LinkImpactResponse, error) {
	records, err := s.fetch(ctx, username, "", nil, nil)
	if err != nil {
		return nil, err
	}

	split := coreins.GroupBy(records, func(r *v1.PostRecord) bool { return r.HasLink })
	resp := &LinkImpactResponse{
		Impact: LinkImpact{
			ConEnlace: linkGroup(coreins.Reduce(split[true])),
			SinEnlace: linkGroup(coreins.Reduce(split[false])),
		},
	}
	if len(records) == 0 {
		resp.Message = "No hay datos de publicaciones para generar este insight."
	}
	return resp, nil
}

func linkGroup(t coreins.Totals) LinkGroupStats {
	return LinkGroupStats{
		AvgEngagementRate: fixed(t.MeanEngagement(), 4),
		AvgClicsEnlaces:   fixed(t.AvgLinkClicks(), 2),
		AvgInteracciones:  fixed(t.AvgInteractions(), 2),
		NumPosts:          t.Posts,
	}
}
