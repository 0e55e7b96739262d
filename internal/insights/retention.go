package insights

import (
	"context"
	"sort"

	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// RetentionImpact buckets posts with a usable retention measurement and
// reports weighted averages per bucket, ordered short to long. Posts whose
// retention is absent or non-positive never enter any bucket; they are not
// zero-second posts.
func (s *Service) RetentionImpact(ctx context.Context, username string) (*RetentionImpactResponse, error) {
	records, err := s.fetch(ctx, username, "", nil, nil)
	if err != nil {
		return nil, err
	}

	byRank := make(map[int]coreins.Totals)
	labels := make(map[int]string)
	for _, r := range records {
		if !r.HasRetention() {
			continue
		}
		bucket, ok := coreins.BucketFor(s.buckets, *r.RetentionSeconds)
		if !ok {
			continue
		}
		t := byRank[bucket.Rank]
		t.Posts++
		t.Impressions += r.Impressions
		t.Interactions += r.TotalInteractions
		byRank[bucket.Rank] = t
		labels[bucket.Rank] = bucket.Label
	}
	if len(byRank) == 0 {
		return &RetentionImpactResponse{
			Message:         "No hay datos de retención para generar este insight.",
			RetentionImpact: []RetentionImpactRow{},
		}, nil
	}

	ranks := make([]int, 0, len(byRank))
	for rank := range byRank {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	rows := make([]RetentionImpactRow, 0, len(ranks))
	for _, rank := range ranks {
		t := byRank[rank]
		rows = append(rows, RetentionImpactRow{
			RangoRetencion:    labels[rank],
			AvgEngagementRate: fixed(t.WeightedEngagement(), 4),
			AvgInteracciones:  fixed(t.AvgInteractions(), 2),
			NumPosts:          t.Posts,
		})
	}
	return &RetentionImpactResponse{RetentionImpact: rows}, nil
}
