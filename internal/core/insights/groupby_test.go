package insights

import (
	"testing"

	"github.com/stretchr/testify/require"
	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

func post(postType string, impressions, likes, comments, shares int64) *v1.PostRecord {
	interactions := likes + comments + shares
	rate := 0.0
	if impressions > 0 {
		rate = float64(interactions) / float64(impressions)
	}
	return &v1.PostRecord{
		PostType:          postType,
		Impressions:       impressions,
		Likes:             likes,
		Comments:          comments,
		Shares:            shares,
		TotalInteractions: interactions,
		EngagementRate:    rate,
	}
}

func TestGroupBy(t *testing.T) {
	records := []*v1.PostRecord{
		post("Instagram", 100, 5, 3, 2),
		post("Reel", 200, 10, 0, 0),
		post("Instagram", 50, 1, 1, 0),
	}

	groups := GroupBy(records, func(p *v1.PostRecord) string { return p.PostType })
	require.Len(t, groups, 2)
	require.Len(t, groups["Instagram"], 2)
	require.Len(t, groups["Reel"], 1)
}

func TestReduce_WeightedAveraging(t *testing.T) {
	// Weighted rate = sum(interactions)/sum(impressions), not a mean of
	// per-post rates: the low-impression post must not dominate.
	records := []*v1.PostRecord{
		post("Instagram", 1000, 10, 0, 0), // rate 0.01
		post("Instagram", 10, 5, 0, 0),    // rate 0.50
	}

	totals := Reduce(records)
	require.Equal(t, int64(2), totals.Posts)
	require.Equal(t, int64(1010), totals.Impressions)
	require.Equal(t, int64(15), totals.Interactions)
	require.InDelta(t, 15.0/1010.0, totals.WeightedEngagement(), 1e-12)

	// Property: avgEngagementRate * sum(impressions) ≈ sum(interactions).
	require.InDelta(t,
		float64(totals.Interactions),
		totals.WeightedEngagement()*float64(totals.Impressions),
		1e-9,
	)
}

func TestTotals_ZeroDivisionSafety(t *testing.T) {
	totals := Reduce([]*v1.PostRecord{post("Instagram", 0, 0, 0, 0)})

	require.Equal(t, 0.0, totals.WeightedEngagement())
	require.Equal(t, 0.0, totals.PctLikes())
	require.Equal(t, 0.0, totals.PctComments())
	require.Equal(t, 0.0, totals.PctShares())

	empty := Reduce(nil)
	require.Equal(t, 0.0, empty.AvgInteractions())
	require.Equal(t, 0.0, empty.MeanEngagement())
	require.Equal(t, 0.0, empty.AvgImpressions())
	require.Equal(t, 0.0, empty.AvgLinkClicks())
}

func TestTotals_PercentageDecompositionSumsTo100(t *testing.T) {
	totals := Reduce([]*v1.PostRecord{
		post("Instagram", 100, 7, 5, 3),
		post("Instagram", 300, 11, 2, 9),
	})

	sum := totals.PctLikes() + totals.PctComments() + totals.PctShares()
	require.InDelta(t, 100.0, sum, 0.1)
}

func TestTotals_Add(t *testing.T) {
	a := Reduce([]*v1.PostRecord{post("A", 100, 5, 3, 2)})
	b := Reduce([]*v1.PostRecord{post("B", 200, 10, 0, 0)})

	merged := a.Add(b)
	require.Equal(t, int64(2), merged.Posts)
	require.Equal(t, int64(300), merged.Impressions)
	require.Equal(t, int64(20), merged.Interactions)
	require.InDelta(t, 20.0/300.0, merged.WeightedEngagement(), 1e-12)
}
