package insights

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func group(label string, posts, impressions, interactions int64) RankedGroup {
	return RankedGroup{
		Label: label,
		Totals: Totals{
			Posts:        posts,
			Impressions:  impressions,
			Interactions: interactions,
		},
	}
}

func TestSortByMetric_EngagementRate(t *testing.T) {
	groups := []RankedGroup{
		group("low", 1, 1000, 10),  // 0.01
		group("high", 1, 100, 50),  // 0.50
		group("mid", 1, 1000, 100), // 0.10
	}

	SortByMetric(groups, MetricEngagementRate)
	require.Equal(t, []string{"high", "mid", "low"}, labels(groups))
}

func TestSortByMetric_Interactions(t *testing.T) {
	groups := []RankedGroup{
		group("a", 2, 100, 10), // avg 5
		group("b", 1, 100, 40), // avg 40
	}

	SortByMetric(groups, MetricInteractions)
	require.Equal(t, []string{"b", "a"}, labels(groups))
}

func TestSortByMetric_DeterministicTieBreak(t *testing.T) {
	// Equal metric: more posts wins; still equal: label ascending.
	groups := []RankedGroup{
		group("zeta", 1, 100, 10),
		group("alpha", 1, 100, 10),
		group("busy", 5, 500, 50),
	}

	SortByMetric(groups, MetricEngagementRate)
	require.Equal(t, []string{"busy", "alpha", "zeta"}, labels(groups))
}

func TestCollapseTail_UnderLimitUnchanged(t *testing.T) {
	groups := []RankedGroup{group("a", 1, 100, 10), group("b", 2, 200, 20)}
	require.Equal(t, groups, CollapseTail(groups, 5))
}

func TestCollapseTail_MergesRemainderIntoOther(t *testing.T) {
	groups := []RankedGroup{
		group("g1", 3, 300, 90),
		group("g2", 2, 200, 40),
		group("g3", 1, 100, 15),
		group("g4", 4, 400, 40),
		group("g5", 1, 100, 9),
		group("g6", 2, 500, 10),
		group("g7", 3, 250, 5),
	}

	out := CollapseTail(groups, 5)
	require.Len(t, out, 6)
	require.Equal(t, OtherLabel, out[5].Label)

	// Conservation: merged post count equals the sum of the tail counts...
	require.Equal(t, int64(5), out[5].Totals.Posts)
	// ...and the collapsed rate comes from the merged raw sums.
	require.InDelta(t, 15.0/750.0, out[5].Totals.WeightedEngagement(), 1e-12)

	var total int64
	for _, g := range out {
		total += g.Totals.Posts
	}
	require.Equal(t, int64(16), total)
}

func TestValidMetric(t *testing.T) {
	require.True(t, ValidMetric(MetricEngagementRate))
	require.True(t, ValidMetric(MetricInteractions))
	require.False(t, ValidMetric("likes"))
	require.False(t, ValidMetric(""))
}

func labels(groups []RankedGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}
