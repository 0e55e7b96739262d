package insights

import "sort"

// Ranking metrics selectable by callers.
const (
	MetricEngagementRate = "engagement_rate"
	MetricInteractions   = "interacciones_total"
)

// OtherLabel is the synthetic label for the collapsed long tail.
const OtherLabel = "Otros"

// ValidMetric reports whether m is a selectable ranking metric.
func ValidMetric(m string) bool {
	return m == MetricEngagementRate || m == MetricInteractions
}

// RankedGroup is one labeled group plus its raw totals. Callers derive the
// published averages from Totals so collapsed groups stay mathematically
// consistent with the underlying sums.
type RankedGroup struct {
	Label  string
	Totals Totals
}

// metricValue resolves the sort key for a group under the given metric.
func metricValue(g RankedGroup, metric string) float64 {
	if metric == MetricInteractions {
		return g.Totals.AvgInteractions()
	}
	return g.Totals.WeightedEngagement()
}

// SortByMetric orders groups descending by the selected metric.
// Ties break on post count descending, then label ascending, so the ranking
// is deterministic regardless of the store's row order.
func SortByMetric(groups []RankedGroup, metric string) {
	sort.SliceStable(groups, func(i, j int) bool {
		vi, vj := metricValue(groups[i], metric), metricValue(groups[j], metric)
		if vi != vj {
			return vi > vj
		}
		if groups[i].Totals.Posts != groups[j].Totals.Posts {
			return groups[i].Totals.Posts > groups[j].Totals.Posts
		}
		return groups[i].Label < groups[j].Label
	})
}

// CollapseTail keeps the first keep groups verbatim and merges the remainder
// into a single group labeled OtherLabel, summing raw totals. With keep or
// fewer groups the input is returned unchanged. The collapsed group's post
// count equals the sum of the merged groups' counts, and its ratios are
// recomputed from the merged sums.
func CollapseTail(groups []RankedGroup, keep int) []RankedGroup {
	if len(groups) <= keep {
		return groups
	}

	out := make([]RankedGroup, keep, keep+1)
	copy(out, groups[:keep])

	other := RankedGroup{Label: OtherLabel}
	for _, g := range groups[keep:] {
		other.Totals = other.Totals.Add(g.Totals)
	}
	return append(out, other)
}
