package insights

import (
	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

// GroupBy partitions records by an arbitrary key. Every aggregator shares
// this one combinator instead of hand-rolling its own grouping loop, so the
// zero-division and weighting policy lives in exactly one place (Totals).
func GroupBy[K comparable](records []*v1.PostRecord, key func(*v1.PostRecord) K) map[K][]*v1.PostRecord {
	groups := make(map[K][]*v1.PostRecord)
	for _, rec := range records {
		k := key(rec)
		groups[k] = append(groups[k], rec)
	}
	return groups
}

// Totals holds the raw sums for a group of posts. Derived ratios are methods
// so the divide-by-zero policy cannot be bypassed.
type Totals struct {
	Posts        int64
	Impressions  int64
	Interactions int64
	Likes        int64
	Comments     int64
	Shares       int64
	LinkClicks   int64

	// EngagementSum accumulates the stored per-post rates, for the
	// aggregators that report a simple mean rather than a weighted one.
	EngagementSum float64
}

// Reduce folds a group of records into its Totals.
func Reduce(records []*v1.PostRecord) Totals {
	var t Totals
	for _, rec := range records {
		t.Posts++
		t.Impressions += rec.Impressions
		t.Interactions += rec.TotalInteractions
		t.Likes += rec.Likes
		t.Comments += rec.Comments
		t.Shares += rec.Shares
		t.LinkClicks += rec.LinkClicks
		t.EngagementSum += rec.EngagementRate
	}
	return t
}

// Add merges two Totals by summing raw counters. Used when collapsing the
// long tail into "Otros": the merged group's ratios are recomputed from the
// merged sums, never averaged from averages.
func (t Totals) Add(o Totals) Totals {
	t.Posts += o.Posts
	t.Impressions += o.Impressions
	t.Interactions += o.Interactions
	t.Likes += o.Likes
	t.Comments += o.Comments
	t.Shares += o.Shares
	t.LinkClicks += o.LinkClicks
	t.EngagementSum += o.EngagementSum
	return t
}

// WeightedEngagement is sum(interactions)/sum(impressions): the
// impression-weighted engagement rate. Zero impressions yields 0.
func (t Totals) WeightedEngagement() float64 {
	return ratio(float64(t.Interactions), float64(t.Impressions))
}

// MeanEngagement is the simple mean of per-post stored rates.
func (t Totals) MeanEngagement() float64 {
	return ratio(t.EngagementSum, float64(t.Posts))
}

// AvgInteractions is sum(interactions)/postCount.
func (t Totals) AvgInteractions() float64 {
	return ratio(float64(t.Interactions), float64(t.Posts))
}

// AvgImpressions is sum(impressions)/postCount.
func (t Totals) AvgImpressions() float64 {
	return ratio(float64(t.Impressions), float64(t.Posts))
}

// AvgLinkClicks is sum(linkClicks)/postCount.
func (t Totals) AvgLinkClicks() float64 {
	return ratio(float64(t.LinkClicks), float64(t.Posts))
}

// PctLikes decomposes likes as a percentage of total interactions.
func (t Totals) PctLikes() float64 {
	return ratio(float64(t.Likes), float64(t.Interactions)) * 100
}

// PctComments decomposes comments as a percentage of total interactions.
func (t Totals) PctComments() float64 {
	return ratio(float64(t.Comments), float64(t.Interactions)) * 100
}

// PctShares decomposes shares as a percentage of total interactions.
func (t Totals) PctShares() float64 {
	return ratio(float64(t.Shares), float64(t.Interactions)) * 100
}

// ratio is the single divide-by-zero gate for every derived metric:
// a zero denominator always yields 0, never NaN or Inf.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
