package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

// ErrInvalidQuery marks caller mistakes so the HTTP layer can answer 400
// instead of 500.
var ErrInvalidQuery = errors.New("invalid query")

func invalidQueryf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidQuery}, args...)...)
}

// Service computes insight aggregations over stored post records. All
// aggregations read whole filtered slices and reduce in memory, so a single
// request never holds more than one user's filtered history.
type Service struct {
	store   storage.PostStore
	buckets []coreins.RetentionBucket
}

// NewService wires the service over a post store. An empty bucket set falls
// back to the built-in retention ranges.
func NewService(store storage.PostStore, buckets []coreins.RetentionBucket) *Service {
	if len(buckets) == 0 {
		buckets = coreins.DefaultRetentionBuckets()
	}
	return &Service{store: store, buckets: buckets}
}

// fetch loads the caller's filtered records. Every aggregation is scoped to
// one username; an empty owner is a caller error, never "all users".
func (s *Service) fetch(ctx context.Context, username, postType string, start, end *time.Time) ([]*v1.PostRecord, error) {
	return s.fetchWhere(ctx, storage.PostFilter{
		Username:        username,
		PostType:        postType,
		RequirePostType: postType != "",
		StartDate:       start,
		EndDate:         end,
	})
}

// fetchTyped keeps only rows that carry a tipo_post. The aggregations that
// group by type use it so rows written without one can never form a "" group.
func (s *Service) fetchTyped(ctx context.Context, username string, start, end *time.Time) ([]*v1.PostRecord, error) {
	return s.fetchWhere(ctx, storage.PostFilter{
		Username:        username,
		RequirePostType: true,
		StartDate:       start,
		EndDate:         end,
	})
}

func (s *Service) fetchWhere(ctx context.Context, filter storage.PostFilter) ([]*v1.PostRecord, error) {
	if filter.Username == "" {
		return nil, invalidQueryf("username is required")
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, invalidQueryf("end_date precedes start_date")
	}
	records, err := s.store.QueryPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	return records, nil
}
