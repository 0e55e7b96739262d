package insights

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RetentionBucket is one labeled viewer-retention range. Ranges are
// half-open on the left: a record lands in the bucket when
// MinSeconds < retention <= MaxSeconds. MaxSeconds 0 marks the final,
// unbounded bucket.
//
// Rank is the fixed ordinal used to sort output; labels like "Muy Corto"
// and "Muy Largo" do not sort correctly as strings.
type RetentionBucket struct {
	Label      string  `yaml:"label"`
	Rank       int     `yaml:"rank"`
	MinSeconds float64 `yaml:"min_seconds"`
	MaxSeconds float64 `yaml:"max_seconds"`
}

// DefaultRetentionBuckets returns the built-in five-range table.
func DefaultRetentionBuckets() []RetentionBucket {
	return []RetentionBucket{
		{Label: "Muy Corto (0-15s)", Rank: 1, MinSeconds: 0, MaxSeconds: 15},
		{Label: "Corto (16-45s)", Rank: 2, MinSeconds: 15, MaxSeconds: 45},
		{Label: "Medio (46-90s)", Rank: 3, MinSeconds: 45, MaxSeconds: 90},
		{Label: "Largo (91-180s)", Rank: 4, MinSeconds: 90, MaxSeconds: 180},
		{Label: "Muy Largo (>180s)", Rank: 5, MinSeconds: 180, MaxSeconds: 0},
	}
}

// BucketFor locates the bucket containing seconds. Non-positive values have
// no bucket: "no usable retention" is the caller's three-state concern, not
// a range.
func BucketFor(buckets []RetentionBucket, seconds float64) (RetentionBucket, bool) {
	if seconds <= 0 {
		return RetentionBucket{}, false
	}
	for _, b := range buckets {
		if seconds > b.MinSeconds && (b.MaxSeconds == 0 || seconds <= b.MaxSeconds) {
			return b, true
		}
	}
	return RetentionBucket{}, false
}

// bucketsFile is the on-disk YAML shape.
type bucketsFile struct {
	Buckets []RetentionBucket `yaml:"buckets"`
}

// LoadBucketsFile reads a retention bucket table from a YAML file and
// validates it. An empty path returns the built-in defaults. Buckets are
// loaded once at startup; no hot reload.
func LoadBucketsFile(path string) ([]RetentionBucket, error) {
	if path == "" {
		return DefaultRetentionBuckets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading retention bucket file %s: %w", path, err)
	}

	var raw bucketsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing retention bucket file %s: %w", path, err)
	}

	if err := validateBuckets(raw.Buckets); err != nil {
		return nil, fmt.Errorf("retention bucket file %s: %w", path, err)
	}
	return raw.Buckets, nil
}

// validateBuckets enforces the invariants the bucketizer relies on:
// contiguous ranks starting at 1, ascending non-overlapping ranges, and a
// single unbounded final range.
func validateBuckets(buckets []RetentionBucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("at least one bucket is required")
	}
	for i, b := range buckets {
		if b.Label == "" {
			return fmt.Errorf("bucket %d: label must not be empty", i+1)
		}
		if b.Rank != i+1 {
			return fmt.Errorf("bucket %q: rank %d out of order (want %d)", b.Label, b.Rank, i+1)
		}
		last := i == len(buckets)-1
		if last {
			if b.MaxSeconds != 0 {
				return fmt.Errorf("bucket %q: final bucket must be unbounded (max_seconds 0)", b.Label)
			}
			continue
		}
		if b.MaxSeconds <= b.MinSeconds {
			return fmt.Errorf("bucket %q: max_seconds must exceed min_seconds", b.Label)
		}
		if buckets[i+1].MinSeconds != b.MaxSeconds {
			return fmt.Errorf("bucket %q: ranges must be contiguous", buckets[i+1].Label)
		}
	}
	return nil
}
