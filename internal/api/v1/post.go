package v1

import (
	"fmt"
	"time"
)

// PostRecord is the atomic unit of the system: one published social-media
// post and its measured performance counters.
//
// TotalInteractions and EngagementRate are generated columns in the store,
// computed once at write time. Every aggregator treats them as immutable,
// trusted inputs and never recomputes them from the raw counters.
type PostRecord struct {
	// ID is a unique opaque identifier, assigned by the service on create.
	ID string `json:"id"`

	// Username is the owning account. All aggregation is scoped to it.
	Username string `json:"username"`

	// PostType is a free-form classification, e.g. "Instagram", "Reel".
	PostType string `json:"tipo_post"`

	Title string `json:"titulo,omitempty"`

	// PublishDate carries only the calendar date; the clock portion is
	// always midnight UTC.
	PublishDate time.Time `json:"fecha_publicacion"`

	// PublishTime is the time of day in "HH:MM" or "HH:MM:SS" form.
	PublishTime string `json:"hora_publicacion"`

	Impressions int64 `json:"impresiones"`
	Likes       int64 `json:"me_gusta"`
	Comments    int64 `json:"comentarios"`
	Shares      int64 `json:"compartidos"`
	LinkClicks  int64 `json:"clics_enlaces"`
	HasLink     bool  `json:"contiene_enlace"`

	// RetentionSeconds is three-state: nil means "not applicable" (the post
	// format has no watch time), which is never conflated with zero.
	RetentionSeconds *float64 `json:"tiempo_retencion,omitempty"`

	ContentFormat string `json:"formato_contenido,omitempty"`
	Notes         string `json:"notas,omitempty"`

	// Derived-but-stored fields (generated by the database).
	TotalInteractions int64   `json:"interacciones_total"`
	EngagementRate    float64 `json:"engagement_rate"`
}

// timeLayouts accepted for PublishTime.
var timeLayouts = []string{"15:04:05", "15:04"}

// Validate ensures the record has all required fields and sane counters.
func (p *PostRecord) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("username is required")
	}
	if p.PostType == "" {
		return fmt.Errorf("tipo_post is required")
	}
	if p.PublishDate.IsZero() {
		return fmt.Errorf("fecha_publicacion is required")
	}
	if p.PublishTime == "" {
		return fmt.Errorf("hora_publicacion is required")
	}
	if _, err := parseClock(p.PublishTime); err != nil {
		return fmt.Errorf("hora_publicacion %q is not a valid time of day", p.PublishTime)
	}
	if p.Impressions < 0 {
		return fmt.Errorf("impresiones must be non-negative")
	}
	if p.Likes < 0 || p.Comments < 0 || p.Shares < 0 || p.LinkClicks < 0 {
		return fmt.Errorf("interaction counters must be non-negative")
	}
	if p.RetentionSeconds != nil && *p.RetentionSeconds < 0 {
		return fmt.Errorf("tiempo_retencion must be non-negative when present")
	}
	return nil
}

// Hour returns the hour-of-day (0-23) of PublishTime, or -1 if the stored
// value is malformed.
func (p *PostRecord) Hour() int {
	t, err := parseClock(p.PublishTime)
	if err != nil {
		return -1
	}
	return t.Hour()
}

// ISOWeekday returns the ISO weekday of PublishDate: 1=Monday .. 7=Sunday.
func (p *PostRecord) ISOWeekday() int {
	wd := int(p.PublishDate.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// HasRetention reports whether the record carries a usable retention
// measurement: present and strictly positive.
func (p *PostRecord) HasRetention() bool {
	return p.RetentionSeconds != nil && *p.RetentionSeconds > 0
}

func parseClock(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
