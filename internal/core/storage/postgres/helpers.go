package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPostRow scans one publicaciones row into a PostRecord.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
// Nullable columns (titulo, tiempo_retencion, formato_contenido, notas)
// map to zero values or nil rather than surfacing sql.Null types.
func scanPostRow(row scanner) (*v1.PostRecord, error) {
	var (
		post      v1.PostRecord
		title     sql.NullString
		retention sql.NullFloat64
		format    sql.NullString
		notes     sql.NullString
	)

	err := row.Scan(
		&post.ID,
		&post.Username,
		&post.PostType,
		&title,
		&post.PublishDate,
		&post.PublishTime,
		&post.Impressions,
		&post.Likes,
		&post.Comments,
		&post.Shares,
		&post.LinkClicks,
		&post.HasLink,
		&retention,
		&format,
		&notes,
		&post.TotalInteractions,
		&post.EngagementRate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan post row: %w", err)
	}

	post.Title = title.String
	post.ContentFormat = format.String
	post.Notes = notes.String
	if retention.Valid {
		// Absent stays nil: "not applicable" is never coerced to zero.
		value := retention.Float64
		post.RetentionSeconds = &value
	}

	return &post, nil
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat converts a nil pointer to SQL NULL.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
