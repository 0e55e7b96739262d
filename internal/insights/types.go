package insights

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed-precision wire fields follow the original dashboard contract:
// rates carry 4 decimals, averages 2, percentages 1. Decimal rounding keeps
// the string forms stable across platforms.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// notApplicable marks single-value estimates with no supporting data.
const notApplicable = "N/A"

// BestTime is one ranked (weekday, hour) slot.
type BestTime struct {
	DiaSemana         string `json:"dia_semana"`
	Hora              int    `json:"hora"`
	AvgEngagementRate string `json:"avg_engagement_rate"`
	AvgInteracciones  string `json:"avg_interacciones_total"`
	NumPosts          int64  `json:"num_posts"`
}

// BestTimesResponse lists the top posting slots, best first.
type BestTimesResponse struct {
	Message   string     `json:"message,omitempty"`
	BestTimes []BestTime `json:"bestTimes"`
}

// EffectiveFormat is one ranked post-type group, possibly the collapsed
// "Otros" tail.
type EffectiveFormat struct {
	TipoPost          string `json:"tipo_post"`
	AvgEngagementRate string `json:"avg_engagement_rate"`
	AvgInteracciones  string `json:"avg_interacciones_total"`
	NumPosts          int64  `json:"num_posts"`
}

// EffectiveFormatsResponse ranks post types by the selected metric.
type EffectiveFormatsResponse struct {
	Message          string            `json:"message,omitempty"`
	EffectiveFormats []EffectiveFormat `json:"effectiveFormats"`
}

// EstimateRequest describes a hypothetical future post.
type EstimateRequest struct {
	Username string
	PostType string
	Weekday  int // ISO: 1=Monday .. 7=Sunday
	Hour     int // 0-23
}

// Estimation carries the averaged history for similar posts. All averages
// are "N/A" when no similar posts exist.
type Estimation struct {
	AvgImpresiones       string `json:"avg_impresiones"`
	AvgInteracciones     string `json:"avg_interacciones_total"`
	AvgEngagementRate    string `json:"avg_engagement_rate"`
	NumPostsConsiderados int64  `json:"num_posts_considerados"`
}

// EstimateResponse is the potential-performance estimate.
type EstimateResponse struct {
	Message    string     `json:"message,omitempty"`
	Estimation Estimation `json:"estimation"`
}

// LinkGroupStats summarizes one side of the has-link split. Empty groups
// report zeroed averages rather than being omitted.
type LinkGroupStats struct {
	AvgEngagementRate string `json:"avg_engagement_rate"`
	AvgClicsEnlaces   string `json:"avg_clics_enlaces"`
	AvgInteracciones  string `json:"avg_interacciones_total"`
	NumPosts          int64  `json:"num_posts"`
}

// LinkImpact always carries both shapes.
type LinkImpact struct {
	ConEnlace LinkGroupStats `json:"con_enlace"`
	SinEnlace LinkGroupStats `json:"sin_enlace"`
}

// LinkImpactResponse compares posts with and without links.
type LinkImpactResponse struct {
	Message string     `json:"message,omitempty"`
	Impact  LinkImpact `json:"impact"`
}

// CompositionRow decomposes one post type's interactions.
type CompositionRow struct {
	TipoPost         string `json:"tipo_post"`
	NumPosts         int64  `json:"num_posts"`
	MeGusta          int64  `json:"me_gusta"`
	Comentarios      int64  `json:"comentarios"`
	Compartidos      int64  `json:"compartidos"`
	SumInteracciones int64  `json:"sum_interacciones_total"`
	PorcMeGusta      string `json:"porc_me_gusta"`
	PorcComentarios  string `json:"porc_comentarios"`
	PorcCompartidos  string `json:"porc_compartidos"`
}

// CompositionResponse lists per-type interaction composition, by type name.
type CompositionResponse struct {
	Message     string           `json:"message,omitempty"`
	Composition []CompositionRow `json:"composition"`
}

// RetentionImpactRow is one populated retention bucket.
type RetentionImpactRow struct {
	RangoRetencion    string `json:"rango_retencion"`
	AvgEngagementRate string `json:"avg_engagement_rate"`
	AvgInteracciones  string `json:"avg_interacciones_total"`
	NumPosts          int64  `json:"num_posts"`
}

// RetentionImpactResponse lists populated buckets in rank order.
type RetentionImpactResponse struct {
	Message         string               `json:"message,omitempty"`
	RetentionImpact []RetentionImpactRow `json:"retentionImpact"`
}

// TrendRequest bounds a daily time series.
type TrendRequest struct {
	Username  string
	StartDate time.Time
	EndDate   time.Time
	PostType  string // optional filter
}

// TrendDatasets carries the per-day series, index-aligned with the labels.
type TrendDatasets struct {
	Impresiones   []int64  `json:"impresiones"`
	Interacciones []int64  `json:"interacciones"`
	EngagementPct []string `json:"engagement_pct"`
}

// TrendResponse is the daily performance time series, dates ascending.
type TrendResponse struct {
	Labels   []string      `json:"labels"`
	Datasets TrendDatasets `json:"datasets"`
}

// KeyMetrics are the dashboard's headline totals.
type KeyMetrics struct {
	TotalImpresiones     int64  `json:"totalImpressions"`
	TotalInteracciones   int64  `json:"totalInteractions"`
	AvgEngagementRatePct string `json:"averageEngagementRate"`
	TotalClics           int64  `json:"totalClicks"`
}

// TypeValueRow pairs a post type with one formatted value.
type TypeValueRow struct {
	TipoPost string `json:"tipo_post"`
	Valor    string `json:"valor"`
}

// TypeCountRow pairs a post type with a record count.
type TypeCountRow struct {
	TipoPost string `json:"tipo_post"`
	Cantidad int64  `json:"cantidad_publicaciones"`
}

// WeekdayEngagementRow is one weekday's mean engagement percentage.
type WeekdayEngagementRow struct {
	NumDiaSemana  int    `json:"num_dia_semana"`
	DiaSemana     string `json:"dia_semana"`
	EngagementPct string `json:"engagement_rate_promedio_percent"`
}

// DashboardRequest bounds the multi-section dashboard query.
type DashboardRequest struct {
	Username  string
	StartDate time.Time
	EndDate   time.Time
	PostType  string // applies to trend, key metrics and weekday sections
}

// DashboardResponse aggregates every dashboard section. Sections whose
// underlying query failed are omitted; sibling sections still render.
type DashboardResponse struct {
	AvailablePostTypes   []string               `json:"availablePostTypes"`
	Trend                *TrendResponse         `json:"trendChart,omitempty"`
	PostTypePerformance  []TypeValueRow         `json:"postTypePerformance,omitempty"`
	KeyMetrics           *KeyMetrics            `json:"keyMetrics,omitempty"`
	PostTypeDistribution []TypeCountRow         `json:"postTypeDistribution,omitempty"`
	AvgRetentionByType   []TypeValueRow         `json:"avgRetentionByType,omitempty"`
	EngagementByWeekday  []WeekdayEngagementRow `json:"engagementByWeekday,omitempty"`
}

// OverviewResponse is the all-time daily interactions series.
type OverviewResponse struct {
	Labels           []string `json:"labels"`
	Data             []int64  `json:"data"`
	FirstDateDisplay string   `json:"firstDateDisplay,omitempty"`
	LastDateDisplay  string   `json:"lastDateDisplay,omitempty"`
	HasData          bool     `json:"hasData"`
}

// Spanish month names for the chart labels the frontend renders verbatim.
var monthAbbrev = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// dateLabel renders "05 mar" style axis labels.
func dateLabel(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), monthAbbrev[t.Month()-1])
}

// dateDisplay renders "05 de marzo de 2026" style captions.
func dateDisplay(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
