package insights

import (
	"context"
	"sort"
	"time"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// topSlots caps the recommendation list.
const topSlots = 6

type slotKey struct {
	Weekday int
	Hour    int
}

// BestTimesRequest selects publishing slots for one user.
type BestTimesRequest struct {
	Username  string
	Metric    string
	StartDate *time.Time
	EndDate   *time.Time
}

// BestTimes ranks (weekday, hour) publishing slots by the chosen metric.
// Posts with a malformed publish time fall outside every slot.
func (s *Service) BestTimes(ctx context.Context, req BestTimesRequest) (*BestTimesResponse, error) {
	metric := req.Metric
	if metric == "" {
		metric = coreins.MetricEngagementRate
	}
	if !coreins.ValidMetric(metric) {
		return nil, invalidQueryf("unknown metric %q", metric)
	}
	records, err := s.fetch(ctx, req.Username, "", req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[slotKey]coreins.Totals)
	for _, r := range records {
		hour := r.Hour()
		if hour < 0 {
			continue
		}
		key := slotKey{Weekday: r.ISOWeekday(), Hour: hour}
		bySlot[key] = bySlot[key].Add(coreins.Reduce([]*v1.PostRecord{r}))
	}
	if len(bySlot) == 0 {
		return &BestTimesResponse{
			Message:   "No hay datos de publicaciones para generar este insight.",
			BestTimes: []BestTime{},
		}, nil
	}

	type slot struct {
		key    slotKey
		totals coreins.Totals
	}
	slots := make([]slot, 0, len(bySlot))
	for key, totals := range bySlot {
		slots = append(slots, slot{key: key, totals: totals})
	}
	sort.Slice(slots, func(i, j int) bool {
		var vi, vj float64
		if metric == coreins.MetricInteractions {
			vi, vj = slots[i].totals.AvgInteractions(), slots[j].totals.AvgInteractions()
		} else {
			vi, vj = slots[i].totals.WeightedEngagement(), slots[j].totals.WeightedEngagement()
		}
		if vi != vj {
			return vi > vj
		}
		if slots[i].totals.Posts != slots[j].totals.Posts {
			return slots[i].totals.Posts > slots[j].totals.Posts
		}
		if slots[i].key.Weekday != slots[j].key.Weekday {
			return slots[i].key.Weekday < slots[j].key.Weekday
		}
		return slots[i].key.Hour < slots[j].key.Hour
	})
	if len(slots) > topSlots {
		slots = slots[:topSlots]
	}

	out := make([]BestTime, 0, len(slots))
	for _, sl := range slots {
		out = append(out, BestTime{
			DiaSemana:         coreins.WeekdayName(sl.key.Weekday),
			Hora:              sl.key.Hour,
			AvgEngagementRate: fixed(sl.totals.WeightedEngagement(), 4),
			AvgInteracciones:  fixed(sl.totals.AvgInteractions(), 2),
			NumPosts:          sl.totals.Posts,
		})
	}
	return &BestTimesResponse{BestTimes: out}, nil
}
