// Package consumption turns an ordered sequence of absolute meter readings
// into derived series for charting and budget tracking. All functions are
// pure: no I/O, no retained state, recomputed fresh on every dashboard render.
package consumption

import (
	"math"
	"sort"
	"time"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

// OrderByTime returns the readings sorted ascending by timestamp. The sort is
// stable: readings recorded at identical timestamps keep their insertion
// order, so the ledger's append order remains observable.
func OrderByTime(readings []models.Reading) []models.Reading {
	ordered := make([]models.Reading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})
	return ordered
}

// PeriodConsumption computes the delta between each adjacent pair of ordered
// readings. The first reading has no preceding delta and is excluded; a
// sequence of n readings yields max(n-1, 0) points. A negative delta (counter
// moved backwards, e.g. a meter reset) is passed through unchanged so the
// display can flag it rather than have it silently clamped or dropped.
func PeriodConsumption(ordered []models.Reading) []models.ConsumptionPoint {
	if len(ordered) < 2 {
		return []models.ConsumptionPoint{}
	}
	points := make([]models.ConsumptionPoint, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		points = append(points, models.ConsumptionPoint{
			PeriodStart: ordered[i].RecordedAt,
			Delta:       ordered[i].Value - ordered[i-1].Value,
		})
	}
	return points
}

// Cost prices a consumption delta. No rounding is applied here; rounding for
// display is a presentation concern (see FormatMoney).
func Cost(delta, unitPrice float64) float64 {
	return delta * unitPrice
}

// BudgetProgress reports how much of the daily budget the latest period's
// cost has used, as a fraction saturating at 1.0. A non-positive budget is a
// configuration error, not a division.
func BudgetProgress(latestDeltaCost, dailyBudget float64) (float64, error) {
	if dailyBudget <= 0 {
		return 0, apperrors.NewInvalidConfiguration("daily budget must be greater than zero")
	}
	return math.Min(latestDeltaCost/dailyBudget, 1.0), nil
}

// Tail returns the last n readings for the recent-entries view. It returns
// fewer than n when there is not enough data and never fails.
func Tail(ordered []models.Reading, n int) []models.Reading {
	if n <= 0 {
		return []models.Reading{}
	}
	if n >= len(ordered) {
		out := make([]models.Reading, len(ordered))
		copy(out, ordered)
		return out
	}
	out := make([]models.Reading, n)
	copy(out, ordered[len(ordered)-n:])
	return out
}

// DailyTotals aggregates period consumption onto calendar days. This is the
// presentation-level "one value per day" view over the append-only ledger;
// storage itself never collapses readings.
func DailyTotals(points []models.ConsumptionPoint) []models.DailyTotal {
	if len(points) == 0 {
		return []models.DailyTotal{}
	}
	totals := []models.DailyTotal{}
	for _, p := range points {
		day := time.Date(p.PeriodStart.Year(), p.PeriodStart.Month(), p.PeriodStart.Day(), 0, 0, 0, 0, p.PeriodStart.Location())
		if len(totals) > 0 && totals[len(totals)-1].Day.Equal(day) {
			totals[len(totals)-1].Delta += p.Delta
			continue
		}
		totals = append(totals, models.DailyTotal{Day: day, Delta: p.Delta})
	}
	return totals
}
