package models

import "time"

// Reading is one absolute cumulative meter value recorded for a user.
// Readings are append-only; the full ordered history forms the user's ledger.
type Reading struct {
	ID         int       `json:"id"`
	UserID     string    `json:"user_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Value      float64   `json:"value"` // cumulative kWh
	Published  bool      `json:"-"`
}

// ConsumptionPoint is the difference between two consecutive readings.
type ConsumptionPoint struct {
	PeriodStart time.Time `json:"period_start"`
	Delta       float64   `json:"delta"` // kWh consumed in the period
}

// DailyTotal aggregates consumption onto a calendar day.
type DailyTotal struct {
	Day   time.Time `json:"day"`
	Delta float64   `json:"delta"`
}
