package models

import "time"

// User is a household member who records readings.
//
// Password is stored and compared as plaintext, matching the single-household
// trust model this tool is built for. Do not expose the user store beyond
// that boundary.
type User struct {
	ID          string    `json:"id"` // email or username, exact-match identity
	Password    string    `json:"-"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeterSample is one successful poll of the smart-meter relay.
type MeterSample struct {
	TotalKWh  float64   `json:"total_kwh"`
	PowerWatt float64   `json:"power_watt,omitempty"`
	PolledAt  time.Time `json:"polled_at"`
}
