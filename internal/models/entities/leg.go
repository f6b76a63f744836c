package entities

import "horizonva/opsdesk/internal/constants"

// Leg is one scheduled segment. Legs only exist inside a roster or as the
// normalized output of route ingestion; they are never stored standalone.
type Leg struct {
	FlightNumber string             `json:"flight_number"`
	Departure    string             `json:"departure"`
	Arrival      string             `json:"arrival"`
	Aircraft     string             `json:"aircraft"`
	FlightTime   float64            `json:"flight_time_hrs"`
	Operator     string             `json:"operator"`
	RankUnlock   constants.RankTier `json:"rank_unlock,omitempty"`
}
