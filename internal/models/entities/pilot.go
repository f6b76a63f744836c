package entities

import (
	"time"

	"horizonva/opsdesk/internal/constants"
)

type Pilot struct {
	ID                 string               `db:"id"`
	Callsign           string               `db:"callsign"`
	Name               string               `db:"name"`
	Rank               constants.RankTier   `db:"rank"`
	Roles              string               `db:"roles"`
	FlightHours        float64              `db:"flight_hours"`
	DailyFlightHours   float64              `db:"daily_flight_hours"`
	MonthlyFlightHours float64              `db:"monthly_flight_hours"`
	DutyStatus         constants.DutyStatus `db:"duty_status"`
	CurrentRosterID    *string              `db:"current_roster_id"`
	LastDutyStart      *time.Time           `db:"last_duty_start"`
	LastDutyOff        *time.Time           `db:"last_duty_off"`
	LastHourReset      time.Time            `db:"last_hour_reset"`
	LastKnownAirport   string               `db:"last_known_airport"`
	LastDutyAirport    string               `db:"last_duty_airport"`
	CreatedAt          time.Time            `db:"created_at"`
	UpdatedAt          time.Time            `db:"updated_at"`
}

// RoleList parses the comma-separated roles column.
func (p *Pilot) RoleList() []constants.Role {
	return constants.ParseRoles(p.Roles)
}

// KnownAirports returns the departure points this pilot can pick rosters
// from: where their last duty ended, where their last approved flight landed,
// and the airline's default hub. Deduplicated, order preserved.
func (p *Pilot) KnownAirports(defaultHub string) []string {
	seen := make(map[string]bool, 3)
	out := make([]string, 0, 3)
	for _, ap := range []string{p.LastDutyAirport, p.LastKnownAirport, defaultHub} {
		if ap == "" || seen[ap] {
			continue
		}
		seen[ap] = true
		out = append(out, ap)
	}
	return out
}
