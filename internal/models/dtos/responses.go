package dtos

import (
	"time"

	"horizonva/opsdesk/internal/models/entities"
)

// Denial is the machine-readable refusal attached to any duty, filing, or
// review operation that did not go through. Code/Category follow the
// constants package taxonomy.
type Denial struct {
	Code             string `json:"code"`
	Category         string `json:"category"`
	Message          string `json:"message"`
	RemainingMinutes int    `json:"remaining_minutes,omitempty"`
	BlockedLeg       string `json:"blocked_leg,omitempty"`
	RequiredRank     string `json:"required_rank,omitempty"`
	Filed            int    `json:"filed,omitempty"`
	Required         int    `json:"required,omitempty"`
}

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type RosterResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Hub          string         `json:"hub"`
	Legs         []entities.Leg `json:"legs"`
	TotalTimeHrs RoundedHours   `json:"total_time_hrs"`
	Multiplier   float64        `json:"multiplier"`
	Generated    bool           `json:"generated"`
}

type RosterListResponse struct {
	Rosters []RosterResponse `json:"rosters"`
}

type StartDutyResponse struct {
	Accepted bool            `json:"accepted"`
	Denial   *Denial         `json:"denial,omitempty"`
	Roster   *RosterResponse `json:"roster,omitempty"`
}

type CreateRosterResponse struct {
	Accepted bool            `json:"accepted"`
	Denial   *Denial         `json:"denial,omitempty"`
	Roster   *RosterResponse `json:"roster,omitempty"`
}

type ReportResponse struct {
	ID                 string       `json:"id"`
	FlightNumber       string       `json:"flight_number"`
	Departure          string       `json:"departure"`
	Arrival            string       `json:"arrival"`
	Aircraft           string       `json:"aircraft"`
	ClaimedHours       RoundedHours `json:"claimed_hours"`
	Status             string       `json:"status"`
	RosterID           *string      `json:"roster_id,omitempty"`
	MultiplierEligible bool         `json:"multiplier_eligible"`
	Remarks            string       `json:"remarks,omitempty"`
	FiledAt            time.Time    `json:"filed_at"`
}

type FileReportResponse struct {
	Accepted bool            `json:"accepted"`
	Denial   *Denial         `json:"denial,omitempty"`
	Report   *ReportResponse `json:"report,omitempty"`
}

type EndDutyResponse struct {
	Accepted bool    `json:"accepted"`
	Denial   *Denial `json:"denial,omitempty"`
}

type PromotionResponse struct {
	NewRank string `json:"new_rank"`
}

type ReviewResponse struct {
	Message      string             `json:"message"`
	Denial       *Denial            `json:"denial,omitempty"`
	AwardedHours RoundedHours       `json:"awarded_hours,omitempty"`
	Promotion    *PromotionResponse `json:"promotion,omitempty"`
}

type NextRankResponse struct {
	Rank           string       `json:"rank"`
	MinHours       float64      `json:"min_hours"`
	RemainingHours RoundedHours `json:"remaining_hours"`
}

type RegisterPilotResponse struct {
	Accepted bool                `json:"accepted"`
	Denial   *Denial             `json:"denial,omitempty"`
	Pilot    *PilotStatsResponse `json:"pilot,omitempty"`
}

type DeletePilotResponse struct {
	Accepted bool    `json:"accepted"`
	Denial   *Denial `json:"denial,omitempty"`
}

type PilotStatsResponse struct {
	ID               string            `json:"id"`
	Callsign         string            `json:"callsign"`
	Name             string            `json:"name"`
	Rank             string            `json:"rank"`
	FlightHours      RoundedHours      `json:"flight_hours"`
	MonthlyHours     RoundedHours      `json:"monthly_hours"`
	DailyHours       RoundedHours      `json:"daily_hours"`
	DutyStatus       string            `json:"duty_status"`
	CurrentRosterID  *string           `json:"current_roster_id,omitempty"`
	LastKnownAirport string            `json:"last_known_airport,omitempty"`
	LastDutyAirport  string            `json:"last_duty_airport,omitempty"`
	NextRank         *NextRankResponse `json:"next_rank,omitempty"`
}

type SourceStat struct {
	Source string `json:"source"`
	Rows   int    `json:"rows"`
	Legs   int    `json:"legs"`
	Error  string `json:"error,omitempty"`
}

type GenerationResponse struct {
	Created   int          `json:"created"`
	LegsFound int          `json:"legs_found"`
	Sources   []SourceStat `json:"sources,omitempty"`
}

type SourceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Provider string `json:"provider"`
	Active   bool   `json:"active"`
}

type UpsertSourceResponse struct {
	Accepted bool            `json:"accepted"`
	Denial   *Denial         `json:"denial,omitempty"`
	Source   *SourceResponse `json:"source,omitempty"`
}
