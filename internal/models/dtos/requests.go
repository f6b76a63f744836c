package dtos

type RegisterPilotReq struct {
	Callsign string   `json:"callsign"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles,omitempty"`
}

type StartDutyReq struct {
	RosterID string `json:"roster_id"`
}

// FileReportReq carries the pilot's claim. FlightTime accepts the same
// formats the route sheets use ("1:30", "1h30m").
type FileReportReq struct {
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Aircraft     string `json:"aircraft"`
	FlightTime   string `json:"flight_time"`
	Remarks      string `json:"remarks,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

type RejectReportReq struct {
	Reason string `json:"reason"`
}

type RosterLegReq struct {
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Aircraft     string `json:"aircraft"`
	FlightTime   string `json:"flight_time"`
	Operator     string `json:"operator,omitempty"`
	RankUnlock   string `json:"rank_unlock,omitempty"`
}

type CreateRosterReq struct {
	Name       string         `json:"name"`
	Legs       []RosterLegReq `json:"legs"`
	Multiplier float64        `json:"multiplier,omitempty"`
}

type UpsertSourceReq struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Provider      string `json:"provider"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	Range         string `json:"range,omitempty"`
	URL           string `json:"url,omitempty"`
	Active        *bool  `json:"active,omitempty"`
}
