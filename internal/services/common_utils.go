package services

import (
	"horizonva/opsdesk/internal/models/dtos"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

func RosterToResponse(r *gormModels.Roster) *dtos.RosterResponse {
	return &dtos.RosterResponse{
		ID:           r.ID,
		Name:         r.Name,
		Hub:          r.Hub,
		Legs:         r.Legs,
		TotalTimeHrs: dtos.RoundedHours(r.TotalTimeHrs),
		Multiplier:   r.Multiplier,
		Generated:    r.Generated,
	}
}

func ReportToResponse(rep *gormModels.FlightReport) *dtos.ReportResponse {
	return &dtos.ReportResponse{
		ID:                 rep.ID,
		FlightNumber:       rep.FlightNumber,
		Departure:          rep.Departure,
		Arrival:            rep.Arrival,
		Aircraft:           rep.Aircraft,
		ClaimedHours:       dtos.RoundedHours(rep.ClaimedHours),
		Status:             string(rep.Status),
		RosterID:           rep.RosterID,
		MultiplierEligible: rep.MultiplierEligible,
		Remarks:            rep.Remarks,
		FiledAt:            rep.CreatedAt,
	}
}
