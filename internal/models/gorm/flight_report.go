package gorm

import (
	"time"

	"horizonva/opsdesk/internal/constants"
)

// FlightReport is a pilot's PIREP. Status moves PENDING to APPROVED or
// REJECTED exactly once; rows are never re-opened.
type FlightReport struct {
	ID      string `gorm:"column:id;primaryKey;type:uuid"`
	PilotID string `gorm:"column:pilot_id;type:uuid;not null;index;uniqueIndex:idx_roster_leg_per_pilot"`

	// Core flight fields
	FlightNumber string  `gorm:"column:flight_number;type:varchar(20);not null;uniqueIndex:idx_roster_leg_per_pilot"`
	Departure    string  `gorm:"column:departure;type:varchar(4);not null"`
	Arrival      string  `gorm:"column:arrival;type:varchar(4);not null"`
	Aircraft     string  `gorm:"column:aircraft;type:varchar(100)"`
	ClaimedHours float64 `gorm:"column:claimed_hours;type:numeric(10,2);not null"`
	Remarks      string  `gorm:"column:remarks;type:text"`

	// Opaque object-store reference for the verification screenshot
	ImageURL string `gorm:"column:image_url;type:text"`

	// Roster linkage, set only for reports filed on duty. The partial unique
	// index is the duplicate-leg guard: one report per (pilot, roster, flight
	// number), whatever became of the first one.
	RosterID           *string `gorm:"column:roster_id;type:uuid;uniqueIndex:idx_roster_leg_per_pilot,where:roster_id IS NOT NULL"`
	MultiplierEligible bool    `gorm:"column:multiplier_eligible;default:false"`

	// Review outcome
	Status       constants.ReportStatus `gorm:"column:status;type:varchar(20);not null;index"`
	ReviewerID   *string                `gorm:"column:reviewer_id;type:uuid"`
	ReviewedAt   *time.Time             `gorm:"column:reviewed_at"`
	RejectReason *string                `gorm:"column:reject_reason;type:text"`

	// Timestamps
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (FlightReport) TableName() string {
	return "flight_reports"
}
