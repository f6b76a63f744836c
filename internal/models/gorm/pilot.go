package gorm

import (
	"time"

	"horizonva/opsdesk/internal/constants"
)

// Pilot is the migration model for the pilots table. Runtime duty-state
// access goes through sqlx (see db/repositories/pilot_repository.go); the two
// views must stay column-compatible.
type Pilot struct {
	ID                 string               `gorm:"column:id;primaryKey;type:uuid"`
	Callsign           string               `gorm:"column:callsign;uniqueIndex"`
	Name               string               `gorm:"column:name"`
	Rank               constants.RankTier   `gorm:"column:rank;type:varchar(50)"`
	Roles              string               `gorm:"column:roles;type:varchar(100)"`
	FlightHours        float64              `gorm:"column:flight_hours;type:numeric(10,2);default:0"`
	DailyFlightHours   float64              `gorm:"column:daily_flight_hours;type:numeric(10,2);default:0"`
	MonthlyFlightHours float64              `gorm:"column:monthly_flight_hours;type:numeric(10,2);default:0"`
	DutyStatus         constants.DutyStatus `gorm:"column:duty_status;type:varchar(20)"`
	CurrentRosterID    *string              `gorm:"column:current_roster_id;type:uuid"`
	LastDutyStart      *time.Time           `gorm:"column:last_duty_start"`
	LastDutyOff        *time.Time           `gorm:"column:last_duty_off"`
	LastHourReset      time.Time            `gorm:"column:last_hour_reset"`
	LastKnownAirport   string               `gorm:"column:last_known_airport;type:varchar(4)"`
	LastDutyAirport    string               `gorm:"column:last_duty_airport;type:varchar(4)"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Pilot) TableName() string {
	return "pilots"
}

// ApiKey is the migration model for api_keys. Lookups run through sqlx.
type ApiKey struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(64)"`
	PilotID   *string   `gorm:"column:pilot_id;type:uuid;index"`
	Label     string    `gorm:"column:label"`
	Roles     string    `gorm:"column:roles;type:varchar(100)"`
	Status    bool      `gorm:"column:status;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ApiKey) TableName() string {
	return "api_keys"
}
