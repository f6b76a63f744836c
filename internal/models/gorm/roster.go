package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"horizonva/opsdesk/internal/models/entities"
)

// LegList serializes a roster's ordered legs as a single JSON column, jsonb
// on Postgres and plain text under the sqlite test driver.
type LegList []entities.Leg

// Value implements the driver.Valuer interface
func (l LegList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *LegList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("LegList: cannot scan type %T", src)
	}
}

type Roster struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	Name          string    `gorm:"column:name"`
	Hub           string    `gorm:"column:hub;type:varchar(4);index"`
	Legs          LegList   `gorm:"column:legs;type:jsonb"`
	TotalTimeHrs  float64   `gorm:"column:total_time_hrs;type:numeric(10,2)"`
	Multiplier    float64   `gorm:"column:multiplier;type:numeric(4,2);default:1"`
	Available     bool      `gorm:"column:available;default:true"`
	Generated     bool      `gorm:"column:generated;index"`
	CreatedBy     *string   `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Roster) TableName() string {
	return "rosters"
}

// FinalLeg returns the last leg, the one a roster's multiplier applies to.
func (r *Roster) FinalLeg() *entities.Leg {
	if len(r.Legs) == 0 {
		return nil
	}
	return &r.Legs[len(r.Legs)-1]
}
