package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"horizonva/opsdesk/internal/constants"
)

// SourceConfig is the provider-specific half of a route source: a sheet
// reference for google_sheets, a URL for http_csv.
type SourceConfig struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	Range         string `json:"range,omitempty"`
	URL           string `json:"url,omitempty"`
}

// Value implements the driver.Valuer interface
func (c SourceConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface
func (c *SourceConfig) Scan(src interface{}) error {
	if src == nil {
		*c = SourceConfig{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("SourceConfig: cannot scan type %T", src)
	}
}

// RouteSource is one configured external schedule feed.
type RouteSource struct {
	ID        string                 `gorm:"column:id;primaryKey;type:uuid"`
	Name      string                 `gorm:"column:name;uniqueIndex"`
	Kind      constants.SourceKind   `gorm:"column:kind;type:varchar(20);not null"`
	Provider  constants.ProviderKind `gorm:"column:provider;type:varchar(20);not null"`
	Config    SourceConfig           `gorm:"column:config;type:jsonb"`
	Active    bool                   `gorm:"column:active;default:true;index"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (RouteSource) TableName() string {
	return "route_sources"
}
