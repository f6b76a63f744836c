package constants

import (
	"database/sql/driver"
	"fmt"
)

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixRosters    CachePrefix = "ROSTERS_"
	CachePrefixPilotStats CachePrefix = "PILOT_STATS_"
)

// DutyStatus mirrors the pilots.duty_status column
type DutyStatus string

const (
	DutyResting DutyStatus = "RESTING"
	DutyOnDuty  DutyStatus = "ON_DUTY"
)

func (s DutyStatus) String() string { return string(s) }

// Scan implements the sql.Scanner interface
func (s *DutyStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = DutyStatus(v)
	case []byte:
		*s = DutyStatus(v)
	default:
		return fmt.Errorf("DutyStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s DutyStatus) Value() (driver.Value, error) { return string(s), nil }

// ReportStatus is the one-way PIREP state: PENDING then APPROVED or REJECTED.
type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportApproved ReportStatus = "APPROVED"
	ReportRejected ReportStatus = "REJECTED"
)

func (s ReportStatus) String() string { return string(s) }

// SourceKind distinguishes the airline's own schedules from partner feeds,
// which carry the extra operator and rank-unlock columns.
type SourceKind string

const (
	SourcePrimary SourceKind = "primary"
	SourcePartner SourceKind = "partner"
)

// ProviderKind selects the transport used to pull a route source's grid.
type ProviderKind string

const (
	ProviderGoogleSheets ProviderKind = "google_sheets"
	ProviderHTTPCSV      ProviderKind = "http_csv"
)
