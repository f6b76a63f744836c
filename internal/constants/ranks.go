package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// RankTier is a named seniority level. Ordering is defined solely by the
// position in RankLadder, never by the string itself.
type RankTier string

// RankUnknown is the sentinel for aircraft that match no family in the
// unlock table. It resolves to no ladder index and never passes eligibility.
const RankUnknown RankTier = "unknown"

const (
	RankTrainee            RankTier = "Trainee"
	RankFirstOfficer       RankTier = "First Officer"
	RankSeniorFirstOfficer RankTier = "Senior First Officer"
	RankCaptain            RankTier = "Captain"
	RankSeniorCaptain      RankTier = "Senior Captain"
	RankLineInstructor     RankTier = "Line Instructor"
)

func (t RankTier) String() string { return string(t) }

// Scan implements the sql.Scanner interface
func (t *RankTier) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*t = RankTier(v)
	case []byte:
		*t = RankTier(v)
	default:
		return fmt.Errorf("RankTier: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (t RankTier) Value() (driver.Value, error) { return string(t), nil }

// RankSpec ties a tier to its promotion threshold and member-facing perks.
type RankSpec struct {
	Tier     RankTier
	MinHours float64
	Perks    []string
}

// RankLadder is the full progression, lowest to highest. Promotion and
// eligibility comparisons index into this slice.
var RankLadder = []RankSpec{
	{Tier: RankTrainee, MinHours: 0, Perks: []string{"Turboprop and regional operations"}},
	{Tier: RankFirstOfficer, MinHours: 15, Perks: []string{"Narrowbody mainline fleet"}},
	{Tier: RankSeniorFirstOfficer, MinHours: 40, Perks: []string{"Small widebody fleet", "Partner codeshare legs"}},
	{Tier: RankCaptain, MinHours: 80, Perks: []string{"Long-haul widebody fleet"}},
	{Tier: RankSeniorCaptain, MinHours: 150, Perks: []string{"Flagship superheavy fleet"}},
	{Tier: RankLineInstructor, MinHours: 250, Perks: []string{"All fleets", "Check rides"}},
}

// TierIndex resolves a tier name to its ladder position. Matching is
// case-insensitive so rank-unlock tags from partner sheets resolve too.
func TierIndex(t RankTier) (int, bool) {
	for i, spec := range RankLadder {
		if strings.EqualFold(string(spec.Tier), string(t)) {
			return i, true
		}
	}
	return -1, false
}

// aircraftRankTable maps aircraft-family substrings to the tier required to
// fly them. First hit wins; entries are grouped roughly by fleet weight.
var aircraftRankTable = []struct {
	substrings []string
	tier       RankTier
}{
	{[]string{"ATR", "Q400", "DASH 8", "DHC-6", "C208", "CARAVAN", "TBM"}, RankTrainee},
	{[]string{"A318", "A319", "A320", "A321", "B737", "737", "E175", "E190", "E195", "CRJ"}, RankFirstOfficer},
	{[]string{"A330", "A300", "B757", "757", "B767", "767"}, RankSeniorFirstOfficer},
	{[]string{"B777", "777", "B787", "787", "A350", "A340", "MD-11"}, RankCaptain},
	{[]string{"A380", "B747", "747"}, RankSeniorCaptain},
}

// RankFromAircraft derives the required tier from a free-form aircraft type
// string. Unmatched aircraft get RankUnknown, not an error.
func RankFromAircraft(aircraft string) RankTier {
	upper := strings.ToUpper(aircraft)
	for _, row := range aircraftRankTable {
		for _, sub := range row.substrings {
			if strings.Contains(upper, sub) {
				return row.tier
			}
		}
	}
	return RankUnknown
}
