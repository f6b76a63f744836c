package providers

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/entities"
)

// Canonical column keys used by the header alias table.
const (
	colFlightNumber = "flight_number"
	colDeparture    = "departure"
	colArrival      = "arrival"
	colAircraft     = "aircraft"
	colDuration     = "duration"
	colOperator     = "operator"
	colRankUnlock   = "rank_unlock"
)

// columnAliases maps each canonical column to the labels feeds actually
// use. Matching is case-insensitive on the trimmed cell.
var columnAliases = map[string][]string{
	colFlightNumber: {"flight", "flight no", "flight no.", "flight number", "flight_number", "flt", "flt no", "callsign"},
	colDeparture:    {"dep", "departure", "from", "origin", "dep icao", "departure icao", "departure airport"},
	colArrival:      {"arr", "arrival", "to", "destination", "arr icao", "arrival icao", "arrival airport"},
	colAircraft:     {"aircraft", "aircraft type", "ac", "acft", "type", "equipment"},
	colDuration:     {"duration", "flight time", "flight_time", "flt time", "block time", "time", "ete"},
	colOperator:     {"operator", "airline", "carrier", "operated by"},
	colRankUnlock:   {"rank", "rank unlock", "rank_unlock", "min rank", "required rank", "rank required", "unlock"},
}

// requiredColumns returns the canonical columns a source kind must carry.
// Partner feeds additionally label who operates the leg and what rank it
// unlocks at.
func requiredColumns(kind constants.SourceKind) []string {
	cols := []string{colFlightNumber, colDeparture, colArrival, colAircraft, colDuration}
	if kind == constants.SourcePartner {
		cols = append(cols, colOperator, colRankUnlock)
	}
	return cols
}

// canonicalFor resolves a raw header cell to its canonical column, if any.
func canonicalFor(cell string) (string, bool) {
	label := strings.ToLower(strings.TrimSpace(cell))
	if label == "" {
		return "", false
	}
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if label == alias {
				return canonical, true
			}
		}
	}
	return "", false
}

// FindHeaderRow scans the grid for the first row that covers every
// required column for the source kind. Rows above the header (titles,
// banners) are skipped. Returns the column index map and the header's
// row index, or ok=false when no row qualifies.
func FindHeaderRow(grid [][]string, kind constants.SourceKind) (map[string]int, int, bool) {
	required := requiredColumns(kind)

	for rowIdx, row := range grid {
		cols := make(map[string]int, len(required))
		for cellIdx, cell := range row {
			canonical, ok := canonicalFor(cell)
			if !ok {
				continue
			}
			// First matching cell wins when a label repeats.
			if _, seen := cols[canonical]; !seen {
				cols[canonical] = cellIdx
			}
		}

		covered := true
		for _, col := range required {
			if _, ok := cols[col]; !ok {
				covered = false
				break
			}
		}
		if covered {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

// airportCodePattern matches a 4-letter uppercase code at the start of a
// cell. A fifth letter or a digit glued on means the token is not a code.
var airportCodePattern = regexp.MustCompile(`^([A-Z]{4})\b`)

// ExtractAirportCode pulls the airport code off the front of a cell.
// Trailing annotations ("VIDP - Delhi") are ignored. Input case is
// normalized to uppercase, consistent with the case-insensitive leg
// matching downstream.
func ExtractAirportCode(cell string) (string, bool) {
	m := airportCodePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(cell)))
	if m == nil {
		return "", false
	}
	return m[1], true
}

var hourMinutePattern = regexp.MustCompile(`^(?:(\d+)\s*[hH])?\s*(?:(\d+)\s*[mM])?$`)

// ParseLegDuration converts a duration cell to decimal hours. Accepted
// shapes are clock style ("2:35", "2:35:00") and letter style ("2h35m",
// "3h", "45m"). Bare numbers are ambiguous between hours and minutes and
// do not parse.
func ParseLegDuration(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, false
		}
		hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || hours < 0 {
			return 0, false
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, false
		}
		total := float64(hours) + float64(minutes)/60.0
		if len(parts) == 3 {
			seconds, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil || seconds < 0 || seconds > 59 {
				return 0, false
			}
			total += float64(seconds) / 3600.0
		}
		return total, true
	}

	m := hourMinutePattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false
	}
	var total float64
	if m[1] != "" {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		total += float64(hours)
	}
	if m[2] != "" {
		minutes, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		total += float64(minutes) / 60.0
	}
	return total, true
}

// ParsedGrid is the outcome of normalizing one source's raw grid.
type ParsedGrid struct {
	Legs        []entities.Leg
	RowsScanned int
	RowsDropped int
}

// ParseGrid normalizes a raw cell grid into legs. Rows that cannot be
// normalized are dropped without failing the grid; a missing header row
// surfaces as a typed error the caller records against the source.
func ParseGrid(grid [][]string, kind constants.SourceKind, defaultOperator string) (*ParsedGrid, error) {
	cols, headerIdx, ok := FindHeaderRow(grid, kind)
	if !ok {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNoHeaderRow,
			Message: constants.GetErrorMessage(constants.ErrCodeNoHeaderRow),
		}
	}

	out := &ParsedGrid{}

	for _, row := range grid[headerIdx+1:] {
		out.RowsScanned++

		leg, ok := normalizeRow(row, cols, kind, defaultOperator)
		if !ok {
			out.RowsDropped++
			continue
		}
		out.Legs = append(out.Legs, leg)
	}

	return out, nil
}

// cellAt reads a cell by column index, tolerating ragged short rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeRow(row []string, cols map[string]int, kind constants.SourceKind, defaultOperator string) (entities.Leg, bool) {
	var leg entities.Leg

	leg.FlightNumber = cellAt(row, cols[colFlightNumber])
	if leg.FlightNumber == "" {
		return leg, false
	}

	dep, ok := ExtractAirportCode(cellAt(row, cols[colDeparture]))
	if !ok {
		return leg, false
	}
	arr, ok := ExtractAirportCode(cellAt(row, cols[colArrival]))
	if !ok {
		return leg, false
	}
	leg.Departure = dep
	leg.Arrival = arr

	leg.Aircraft = cellAt(row, cols[colAircraft])
	if leg.Aircraft == "" {
		return leg, false
	}

	hours, ok := ParseLegDuration(cellAt(row, cols[colDuration]))
	if !ok || hours <= 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return leg, false
	}
	leg.FlightTime = hours

	if kind == constants.SourcePartner {
		leg.Operator = cellAt(row, cols[colOperator])
		if leg.Operator == "" {
			leg.Operator = defaultOperator
		}
		// The raw tag is kept even when it names no known tier; rank
		// resolution falls back to the aircraft table at use time.
		leg.RankUnlock = constants.RankTier(cellAt(row, cols[colRankUnlock]))
	} else {
		leg.Operator = defaultOperator
		leg.RankUnlock = constants.RankFromAircraft(leg.Aircraft)
	}

	return leg, true
}
