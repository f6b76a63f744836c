package services

import (
	"math"
	"math/rand"
	"testing"

	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/models/entities"
)

func builderTestPolicy() config.FTLPolicy {
	return config.FTLPolicy{
		DailyCeilingHours: 10,
		RostersPerAirport: 3,
		RosterLegsMin:     2,
		RosterLegsMax:     4,
		MultiplierMin:     1.10,
		MultiplierMax:     1.50,
	}
}

// A small connected network out of VIDP with enough return legs to walk
// several distinct rotations.
func builderTestLegs() []entities.Leg {
	return []entities.Leg{
		{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: 2.1},
		{FlightNumber: "HV102", Departure: "VABB", Arrival: "VIDP", Aircraft: "A320", FlightTime: 2.0},
		{FlightNumber: "HV201", Departure: "VIDP", Arrival: "VOBL", Aircraft: "B737", FlightTime: 2.5},
		{FlightNumber: "HV202", Departure: "VOBL", Arrival: "VIDP", Aircraft: "B737", FlightTime: 2.6},
		{FlightNumber: "HV301", Departure: "VABB", Arrival: "VOBL", Aircraft: "ATR 72", FlightTime: 1.5},
		{FlightNumber: "HV302", Departure: "VOBL", Arrival: "VABB", Aircraft: "ATR 72", FlightTime: 1.4},
		{FlightNumber: "HV401", Departure: "VIDP", Arrival: "VECC", Aircraft: "A321", FlightTime: 2.2},
		{FlightNumber: "HV402", Departure: "VECC", Arrival: "VIDP", Aircraft: "A321", FlightTime: 2.3},
	}
}

func TestSynthesizeRosters_StructuralInvariants(t *testing.T) {
	policy := builderTestPolicy()
	rng := rand.New(rand.NewSource(42))

	rosters := SynthesizeRosters(builderTestLegs(), policy, rng)
	if len(rosters) == 0 {
		t.Fatal("Expected rosters from a connected leg pool")
	}

	for _, roster := range rosters {
		if len(roster.Legs) < policy.RosterLegsMin || len(roster.Legs) > policy.RosterLegsMax {
			t.Errorf("Roster %s has %d legs, expected between %d and %d",
				roster.Name, len(roster.Legs), policy.RosterLegsMin, policy.RosterLegsMax)
		}

		if roster.Hub != roster.Legs[0].Departure {
			t.Errorf("Roster %s hub %s does not match first departure %s",
				roster.Name, roster.Hub, roster.Legs[0].Departure)
		}

		if !roster.Available || !roster.Generated {
			t.Errorf("Roster %s should be available and generated", roster.Name)
		}

		// Legs chain: each departs where the previous one arrived.
		for i := 1; i < len(roster.Legs); i++ {
			if roster.Legs[i].Departure != roster.Legs[i-1].Arrival {
				t.Errorf("Roster %s breaks continuity at leg %d: %s then %s",
					roster.Name, i, roster.Legs[i-1].Arrival, roster.Legs[i].Departure)
			}
		}

		// No flight number twice within a roster.
		seen := make(map[string]bool)
		total := 0.0
		for _, leg := range roster.Legs {
			if seen[leg.FlightNumber] {
				t.Errorf("Roster %s repeats flight number %s", roster.Name, leg.FlightNumber)
			}
			seen[leg.FlightNumber] = true
			total += leg.FlightTime
		}

		if total > policy.DailyCeilingHours {
			t.Errorf("Roster %s totals %.2f hours, above the %.2f ceiling",
				roster.Name, total, policy.DailyCeilingHours)
		}
		if math.Abs(roster.TotalTimeHrs-math.Round(total*100)/100) > 1e-9 {
			t.Errorf("Roster %s stored total %.2f, expected %.2f", roster.Name, roster.TotalTimeHrs, total)
		}

		if roster.Multiplier < policy.MultiplierMin || roster.Multiplier > policy.MultiplierMax {
			t.Errorf("Roster %s multiplier %.2f outside [%.2f, %.2f]",
				roster.Name, roster.Multiplier, policy.MultiplierMin, policy.MultiplierMax)
		}
	}
}

func TestSynthesizeRosters_PerAirportCap(t *testing.T) {
	policy := builderTestPolicy()
	rng := rand.New(rand.NewSource(7))

	rosters := SynthesizeRosters(builderTestLegs(), policy, rng)

	perAirport := make(map[string]int)
	for _, roster := range rosters {
		perAirport[roster.Hub]++
	}
	for airport, count := range perAirport {
		if count > policy.RostersPerAirport {
			t.Errorf("Airport %s has %d rosters, cap is %d", airport, count, policy.RostersPerAirport)
		}
	}
}

func TestSynthesizeRosters_DeterministicUnderSeed(t *testing.T) {
	policy := builderTestPolicy()

	first := SynthesizeRosters(builderTestLegs(), policy, rand.New(rand.NewSource(99)))
	second := SynthesizeRosters(builderTestLegs(), policy, rand.New(rand.NewSource(99)))

	if len(first) != len(second) {
		t.Fatalf("Expected identical counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("Roster %d name differs: %s vs %s", i, first[i].Name, second[i].Name)
		}
		if first[i].Multiplier != second[i].Multiplier {
			t.Errorf("Roster %d multiplier differs: %.2f vs %.2f", i, first[i].Multiplier, second[i].Multiplier)
		}
		if len(first[i].Legs) != len(second[i].Legs) {
			t.Errorf("Roster %d leg count differs: %d vs %d", i, len(first[i].Legs), len(second[i].Legs))
			continue
		}
		for j := range first[i].Legs {
			if first[i].Legs[j].FlightNumber != second[i].Legs[j].FlightNumber {
				t.Errorf("Roster %d leg %d differs: %s vs %s",
					i, j, first[i].Legs[j].FlightNumber, second[i].Legs[j].FlightNumber)
			}
		}
	}
}

func TestSynthesizeRosters_EmptyPool(t *testing.T) {
	rosters := SynthesizeRosters(nil, builderTestPolicy(), rand.New(rand.NewSource(1)))
	if len(rosters) != 0 {
		t.Errorf("Expected no rosters from an empty pool, got %d", len(rosters))
	}
}

func TestSynthesizeRosters_DeadEndAirportProducesNothing(t *testing.T) {
	// One isolated leg cannot reach the two-leg minimum.
	legs := []entities.Leg{
		{FlightNumber: "HV900", Departure: "VOMM", Arrival: "VOHS", Aircraft: "A320", FlightTime: 1.0},
	}

	rosters := SynthesizeRosters(legs, builderTestPolicy(), rand.New(rand.NewSource(3)))
	if len(rosters) != 0 {
		t.Errorf("Expected no rosters from a dead-end pool, got %d", len(rosters))
	}
}

func TestSynthesizeRosters_CeilingExcludesLongLegs(t *testing.T) {
	// The second leg alone would blow the daily ceiling, so walks stop at
	// one leg and no roster forms.
	policy := builderTestPolicy()
	policy.DailyCeilingHours = 3

	legs := []entities.Leg{
		{FlightNumber: "HV801", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: 2.0},
		{FlightNumber: "HV802", Departure: "VABB", Arrival: "VIDP", Aircraft: "A320", FlightTime: 2.0},
	}

	rosters := SynthesizeRosters(legs, policy, rand.New(rand.NewSource(5)))
	if len(rosters) != 0 {
		t.Errorf("Expected ceiling to prevent all rosters, got %d", len(rosters))
	}
}
