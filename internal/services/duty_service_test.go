package services

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/models/dtos"
	"horizonva/opsdesk/internal/models/entities"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

// mockPilotStore drives the lifecycle transitions without Postgres. RunInTx
// hands the callback a nil transaction; the store funcs ignore it. Funcs a
// test leaves nil panic when reached, which is the assertion that a denial
// path stopped before mutating anything.
type mockPilotStore struct {
	insertFunc         func(ctx context.Context, pilot *entities.Pilot) error
	findByIDFunc       func(ctx context.Context, id string) (*entities.Pilot, error)
	findByCallsignFunc func(ctx context.Context, callsign string) (*entities.Pilot, error)
	getForUpdateFunc   func(ctx context.Context, id string) (*entities.Pilot, error)
	setDutyStartFunc   func(pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error
	setDutyEndFunc     func(pilotID string, offAt time.Time, lastAirport string) error
	setForceRestFunc   func(pilotID string, offAt time.Time) error
	countReportsFunc   func(pilotID, rosterID string) (int, error)
	deletePilotFunc    func(pilotID string) error
	deleteReportsFunc  func(pilotID string) error
}

func (m *mockPilotStore) InsertPilot(ctx context.Context, pilot *entities.Pilot) error {
	return m.insertFunc(ctx, pilot)
}

func (m *mockPilotStore) FindPilotByID(ctx context.Context, id string) (*entities.Pilot, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockPilotStore) FindPilotByCallsign(ctx context.Context, callsign string) (*entities.Pilot, error) {
	return m.findByCallsignFunc(ctx, callsign)
}

func (m *mockPilotStore) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func (m *mockPilotStore) GetPilotForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*entities.Pilot, error) {
	return m.getForUpdateFunc(ctx, id)
}

func (m *mockPilotStore) SetDutyStart(ctx context.Context, tx *sqlx.Tx, pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error {
	return m.setDutyStartFunc(pilotID, rosterID, startAt, monthlyHours, lastReset)
}

func (m *mockPilotStore) SetDutyEnd(ctx context.Context, tx *sqlx.Tx, pilotID string, offAt time.Time, lastAirport string) error {
	return m.setDutyEndFunc(pilotID, offAt, lastAirport)
}

func (m *mockPilotStore) SetForceRest(ctx context.Context, tx *sqlx.Tx, pilotID string, offAt time.Time) error {
	return m.setForceRestFunc(pilotID, offAt)
}

func (m *mockPilotStore) CountRosterReports(ctx context.Context, tx *sqlx.Tx, pilotID, rosterID string) (int, error) {
	return m.countReportsFunc(pilotID, rosterID)
}

func (m *mockPilotStore) DeletePilot(ctx context.Context, tx *sqlx.Tx, pilotID string) error {
	return m.deletePilotFunc(pilotID)
}

func (m *mockPilotStore) DeleteReportsForPilot(ctx context.Context, tx *sqlx.Tx, pilotID string) error {
	return m.deleteReportsFunc(pilotID)
}

func dutyTestPolicy() config.FTLPolicy {
	policy := builderTestPolicy()
	policy.MinRest = 8 * time.Hour
	policy.MonthlyCeilingHours = 100
	return policy
}

func restingPilot(rank constants.RankTier) *entities.Pilot {
	return &entities.Pilot{
		ID:               "pilot-1",
		Callsign:         "HVA001",
		Name:             "Test Pilot",
		Rank:             rank,
		Roles:            "pilot",
		DutyStatus:       constants.DutyResting,
		LastHourReset:    time.Now().UTC(),
		LastKnownAirport: "VIDP",
	}
}

func storeReturning(pilot *entities.Pilot) *mockPilotStore {
	return &mockPilotStore{
		getForUpdateFunc: func(ctx context.Context, id string) (*entities.Pilot, error) {
			return pilot, nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*entities.Pilot, error) {
			return pilot, nil
		},
	}
}

func TestMatchRosterLeg_ExactMatch(t *testing.T) {
	roster := &gormModels.Roster{
		Legs: []entities.Leg{
			{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB"},
			{FlightNumber: "HV102", Departure: "VABB", Arrival: "VIDP"},
		},
	}

	idx, ok := matchRosterLeg(roster, "HV102", "VABB", "VIDP")
	if !ok {
		t.Fatal("Expected a match")
	}
	if idx != 1 {
		t.Errorf("Expected leg index 1, got %d", idx)
	}
}

func TestMatchRosterLeg_CaseInsensitive(t *testing.T) {
	roster := &gormModels.Roster{
		Legs: []entities.Leg{
			{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB"},
		},
	}

	if _, ok := matchRosterLeg(roster, "hv101", "vidp", "vabb"); !ok {
		t.Error("Expected matching to ignore case")
	}
}

func TestMatchRosterLeg_NoMatch(t *testing.T) {
	roster := &gormModels.Roster{
		Legs: []entities.Leg{
			{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB"},
		},
	}

	if _, ok := matchRosterLeg(roster, "HV101", "VIDP", "VOBL"); ok {
		t.Error("Expected no match for a different arrival")
	}
}

func TestMatchRosterLeg_AmbiguousMatchesNothing(t *testing.T) {
	// The same leg twice, as a malformed sheet could produce.
	roster := &gormModels.Roster{
		Legs: []entities.Leg{
			{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB"},
			{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB"},
		},
	}

	if _, ok := matchRosterLeg(roster, "HV101", "VIDP", "VABB"); ok {
		t.Error("Expected an ambiguous claim to match nothing")
	}
}

func TestFileReport_ValidationDenials(t *testing.T) {
	service := NewDutyService(nil, nil, nil, testMetrics, builderTestPolicy())

	cases := []struct {
		name string
		req  dtos.FileReportReq
	}{
		{"missing flight number", dtos.FileReportReq{Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30"}},
		{"bad departure", dtos.FileReportReq{FlightNumber: "HV101", Departure: "Delhi", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30"}},
		{"bad arrival", dtos.FileReportReq{FlightNumber: "HV101", Departure: "VIDP", Arrival: "Mumbai", Aircraft: "A320", FlightTime: "1:30"}},
		{"missing aircraft", dtos.FileReportReq{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB", FlightTime: "1:30"}},
		{"bare number duration", dtos.FileReportReq{FlightNumber: "HV101", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "90"}},
	}

	for _, tc := range cases {
		resp, err := service.FileReport(context.Background(), "pilot-1", &tc.req)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
		if resp.Denial == nil || resp.Denial.Code != string(constants.DenialInvalidRequest) {
			t.Errorf("%s: expected INVALID_REQUEST, got %+v", tc.name, resp.Denial)
		}
	}
}

func TestStartDuty_RosterNotFound(t *testing.T) {
	db := setupCatalogDB(t)
	service := NewDutyService(nil, repositories.NewRosterRepository(db), nil, testMetrics, builderTestPolicy())

	resp, err := service.StartDuty(context.Background(), "pilot-1", "no-such-roster")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialRosterNotFound) {
		t.Fatalf("Expected ROSTER_NOT_FOUND, got %+v", resp.Denial)
	}
}

func TestStartDuty_UnavailableRosterHidden(t *testing.T) {
	db := setupCatalogDB(t)

	roster := seedRoster(t, db, "VIDP", "A320")
	if err := db.Model(&gormModels.Roster{}).Where("id = ?", roster.ID).Update("available", false).Error; err != nil {
		t.Fatalf("Failed to retire roster: %v", err)
	}

	service := NewDutyService(nil, repositories.NewRosterRepository(db), nil, testMetrics, builderTestPolicy())

	resp, err := service.StartDuty(context.Background(), "pilot-1", roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialRosterNotFound) {
		t.Fatalf("Expected ROSTER_NOT_FOUND for a retired roster, got %+v", resp.Denial)
	}
}

func TestStartDuty_DeniedWhileOnDuty(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty

	service := NewDutyService(storeReturning(pilot), repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialNotResting) {
		t.Fatalf("Expected NOT_RESTING, got %+v", resp.Denial)
	}
}

func TestStartDuty_RestRemaining(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	off := time.Now().UTC().Add(-7 * time.Hour)
	pilot.LastDutyOff = &off

	service := NewDutyService(storeReturning(pilot), repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialRestRemaining) {
		t.Fatalf("Expected REST_REMAINING, got %+v", resp.Denial)
	}
	if resp.Denial.RemainingMinutes != 60 {
		t.Errorf("Expected 60 minutes remaining after 7 of 8 rest hours, got %d", resp.Denial.RemainingMinutes)
	}
}

func TestStartDuty_AcceptedOnceRestElapsed(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	off := time.Now().UTC().Add(-8 * time.Hour)
	pilot.LastDutyOff = &off

	store := storeReturning(pilot)
	var boundPilot, boundRoster string
	store.setDutyStartFunc = func(pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error {
		boundPilot = pilotID
		boundRoster = rosterID
		return nil
	}

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected duty start at the rest boundary, got %+v", resp.Denial)
	}
	if boundPilot != pilot.ID || boundRoster != roster.ID {
		t.Errorf("Expected binding %s to %s, got %s to %s", pilot.ID, roster.ID, boundPilot, boundRoster)
	}
	if resp.Roster == nil || resp.Roster.ID != roster.ID {
		t.Error("Expected the accepted roster in the response")
	}
}

func TestStartDuty_MonthlyCeilingDenied(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320") // 3.0 hours

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.MonthlyFlightHours = 97.5

	service := NewDutyService(storeReturning(pilot), repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialMonthlyCeiling) {
		t.Fatalf("Expected MONTHLY_CEILING, got %+v", resp.Denial)
	}
}

func TestStartDuty_AcceptedAtExactMonthlyCeiling(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.MonthlyFlightHours = 97 // 97 + 3.0 lands exactly on the 100h ceiling

	store := storeReturning(pilot)
	var storedMonthly float64
	store.setDutyStartFunc = func(pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error {
		storedMonthly = monthlyHours
		return nil
	}

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected acceptance at the exact ceiling, got %+v", resp.Denial)
	}
	if storedMonthly != 97 {
		t.Errorf("Expected monthly hours stored unchanged at 97, got %.2f", storedMonthly)
	}
}

func TestStartDuty_DailyCeilingDenied(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DailyFlightHours = 7.5

	service := NewDutyService(storeReturning(pilot), repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialDailyCeiling) {
		t.Fatalf("Expected DAILY_CEILING, got %+v", resp.Denial)
	}
}

func TestStartDuty_AcceptedAtExactDailyCeiling(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DailyFlightHours = 7 // 7 + 3.0 lands exactly on the 10h ceiling

	store := storeReturning(pilot)
	store.setDutyStartFunc = func(pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error {
		return nil
	}

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected acceptance at the exact daily ceiling, got %+v", resp.Denial)
	}
}

func TestStartDuty_MonthlyRolloverResetsCounter(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	// 99 monthly hours would block the start, but the reset stamp is over a
	// month old, so the counter rolls to zero first.
	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.MonthlyFlightHours = 99
	pilot.LastHourReset = time.Now().UTC().AddDate(0, -2, 0)

	store := storeReturning(pilot)
	var storedMonthly float64
	var storedReset time.Time
	store.setDutyStartFunc = func(pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error {
		storedMonthly = monthlyHours
		storedReset = lastReset
		return nil
	}

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected the stale monthly counter to roll over, got %+v", resp.Denial)
	}
	if storedMonthly != 0 {
		t.Errorf("Expected monthly hours zeroed, got %.2f", storedMonthly)
	}
	if !storedReset.After(pilot.LastHourReset) {
		t.Error("Expected a fresh reset stamp")
	}
}

func TestStartDuty_RankBlockedNamesFirstLeg(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320") // A320 legs need First Officer

	pilot := restingPilot(constants.RankTrainee)

	service := NewDutyService(storeReturning(pilot), repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.StartDuty(context.Background(), pilot.ID, roster.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialRankBlocked) {
		t.Fatalf("Expected RANK_BLOCKED, got %+v", resp.Denial)
	}
	if resp.Denial.BlockedLeg != "HV500" {
		t.Errorf("Expected the first leg HV500 named, got %q", resp.Denial.BlockedLeg)
	}
	if resp.Denial.RequiredRank != string(constants.RankFirstOfficer) {
		t.Errorf("Expected required rank First Officer, got %q", resp.Denial.RequiredRank)
	}
}

func TestFileReport_OnDutyNoMatchingLeg(t *testing.T) {
	db := setupReviewDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	resp, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV999", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialNoMatchingLeg) {
		t.Fatalf("Expected NO_MATCHING_LEG, got %+v", resp.Denial)
	}
}

func TestFileReport_DuplicateLegWhateverPriorStatus(t *testing.T) {
	db := setupReviewDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	// A rejected attempt at the same leg still blocks a refile.
	prior := &gormModels.FlightReport{
		ID:           "report-prior",
		PilotID:      pilot.ID,
		FlightNumber: "HV500",
		Departure:    "VIDP",
		Arrival:      "VABB",
		Aircraft:     "A320",
		ClaimedHours: 1.5,
		RosterID:     &rosterID,
		Status:       constants.ReportRejected,
	}
	if err := db.Create(prior).Error; err != nil {
		t.Fatalf("Failed to seed prior report: %v", err)
	}

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	resp, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV500", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialDuplicateLeg) {
		t.Fatalf("Expected DUPLICATE_LEG, got %+v", resp.Denial)
	}
}

func TestFileReport_UniqueIndexBacksUpDuplicateGuard(t *testing.T) {
	db := setupReviewDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	// A rival filing for the same leg lands between the duplicate pre-check
	// and the insert. The callback fires once, just before this filing's row
	// is written, so the pre-check has already come back clean.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_filing", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*gormModels.FlightReport); !ok {
			return
		}
		raced = true
		rival := &gormModels.FlightReport{
			ID:           "report-rival",
			PilotID:      pilot.ID,
			FlightNumber: "HV500",
			Departure:    "VIDP",
			Arrival:      "VABB",
			Aircraft:     "A320",
			ClaimedHours: 1.5,
			RosterID:     &rosterID,
			Status:       constants.ReportPending,
		}
		if err := db.Create(rival).Error; err != nil {
			t.Errorf("Rival insert failed: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	resp, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV500", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30",
	})
	if err != nil {
		t.Fatalf("Expected the lost race to surface as a denial, got error %v", err)
	}
	if !raced {
		t.Fatal("Expected the rival filing to run before the insert")
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialDuplicateLeg) {
		t.Fatalf("Expected DUPLICATE_LEG from the unique index, got %+v", resp.Denial)
	}

	// Only the rival's row made it in.
	var count int64
	db.Model(&gormModels.FlightReport{}).Where("pilot_id = ? AND roster_id = ?", pilot.ID, rosterID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 report for the leg, got %d", count)
	}
}

func TestFileReport_LowercaseAirportCodesMatch(t *testing.T) {
	db := setupReviewDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	resp, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV500", Departure: "vidp - Indira Gandhi Intl", Arrival: "vabb", Aircraft: "A320", FlightTime: "1:30",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected lowercase codes to normalize and match, got %+v", resp.Denial)
	}
	if resp.Report.Departure != "VIDP" || resp.Report.Arrival != "VABB" {
		t.Errorf("Expected codes stored uppercase, got %s and %s", resp.Report.Departure, resp.Report.Arrival)
	}
}

func TestFileReport_MultiplierEligibilityByPosition(t *testing.T) {
	db := setupReviewDB(t)
	roster := seedRoster(t, db, "VIDP", "A320")

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	first, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV500", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !first.Accepted || first.Report.MultiplierEligible {
		t.Errorf("Expected the opening leg accepted without the bonus, got %+v", first)
	}

	final, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV501", Departure: "VABB", Arrival: "VIDP", Aircraft: "A320", FlightTime: "1:30",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !final.Accepted || !final.Report.MultiplierEligible {
		t.Errorf("Expected the closing leg to carry the bonus flag, got %+v", final)
	}

	var stored gormModels.FlightReport
	if err := db.Where("flight_number = ?", "HV501").First(&stored).Error; err != nil {
		t.Fatalf("Failed to load stored report: %v", err)
	}
	if stored.RosterID == nil || *stored.RosterID != roster.ID {
		t.Error("Expected the report linked to the bound roster")
	}
	if !stored.MultiplierEligible {
		t.Error("Expected the stored report flagged multiplier-eligible")
	}
}

func TestFileReport_AdhocWhileResting(t *testing.T) {
	db := setupReviewDB(t)

	pilot := restingPilot(constants.RankFirstOfficer)

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	resp, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV800", Departure: "VIDP", Arrival: "VECC", Aircraft: "A320", FlightTime: "2:10",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected an ad-hoc filing to go through, got %+v", resp.Denial)
	}
	if resp.Report.RosterID != nil {
		t.Error("Expected no roster linkage on an ad-hoc report")
	}
	if resp.Report.Status != string(constants.ReportPending) {
		t.Errorf("Expected PENDING, got %s", resp.Report.Status)
	}
}

func TestFileReport_AdhocRankBlocked(t *testing.T) {
	db := setupReviewDB(t)

	pilot := restingPilot(constants.RankTrainee)

	service := NewDutyService(storeReturning(pilot),
		repositories.NewRosterRepository(db), repositories.NewReportRepository(db), testMetrics, dutyTestPolicy())

	resp, err := service.FileReport(context.Background(), pilot.ID, &dtos.FileReportReq{
		FlightNumber: "HV900", Departure: "VIDP", Arrival: "OMDB", Aircraft: "B777", FlightTime: "3:40",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialRankBlocked) {
		t.Fatalf("Expected RANK_BLOCKED, got %+v", resp.Denial)
	}
	if resp.Denial.RequiredRank != string(constants.RankCaptain) {
		t.Errorf("Expected required rank Captain for a B777, got %q", resp.Denial.RequiredRank)
	}
}

func TestEndDuty_NotOnDuty(t *testing.T) {
	db := setupCatalogDB(t)

	pilot := restingPilot(constants.RankFirstOfficer)

	service := NewDutyService(storeReturning(pilot), repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.EndDuty(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialNotOnDuty) {
		t.Fatalf("Expected NOT_ON_DUTY, got %+v", resp.Denial)
	}
}

func TestEndDuty_ReportsIncompleteProgress(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320") // two legs

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	store := storeReturning(pilot)
	store.countReportsFunc = func(pilotID, rID string) (int, error) { return 1, nil }

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.EndDuty(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialReportsIncomplete) {
		t.Fatalf("Expected REPORTS_INCOMPLETE, got %+v", resp.Denial)
	}
	if resp.Denial.Filed != 1 || resp.Denial.Required != 2 {
		t.Errorf("Expected progress 1 of 2, got %d of %d", resp.Denial.Filed, resp.Denial.Required)
	}
}

func TestEndDuty_CompletesAndLandsAtFinalArrival(t *testing.T) {
	db := setupCatalogDB(t)
	roster := seedRoster(t, db, "VIDP", "A320") // final leg arrives back at VIDP

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	pilot.LastDutyAirport = "VABB"
	rosterID := roster.ID
	pilot.CurrentRosterID = &rosterID

	store := storeReturning(pilot)
	store.countReportsFunc = func(pilotID, rID string) (int, error) { return 2, nil }
	var landedAt string
	store.setDutyEndFunc = func(pilotID string, offAt time.Time, lastAirport string) error {
		landedAt = lastAirport
		return nil
	}

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.EndDuty(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected duty end once every leg is filed, got %+v", resp.Denial)
	}
	if landedAt != "VIDP" {
		t.Errorf("Expected last duty airport VIDP, got %q", landedAt)
	}
}

func TestEndDuty_VanishedRosterWaivesGate(t *testing.T) {
	db := setupCatalogDB(t) // nothing seeded, the bound roster is gone

	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	pilot.LastDutyAirport = "VOBL"
	goneID := "swept-away"
	pilot.CurrentRosterID = &goneID

	store := storeReturning(pilot)
	var landedAt string
	store.setDutyEndFunc = func(pilotID string, offAt time.Time, lastAirport string) error {
		landedAt = lastAirport
		return nil
	}

	service := NewDutyService(store, repositories.NewRosterRepository(db), nil, testMetrics, dutyTestPolicy())

	resp, err := service.EndDuty(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected the completion gate waived for a vanished roster, got %+v", resp.Denial)
	}
	if landedAt != "VOBL" {
		t.Errorf("Expected the last duty airport left at VOBL, got %q", landedAt)
	}
}

func TestForceRest_UnblocksOnDutyPilot(t *testing.T) {
	pilot := restingPilot(constants.RankFirstOfficer)
	pilot.DutyStatus = constants.DutyOnDuty
	rosterID := "stuck-roster"
	pilot.CurrentRosterID = &rosterID

	store := storeReturning(pilot)
	var rested string
	store.setForceRestFunc = func(pilotID string, offAt time.Time) error {
		rested = pilotID
		return nil
	}

	service := NewDutyService(store, nil, nil, testMetrics, dutyTestPolicy())

	resp, err := service.ForceRest(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("Expected the override to land, got %+v", resp.Denial)
	}
	if rested != pilot.ID {
		t.Errorf("Expected %s force-rested, got %q", pilot.ID, rested)
	}
}

func TestForceRest_RestingDenied(t *testing.T) {
	pilot := restingPilot(constants.RankFirstOfficer)

	service := NewDutyService(storeReturning(pilot), nil, nil, testMetrics, dutyTestPolicy())

	resp, err := service.ForceRest(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Denial == nil || resp.Denial.Code != string(constants.DenialNotOnDuty) {
		t.Fatalf("Expected NOT_ON_DUTY for a resting pilot, got %+v", resp.Denial)
	}
}
