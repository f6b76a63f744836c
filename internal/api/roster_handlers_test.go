package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"horizonva/opsdesk/internal/models/dtos"
	"horizonva/opsdesk/internal/models/entities"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

func seedCatalogRoster(t *testing.T, db *gorm.DB) *gormModels.Roster {
	roster := &gormModels.Roster{
		ID:   "roster-1",
		Name: "VIDP rotation 1",
		Hub:  "VIDP",
		Legs: []entities.Leg{
			{FlightNumber: "HV500", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: 1.5},
			{FlightNumber: "HV501", Departure: "VABB", Arrival: "VIDP", Aircraft: "A320", FlightTime: 1.5},
		},
		TotalTimeHrs: 3,
		Multiplier:   1,
		Available:    true,
		Generated:    true,
	}
	if err := db.Create(roster).Error; err != nil {
		t.Fatalf("Failed to seed roster: %v", err)
	}
	return roster
}

func TestListRostersHandler_DispatcherSeesAll(t *testing.T) {
	h, db := newTestHandlers(t)
	seedCatalogRoster(t, db)

	req := httptest.NewRequest("GET", "/api/v1/rosters?all=true", nil)
	req = asDispatcher(req)

	rr := httptest.NewRecorder()
	h.ListRosters().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var response dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status ok, got %s", response.Status)
	}
}

func TestListRostersHandler_MissingClaims(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest("GET", "/api/v1/rosters", nil)

	rr := httptest.NewRecorder()
	h.ListRosters().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestCreateRosterHandler_Created(t *testing.T) {
	h, db := newTestHandlers(t)

	reqBody := dtos.CreateRosterReq{
		Name: "Evening Delhi turn",
		Legs: []dtos.RosterLegReq{
			{FlightNumber: "HV210", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30"},
			{FlightNumber: "HV211", Departure: "VABB", Arrival: "VIDP", Aircraft: "A320", FlightTime: "1:35"},
		},
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/rosters", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req = asDispatcher(req)

	rr := httptest.NewRecorder()
	h.CreateRoster().ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}

	var roster gormModels.Roster
	if err := db.First(&roster, "name = ?", "Evening Delhi turn").Error; err != nil {
		t.Fatalf("Roster not persisted: %v", err)
	}
	if roster.Generated {
		t.Error("Expected a manual roster, got a generated one")
	}
	if roster.CreatedBy == nil || *roster.CreatedBy != "dispatcher-1" {
		t.Error("Expected the claims pilot id as creator")
	}
}

func TestCreateRosterHandler_DiscontinuityDenied(t *testing.T) {
	h, db := newTestHandlers(t)

	reqBody := dtos.CreateRosterReq{
		Name: "Broken chain",
		Legs: []dtos.RosterLegReq{
			{FlightNumber: "HV210", Departure: "VIDP", Arrival: "VABB", Aircraft: "A320", FlightTime: "1:30"},
			{FlightNumber: "HV310", Departure: "VOBL", Arrival: "VIDP", Aircraft: "A320", FlightTime: "2:30"},
		},
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/rosters", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req = asDispatcher(req)

	rr := httptest.NewRecorder()
	h.CreateRoster().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}

	var count int64
	db.Model(&gormModels.Roster{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected nothing persisted, found %d rosters", count)
	}
}

func TestDeleteRosterHandler_Missing(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest("DELETE", "/api/v1/rosters/nope", nil)
	req = asDispatcher(req)
	req = withURLParam(req, "id", "nope")

	rr := httptest.NewRecorder()
	h.DeleteRoster().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}
