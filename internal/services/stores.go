package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"horizonva/opsdesk/internal/models/entities"
)

// PilotStore is the pilot-table access the registry and the duty machine
// consume. *repositories.PilotRepository implements it against Postgres.
// The Tx methods must only run inside a RunInTx callback, after the row has
// been taken with GetPilotForUpdate.
type PilotStore interface {
	InsertPilot(ctx context.Context, pilot *entities.Pilot) error
	FindPilotByID(ctx context.Context, id string) (*entities.Pilot, error)
	FindPilotByCallsign(ctx context.Context, callsign string) (*entities.Pilot, error)

	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	GetPilotForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*entities.Pilot, error)
	SetDutyStart(ctx context.Context, tx *sqlx.Tx, pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error
	SetDutyEnd(ctx context.Context, tx *sqlx.Tx, pilotID string, offAt time.Time, lastAirport string) error
	SetForceRest(ctx context.Context, tx *sqlx.Tx, pilotID string, offAt time.Time) error
	CountRosterReports(ctx context.Context, tx *sqlx.Tx, pilotID, rosterID string) (int, error)
	DeletePilot(ctx context.Context, tx *sqlx.Tx, pilotID string) error
	DeleteReportsForPilot(ctx context.Context, tx *sqlx.Tx, pilotID string) error
}

// KeyStore is the slice of the API-key repository that account cleanup needs.
type KeyStore interface {
	DeleteForPilotTx(ctx context.Context, tx *sqlx.Tx, pilotID string) error
}
