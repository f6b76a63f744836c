package repositories

import (
	"context"
	"time"

	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// PilotRepository owns the pilots table. Duty and hour mutations only happen
// through the Tx methods, under a row lock taken with GetPilotForUpdate.
type PilotRepository struct {
	db *sqlx.DB
}

func NewPilotRepository(db *sqlx.DB) *PilotRepository {
	return &PilotRepository{db}
}

func (r *PilotRepository) InsertPilot(ctx context.Context, pilot *entities.Pilot) error {
	return r.db.QueryRowxContext(ctx, constants.InsertPilot,
		pilot.ID,
		pilot.Callsign,
		pilot.Name,
		pilot.Rank,
		pilot.Roles,
		pilot.DutyStatus,
		pilot.LastKnownAirport,
	).StructScan(pilot)
}

func (r *PilotRepository) FindPilotByID(ctx context.Context, id string) (*entities.Pilot, error) {
	var pilot entities.Pilot

	err := r.db.QueryRowxContext(ctx, constants.GetPilotByID, id).StructScan(&pilot)
	if err != nil {
		return nil, err
	}

	return &pilot, nil
}

func (r *PilotRepository) FindPilotByCallsign(ctx context.Context, callsign string) (*entities.Pilot, error) {
	var pilot entities.Pilot

	err := r.db.QueryRowxContext(ctx, constants.GetPilotByCallsign, callsign).StructScan(&pilot)
	if err != nil {
		return nil, err
	}

	return &pilot, nil
}

// RunInTx wraps fn in a transaction. Rollback after Commit is a no-op, so the
// deferred call is safe on every path.
func (r *PilotRepository) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// GetPilotForUpdate loads the pilot row under FOR UPDATE. Concurrent duty
// transitions for the same pilot serialize here.
func (r *PilotRepository) GetPilotForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*entities.Pilot, error) {
	var pilot entities.Pilot

	err := tx.QueryRowxContext(ctx, constants.GetPilotForUpdate, id).StructScan(&pilot)
	if err != nil {
		return nil, err
	}

	return &pilot, nil
}

func (r *PilotRepository) SetDutyStart(ctx context.Context, tx *sqlx.Tx, pilotID, rosterID string, startAt time.Time, monthlyHours float64, lastReset time.Time) error {
	_, err := tx.ExecContext(ctx, constants.UpdatePilotDutyStart,
		pilotID, constants.DutyOnDuty, rosterID, startAt, monthlyHours, lastReset)
	return err
}

func (r *PilotRepository) SetDutyEnd(ctx context.Context, tx *sqlx.Tx, pilotID string, offAt time.Time, lastAirport string) error {
	_, err := tx.ExecContext(ctx, constants.UpdatePilotDutyEnd,
		pilotID, constants.DutyResting, offAt, lastAirport)
	return err
}

func (r *PilotRepository) SetForceRest(ctx context.Context, tx *sqlx.Tx, pilotID string, offAt time.Time) error {
	_, err := tx.ExecContext(ctx, constants.UpdatePilotForceRest,
		pilotID, constants.DutyResting, offAt)
	return err
}

// CountRosterReports runs the end-duty completion count inside the caller's
// transaction.
func (r *PilotRepository) CountRosterReports(ctx context.Context, tx *sqlx.Tx, pilotID, rosterID string) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, tx, &count, constants.CountRosterReports, pilotID, rosterID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PilotRepository) DeletePilot(ctx context.Context, tx *sqlx.Tx, pilotID string) error {
	_, err := tx.ExecContext(ctx, constants.DeletePilotByID, pilotID)
	return err
}

// DeleteReportsForPilot clears a pilot's reports as part of account cleanup.
func (r *PilotRepository) DeleteReportsForPilot(ctx context.Context, tx *sqlx.Tx, pilotID string) error {
	_, err := tx.ExecContext(ctx, constants.DeleteReportsForPilot, pilotID)
	return err
}
