package repositories

import (
	"context"

	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

// GetStatus looks a key up by its SHA-256 digest.
func (r *KeysRepo) GetStatus(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, constants.GetStatusByApiKey, keyHash).StructScan(&keyRes)

	if err != nil {
		return nil, err
	}

	return &keyRes, nil
}

func (r *KeysRepo) InsertKey(ctx context.Context, key *entities.ApiKey) error {
	_, err := r.db.ExecContext(ctx, constants.InsertApiKey,
		key.ID, key.PilotID, key.Label, key.Roles)
	return err
}

// DeleteForPilotTx removes a pilot's keys inside the deletion cleanup
// transaction.
func (r *KeysRepo) DeleteForPilotTx(ctx context.Context, tx *sqlx.Tx, pilotID string) error {
	_, err := tx.ExecContext(ctx, constants.DeleteApiKeysForPilot, pilotID)
	return err
}
