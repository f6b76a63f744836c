package entities

import "time"

// ApiKey rows store the SHA-256 of the issued key, never the key itself.
type ApiKey struct {
	ID        string    `db:"id"`
	PilotID   *string   `db:"pilot_id"`
	Label     string    `db:"label"`
	Roles     string    `db:"roles"`
	Status    bool      `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
