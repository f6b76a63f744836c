package db

import (
	"fmt"
	"log"

	gormModels "horizonva/opsdesk/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PgDB *gorm.DB

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	PgDB = db
	log.Println("Connected to Postgres via GORM")
	return db, nil
}

// AutoMigrate keeps the schema in step with the models. The sqlx side reads
// the same tables, so the gorm models are the single authority on columns.
func AutoMigrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&gormModels.Pilot{},
		&gormModels.ApiKey{},
		&gormModels.Roster{},
		&gormModels.FlightReport{},
		&gormModels.RouteSource{},
	)
}
