package constants

const (
	GetPilotByID = `
	SELECT * FROM pilots WHERE id = $1
	`

	GetPilotByCallsign = `
	SELECT * FROM pilots WHERE LOWER(callsign) = LOWER($1)
	`

	// Row lock for duty transitions and review crediting. Every mutation of a
	// pilot's duty or hour state happens inside a transaction holding this.
	GetPilotForUpdate = `
	SELECT * FROM pilots WHERE id = $1 FOR UPDATE
	`

	InsertPilot = `
	INSERT INTO pilots (
		id, callsign, name, rank, roles, flight_hours, daily_flight_hours,
		monthly_flight_hours, duty_status, last_hour_reset, last_known_airport,
		last_duty_airport, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, 0, 0, 0, $6, NOW(), $7, '', NOW(), NOW())
	RETURNING created_at, updated_at
	`

	// Counts filed (not rejected) reports against a roster. Runs inside the
	// end-duty transaction so the gate and the transition commit together.
	CountRosterReports = `
	SELECT COUNT(*) FROM flight_reports
	WHERE pilot_id = $1 AND roster_id = $2 AND status IN ('PENDING', 'APPROVED')
	`

	UpdatePilotDutyStart = `
	UPDATE pilots SET
		duty_status = $2,
		current_roster_id = $3,
		last_duty_start = $4,
		monthly_flight_hours = $5,
		last_hour_reset = $6,
		updated_at = NOW()
	WHERE id = $1
	`

	UpdatePilotDutyEnd = `
	UPDATE pilots SET
		duty_status = $2,
		current_roster_id = NULL,
		last_duty_start = NULL,
		last_duty_off = $3,
		last_duty_airport = $4,
		daily_flight_hours = 0,
		updated_at = NOW()
	WHERE id = $1
	`

	// Force-rest keeps last_duty_airport untouched since no roster completed.
	UpdatePilotForceRest = `
	UPDATE pilots SET
		duty_status = $2,
		current_roster_id = NULL,
		last_duty_start = NULL,
		last_duty_off = $3,
		daily_flight_hours = 0,
		updated_at = NOW()
	WHERE id = $1
	`

	DeletePilotByID = `
	DELETE FROM pilots WHERE id = $1
	`

	// Account cleanup removes reports through the same sqlx transaction that
	// removes the pilot, so a crash cannot leave orphaned reports behind.
	DeleteReportsForPilot = `
	DELETE FROM flight_reports WHERE pilot_id = $1
	`

	GetStatusByApiKey = `
	SELECT * FROM api_keys WHERE id = $1
	`

	InsertApiKey = `
	INSERT INTO api_keys (id, pilot_id, label, roles, status, created_at)
	VALUES ($1, $2, $3, $4, TRUE, NOW())
	`

	DeleteApiKeysForPilot = `
	DELETE FROM api_keys WHERE pilot_id = $1
	`
)
