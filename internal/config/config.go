package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application-level configuration. Database and Redis
// connection settings are read by their own packages at init time.
type Config struct {
	AppEnv      string
	Port        string
	MetricsPort string

	AirlineName string
	DefaultHub  string

	// Google API access for sheet-backed route sources and the ledger mirror
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	LedgerSpreadsheetID string
	LedgerSheetName     string

	JWTSecret string

	// 0 disables the scheduled generation loop
	RosterGenInterval time.Duration

	Policy FTLPolicy
}

// FTLPolicy carries the flight & duty time limitation knobs. Values are
// validated once at boot; a broken policy is not something to limp along with.
type FTLPolicy struct {
	MinRest             time.Duration
	DailyCeilingHours   float64
	MonthlyCeilingHours float64
	RostersPerAirport   int
	RosterLegsMin       int
	RosterLegsMax       int
	MultiplierMin       float64
	MultiplierMax       float64
}

// Load reads configuration from the environment, loading a .env file first if
// one is present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		AirlineName: getEnv("AIRLINE_NAME", "Horizon Virtual"),
		DefaultHub:  getEnv("DEFAULT_HUB", "VIDP"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		LedgerSpreadsheetID: getEnv("LEDGER_SPREADSHEET_ID", ""),
		LedgerSheetName:     getEnv("LEDGER_SHEET_NAME", "Ledger"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RosterGenInterval: time.Duration(getEnvAsInt("ROSTER_GEN_INTERVAL_MIN", 0)) * time.Minute,

		Policy: FTLPolicy{
			MinRest:             time.Duration(getEnvAsInt("FTL_MIN_REST_MINUTES", 480)) * time.Minute,
			DailyCeilingHours:   getEnvAsFloat("FTL_DAILY_CEILING_HOURS", 10),
			MonthlyCeilingHours: getEnvAsFloat("FTL_MONTHLY_CEILING_HOURS", 100),
			RostersPerAirport:   getEnvAsInt("ROSTERS_PER_AIRPORT", 3),
			RosterLegsMin:       2,
			RosterLegsMax:       4,
			MultiplierMin:       getEnvAsFloat("MULTIPLIER_MIN", 1.10),
			MultiplierMax:       getEnvAsFloat("MULTIPLIER_MAX", 1.50),
		},
	}

	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects policies that would make the duty rules unsatisfiable.
func (p FTLPolicy) Validate() error {
	if p.MinRest <= 0 {
		return fmt.Errorf("ftl policy: minimum rest must be positive, got %s", p.MinRest)
	}
	if p.DailyCeilingHours <= 0 {
		return fmt.Errorf("ftl policy: daily ceiling must be positive, got %.2f", p.DailyCeilingHours)
	}
	if p.MonthlyCeilingHours < p.DailyCeilingHours {
		return fmt.Errorf("ftl policy: monthly ceiling %.2f below daily ceiling %.2f", p.MonthlyCeilingHours, p.DailyCeilingHours)
	}
	if p.RostersPerAirport < 1 {
		return fmt.Errorf("ftl policy: rosters per airport must be at least 1, got %d", p.RostersPerAirport)
	}
	if p.RosterLegsMin < 2 || p.RosterLegsMax < p.RosterLegsMin {
		return fmt.Errorf("ftl policy: invalid leg count bounds [%d, %d]", p.RosterLegsMin, p.RosterLegsMax)
	}
	if p.MultiplierMin < 1 || p.MultiplierMax < p.MultiplierMin {
		return fmt.Errorf("ftl policy: invalid multiplier range [%.2f, %.2f]", p.MultiplierMin, p.MultiplierMax)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
