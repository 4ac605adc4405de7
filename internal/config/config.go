package config

import (
	"strconv"
	"time"

	"github.com/impactasaurus/impact/internal/utils"
)

// Config is read once from IMPACT_* environment variables at startup.
type Config struct {
	Addr          string
	DBPath        string
	MigrationsDir string
	SeedFile      string
	IDPSecret     string
	IDPAudience   string
	CORSOrigins   []string
	SessionTTL    time.Duration
	EventBuffer   int
	Commit        string
	BuildTime     string
}

func Load() Config {
	buffer, err := strconv.Atoi(utils.SafeEnv("IMPACT_EVENT_BUFFER", "64"))
	if err != nil || buffer <= 0 {
		buffer = 64
	}
	return Config{
		Addr:          utils.SafeEnv("IMPACT_ADDR", ":8080"),
		DBPath:        utils.SafeEnv("IMPACT_DB_PATH", ""),
		MigrationsDir: utils.SafeEnv("IMPACT_MIGRATIONS_DIR", ""),
		SeedFile:      utils.SafeEnv("IMPACT_SEED_FILE", ""),
		IDPSecret:     utils.SafeEnv("IMPACT_IDP_SECRET", ""),
		IDPAudience:   utils.SafeEnv("IMPACT_IDP_AUDIENCE", ""),
		CORSOrigins:   utils.EnvList("IMPACT_CORS_ORIGINS"),
		SessionTTL:    utils.EnvDuration("IMPACT_SESSION_TTL", 12*time.Hour),
		EventBuffer:   buffer,
		Commit:        utils.SafeEnv("IMPACT_COMMIT", "dev"),
		BuildTime:     utils.SafeEnv("IMPACT_BUILD_TIME", ""),
	}
}

// UsesSQLite reports whether a database path was configured; otherwise data
// lives in memory for the life of the process.
func (c Config) UsesSQLite() bool { return c.DBPath != "" }
