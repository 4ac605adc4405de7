package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"IMPACT_ADDR", "IMPACT_DB_PATH", "IMPACT_SESSION_TTL", "IMPACT_EVENT_BUFFER", "IMPACT_CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Addr != ":8080" || c.UsesSQLite() || c.SessionTTL != 12*time.Hour || c.EventBuffer != 64 || len(c.CORSOrigins) != 0 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IMPACT_ADDR", ":9000")
	t.Setenv("IMPACT_DB_PATH", "/tmp/impact.db")
	t.Setenv("IMPACT_SESSION_TTL", "30m")
	t.Setenv("IMPACT_EVENT_BUFFER", "nope")
	t.Setenv("IMPACT_CORS_ORIGINS", "https://a.example, https://b.example")
	c := Load()
	if c.Addr != ":9000" || !c.UsesSQLite() || c.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.EventBuffer != 64 {
		t.Fatalf("invalid buffer should fall back, got %d", c.EventBuffer)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %q", c.CORSOrigins)
	}
}
