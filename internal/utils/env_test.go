package utils

import (
	"os"
	"testing"
	"time"
)

func TestSafeEnv(t *testing.T) {
	const key = "_IMPACT_TEST_SAFEENV"
	os.Unsetenv(key)
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv(key, "value")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestEnvDuration(t *testing.T) {
	const key = "_IMPACT_TEST_DURATION"
	t.Setenv(key, "90s")
	if got := EnvDuration(key, time.Minute); got != 90*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv(key, "soon")
	if got := EnvDuration(key, time.Minute); got != time.Minute {
		t.Fatalf("invalid value should fall back, got %v", got)
	}
}

func TestEnvList(t *testing.T) {
	const key = "_IMPACT_TEST_LIST"
	t.Setenv(key, " a, ,b ,")
	got := EnvList(key)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %q", got)
	}
}
