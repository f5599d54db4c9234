package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"BANK_PATH", "RESULTS_BACKEND", "SECONDS_PER_QUESTION", "DEFAULT_QUESTION_COUNT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "problems_database.json", cfg.BankPath)
	assert.Equal(t, BackendFile, cfg.ResultsBackend)
	assert.Equal(t, 180, cfg.SecondsPerQuestion)
	assert.Equal(t, 5, cfg.DefaultQuestionCount)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	os.Unsetenv("BANK_PATH")
	os.Unsetenv("GRACE_PERIOD_SECONDS")
	t.Cleanup(func() {
		os.Unsetenv("BANK_PATH")
		os.Unsetenv("GRACE_PERIOD_SECONDS")
	})

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BANK_PATH=bank.json\nGRACE_PERIOD_SECONDS=2\n"), 0644))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "bank.json", cfg.BankPath)
	assert.Equal(t, 2, cfg.GracePeriodSeconds)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Setenv("SECONDS_PER_QUESTION", "soon")
	t.Setenv("RESULTS_BACKEND", "file")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 180, cfg.SecondsPerQuestion)

	t.Setenv("RESULTS_BACKEND", "mongo")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfigGracePeriodMayBeZero(t *testing.T) {
	t.Setenv("RESULTS_BACKEND", "file")
	t.Setenv("GRACE_PERIOD_SECONDS", "0")
	t.Setenv("SECONDS_PER_QUESTION", "0")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.GracePeriodSeconds)
	assert.Equal(t, 180, cfg.SecondsPerQuestion)

	t.Setenv("GRACE_PERIOD_SECONDS", "-3")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.GracePeriodSeconds)
}
