package config

import (
	"testing"
	"time"

	"cutoffrank/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DATASET_URL", "DATASET_SHEET", "DATASET_FETCH_TIMEOUT", "IDENTIFYING_COLUMNS",
		"PORT", "GIN_MODE", "SESSION_TTL", "SESSION_SWEEP_INTERVAL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDatasetURL, cfg.Dataset.URL)
	assert.Equal(t, "", cfg.Dataset.Sheet)
	assert.Equal(t, 30*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, DefaultIdentifyingColumns, cfg.Dataset.IdentifyingColumns)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATASET_URL", " ./data/cutoffs.csv ")
	t.Setenv("DATASET_SHEET", "2024")
	t.Setenv("DATASET_FETCH_TIMEOUT", "5s")
	t.Setenv("IDENTIFYING_COLUMNS", "College Name, Branch ,, Seat Type")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/cutoffs.csv", cfg.Dataset.URL)
	assert.Equal(t, "2024", cfg.Dataset.Sheet)
	assert.Equal(t, 5*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, []string{"College Name", "Branch", "Seat Type"}, cfg.Dataset.IdentifyingColumns)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
}

func TestLoadIgnoresMalformedDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATASET_FETCH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Dataset.FetchTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port":    {"PORT", "http"},
		"timeout": {"DATASET_FETCH_TIMEOUT", "-1s"},
		"columns": {"IDENTIFYING_COLUMNS", " , "},
		"ttl":     {"SESSION_TTL", "0s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
