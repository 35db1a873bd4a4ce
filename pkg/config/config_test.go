package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsClinicSettingsFromEnv(t *testing.T) {
	t.Setenv(EnvEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(EnvJWTSecret, "config-test-secret-0123456789")
	t.Setenv("CLINIC_TIME_ZONE", "UTC")
	t.Setenv(EnvSlotGranularityMin, "30")
	t.Setenv(EnvPhoneRegion, "gb")

	cfg := Load("clinic-test")

	assert.Equal(t, "UTC", cfg.ClinicTimeZone)
	assert.Equal(t, "UTC", cfg.Location().String())
	assert.Equal(t, 30, cfg.SlotGranularityMin)
	assert.Equal(t, "GB", cfg.PhoneRegion)
}

func TestValidate_CollectsProblems(t *testing.T) {
	cfg := &Config{
		Port:               "0",
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabaseName:  "clinic",
		ClinicTimeZone:     "Not/AZone",
		SlotDayStart:       "21:00",
		SlotDayEnd:         "09:00",
		SlotGranularityMin: 60,
		PhoneRegion:        "US",
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"Port", "ClinicTimeZone", "SlotDayStart (21:00)", "JWTSecret", "RequestTimeout"} {
		assert.Contains(t, err.Error(), want)
	}
}
