package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/tracklive/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantErr   string
		wantField string
	}{
		{
			name: "valid numeric field",
			raw:  map[string]any{"gpsTimer": "15"},
		},
		{
			name: "zero is a valid value",
			raw:  map[string]any{"stopTimer": "0"},
		},
		{
			name: "valid baseUrl",
			raw:  map[string]any{"baseUrl": "https://example.com/api"},
		},
		{
			name:    "empty payload",
			raw:     map[string]any{},
			wantErr: "At least one configuration field must be provided",
		},
		{
			name:    "only unrecognized keys",
			raw:     map[string]any{"bogus": "1"},
			wantErr: "At least one configuration field must be provided",
		},
		{
			name:      "unrecognized key alongside valid one",
			raw:       map[string]any{"gpsTimer": "15", "bogus": "1"},
			wantErr:   "Validation failed",
			wantField: "Invalid configuration field: bogus",
		},
		{
			name:      "non-string value",
			raw:       map[string]any{"gpsTimer": 15.0},
			wantErr:   "Validation failed",
			wantField: "gpsTimer must be a string",
		},
		{
			name:      "negative number",
			raw:       map[string]any{"retryCounter": "-3"},
			wantErr:   "Validation failed",
			wantField: "retryCounter must be a valid positive number as string",
		},
		{
			name:      "non-numeric string",
			raw:       map[string]any{"movingTimer": "fast"},
			wantErr:   "Validation failed",
			wantField: "movingTimer must be a valid positive number as string",
		},
		{
			name:      "relative baseUrl",
			raw:       map[string]any{"baseUrl": "not-a-url"},
			wantErr:   "Validation failed",
			wantField: "baseUrl must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, verr := Validate(tt.raw)
			if tt.wantErr == "" {
				require.Nil(t, verr)
				assert.Len(t, payload, len(tt.raw))
				return
			}
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantErr, verr.Message)
			if tt.wantField != "" {
				assert.Contains(t, verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidateEmptyPayloadListsValidFields(t *testing.T) {
	_, verr := Validate(map[string]any{})
	require.NotNil(t, verr)
	assert.Equal(t, models.ConfigFields, verr.ValidFields)
}

func TestNewDeviceConfigOnlySetsSuppliedFields(t *testing.T) {
	cfg := NewDeviceConfig("865632050026800", Payload{"gpsTimer": "15"})

	assert.Equal(t, "865632050026800", cfg.DeviceImei)
	require.NotNil(t, cfg.GpsTimer)
	assert.Equal(t, "15", *cfg.GpsTimer)

	// Everything else stays unset, not backfilled from the defaults.
	assert.Nil(t, cfg.ConfigTimer)
	assert.Nil(t, cfg.UploadTimer)
	assert.Nil(t, cfg.StopTimer)
	assert.Nil(t, cfg.BaseURL)
}

func TestNewDeviceConfigAcceptsZero(t *testing.T) {
	cfg := NewDeviceConfig("865632050026800", Payload{"gpsTimer": "0"})
	require.NotNil(t, cfg.GpsTimer)
	assert.Equal(t, "0", *cfg.GpsTimer)
}

func TestApplyDeviceMerge(t *testing.T) {
	fifteen := "15"
	urlVal := "https://old.example.com"

	t.Run("truthy value overwrites", func(t *testing.T) {
		cfg := models.DeviceConfig{GpsTimer: &fifteen}
		ApplyDeviceMerge(&cfg, Payload{"gpsTimer": "25"})
		assert.Equal(t, "25", *cfg.GpsTimer)
	})

	t.Run("zero does not overwrite", func(t *testing.T) {
		cfg := models.DeviceConfig{GpsTimer: &fifteen}
		ApplyDeviceMerge(&cfg, Payload{"gpsTimer": "0"})
		assert.Equal(t, "15", *cfg.GpsTimer)
	})

	t.Run("absent field retains stored value", func(t *testing.T) {
		cfg := models.DeviceConfig{GpsTimer: &fifteen, BaseURL: &urlVal}
		ApplyDeviceMerge(&cfg, Payload{"stopTimer": "90"})
		assert.Equal(t, "15", *cfg.GpsTimer)
		assert.Equal(t, urlVal, *cfg.BaseURL)
		require.NotNil(t, cfg.StopTimer)
		assert.Equal(t, "90", *cfg.StopTimer)
	})

	t.Run("empty string does not overwrite", func(t *testing.T) {
		cfg := models.DeviceConfig{BaseURL: &urlVal}
		ApplyDeviceMerge(&cfg, Payload{"baseUrl": ""})
		assert.Equal(t, urlVal, *cfg.BaseURL)
	})

	t.Run("fills previously unset field", func(t *testing.T) {
		cfg := models.DeviceConfig{}
		ApplyDeviceMerge(&cfg, Payload{"heartbeatTimer": "45"})
		require.NotNil(t, cfg.HeartbeatTimer)
		assert.Equal(t, "45", *cfg.HeartbeatTimer)
	})
}

func TestApplyDefaultMerge(t *testing.T) {
	t.Run("zero does overwrite", func(t *testing.T) {
		cfg := models.CanonicalDefaults()
		ApplyDefaultMerge(&cfg, Payload{"gpsTimer": "0"})
		assert.Equal(t, "0", cfg.GpsTimer)
	})

	t.Run("absent fields retain stored values", func(t *testing.T) {
		cfg := models.CanonicalDefaults()
		ApplyDefaultMerge(&cfg, Payload{"gpsTimer": "7"})
		assert.Equal(t, "7", cfg.GpsTimer)
		assert.Equal(t, "60", cfg.ConfigTimer)
		assert.Equal(t, "130", cfg.StopTimer)
	})

	t.Run("empty baseUrl does not clear", func(t *testing.T) {
		cfg := models.CanonicalDefaults()
		original := cfg.BaseURL
		ApplyDefaultMerge(&cfg, Payload{"baseUrl": ""})
		assert.Equal(t, original, cfg.BaseURL)
	})

	t.Run("baseUrl overwrites when supplied", func(t *testing.T) {
		cfg := models.CanonicalDefaults()
		ApplyDefaultMerge(&cfg, Payload{"baseUrl": "https://new.example.com/svc"})
		assert.Equal(t, "https://new.example.com/svc", cfg.BaseURL)
	})
}
