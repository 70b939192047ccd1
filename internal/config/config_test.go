package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, StoreMySQL, cfg.StoreDriver)
	assert.Equal(t, IdentityMock, cfg.IdentityProvider)
	assert.Equal(t, 2*time.Second, cfg.Booking.ConfirmDelay)
	assert.Equal(t, 3*time.Second, cfg.Booking.SuccessDisplay)
	assert.Equal(t, "Dr. Emergency Smith", cfg.Booking.EmergencyDoctor)
	assert.Equal(t, "Dr. Available Jones", cfg.Booking.GeneralDoctor)
	assert.Equal(t, 10*time.Second, cfg.Location.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Location.MaximumAge)
	assert.True(t, cfg.Location.HighAccuracy)
	assert.Contains(t, cfg.Database.DSN, "@tcp(localhost:3306)/sehat_sathi")
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("BOOKING_CONFIRM_DELAY", "250")
	t.Setenv("LOCATION_TIMEOUT", "3s")
	t.Setenv("MEETING_BASE_URL", "https://meet.example.test/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.Booking.ConfirmDelay)
	assert.Equal(t, 3*time.Second, cfg.Location.Timeout)
	assert.Equal(t, "https://meet.example.test", cfg.Booking.MeetingBaseURL)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"store driver", "STORE_DRIVER", "cassandra"},
		{"identity provider", "IDENTITY_PROVIDER", "oauth"},
		{"jwt expiry", "JWT_EXPIRATION_MINUTES", "soon"},
		{"confirm delay", "BOOKING_CONFIRM_DELAY", "two seconds"},
		{"time zone", "BOOKING_TIME_ZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
