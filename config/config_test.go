package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_STRING", "90m")
	t.Setenv("TEST_DURATION_SECONDS", "15")
	t.Setenv("TEST_DURATION_BROKEN", "soon")

	assert.Equal(t, 90*time.Minute, getEnvAsTimeDuration("TEST_DURATION_STRING", time.Second))
	assert.Equal(t, 15*time.Second, getEnvAsTimeDuration("TEST_DURATION_SECONDS", time.Second))
	assert.Equal(t, time.Second, getEnvAsTimeDuration("TEST_DURATION_BROKEN", time.Second))
	assert.Equal(t, time.Hour, getEnvAsTimeDuration("TEST_DURATION_MISSING", time.Hour))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", " a, b ,,c ")

	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsSlice("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("TEST_SLICE_MISSING", []string{"x"}))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SHOP_FREE_SHIPPING_THRESHOLD", "10000")

	cfg := Load()

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, uint64(10000), cfg.Shop.FreeShippingThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "LKR", cfg.Shop.Currency)
}
