package shared_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"frontdesk_kiosk/internal/shared"
)

func TestFromViper_Defaults(t *testing.T) {
	c := shared.FromViper(viper.New())
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "memory", c.RegistryBackend)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, 900*time.Second, c.CacheTTL)
	assert.Equal(t, 110*time.Millisecond, c.ScanInterval)
	assert.Equal(t, 1500*time.Millisecond, c.ScanDedupWindow)
	assert.Equal(t, 1800*time.Millisecond, c.ProcessingDelay)
	assert.Equal(t, 3500*time.Millisecond, c.NotifyTTL)
	assert.InDelta(t, 0.75, c.PaymentSuccessRate, 1e-9)
	assert.Equal(t, 8, c.ImportWorkers)
	assert.True(t, c.SeedRegistry)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("REGISTRY_BACKEND", "mysql")
	t.Setenv("SCAN_INTERVAL", "250ms")
	t.Setenv("PAYMENT_SUCCESS_RATE", "1")
	t.Setenv("SEED_REGISTRY", "false")
	t.Setenv("IMPORT_WORKERS", "0")

	c := shared.FromViper(viper.New())
	assert.Equal(t, "mysql", c.RegistryBackend)
	assert.Equal(t, 250*time.Millisecond, c.ScanInterval)
	assert.InDelta(t, 1.0, c.PaymentSuccessRate, 1e-9)
	assert.False(t, c.SeedRegistry)
	assert.Equal(t, 1, c.ImportWorkers)
}

func TestFromViper_RateOutOfRange(t *testing.T) {
	t.Setenv("PAYMENT_SUCCESS_RATE", "1.5")
	assert.InDelta(t, 0.75, shared.FromViper(viper.New()).PaymentSuccessRate, 1e-9)
}
