package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval())
	assert.Equal(t, 5*time.Second, cfg.Scheduler.RecheckDelay())
	assert.Equal(t, int64(10), cfg.Stock.DefaultMin)
	assert.Equal(t, int64(100), cfg.Stock.DefaultMax)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SCHEDULER_INTERVAL_MINUTES", "15")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("STOCK_DEFAULT_MIN", "4")
	t.Setenv("NOTIFY_MANAGER_EMAILS", "a@x.com, b@x.com,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval())
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, int64(4), cfg.Stock.DefaultMin)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.Notify.ManagerEmails)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/w", DBName: "rep", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fw@db:5432/rep?sslmode=disable", c.ConnectionString())
}

func TestLoad_BootstrapPasswordCorto(t *testing.T) {
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@x.com")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "corta")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "suficiente")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", cfg.Bootstrap.AdminEmail)
}
