package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"budget-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 2, cfg.Limits.Months)
	assert.Equal(t, 8, cfg.Limits.ExpensesPerMonth)
	assert.Equal(t, 5, cfg.Limits.Subscriptions)
	assert.Equal(t, 20, cfg.RateLimits.Checkout)
	assert.Equal(t, 10, cfg.RateLimits.Feedback)
	assert.Equal(t, time.Hour, cfg.RateLimits.Window)
	assert.Equal(t, "chf", cfg.Stripe.Currency)
	assert.Equal(t, 30*time.Minute, cfg.StateCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FREE_MONTH_LIMIT=4\nHTTP_PORT=9000\nFEEDBACK_TO=a@example.com, b@example.com\n"), 0o600))
	chdir(t, dir)
	t.Setenv("HTTP_PORT", "7000")
	for _, key := range []string{"FREE_MONTH_LIMIT", "FEEDBACK_TO"} {
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.Limits.Months)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Feedback.To)
}

func TestDBURL(t *testing.T) {
	cfg := DBConfig{User: "u", Password: "p", Host: "db", Port: "5432", Name: "budget", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/budget?sslmode=disable", cfg.URL())

	cfg.DSN = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", cfg.URL())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
