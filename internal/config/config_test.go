package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"watcher/internal/config"
	"watcher/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
watcher:
  seeds:
    - https://shop.example/collections/all/page1
`))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, []string{"https://shop.example/collections/all/page1"}, cfg.Watcher.Seeds)
	require.Equal(t, `/page\d+`, cfg.Watcher.ListingPattern)
	require.Equal(t, `\.html`, cfg.Watcher.ItemPattern)
	require.Equal(t, 3, cfg.Watcher.RetryBudget)
	require.Equal(t, "@every 5m", cfg.Watcher.Schedule)
	require.Equal(t, 30*time.Second, cfg.Watcher.FetchTimeout)
	require.Equal(t, config.RegistryDriverFile, cfg.Registry.Driver)
	require.Equal(t, "db.txt", cfg.Registry.Path)
	require.Equal(t, config.NotifierDriverLog, cfg.Notifier.Driver)
	require.Equal(t, 465, cfg.Notifier.SMTP.Port)
	require.True(t, cfg.Notifier.SMTP.SSL)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
environment: production
watcher:
  seeds: [https://a.example/page1, https://a.example/page7]
  retryBudget: 0
  schedule: "*/10 * * * *"
  exclusionPattern: "card-games/page\\d+"
registry:
  driver: postgres
notifier:
  driver: smtp
  site: Cloud Cap
  from: watcher@example.com
  summaryTo: [me@example.com]
  alertTo: [5555555555@sms.example.com]
`))
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Len(t, cfg.Watcher.Seeds, 2)
	require.Equal(t, 0, cfg.Watcher.RetryBudget)
	require.Equal(t, "*/10 * * * *", cfg.Watcher.Schedule)
	require.Equal(t, `card-games/page\d+`, cfg.Watcher.ExclusionPattern)
	require.Equal(t, config.RegistryDriverPostgres, cfg.Registry.Driver)
	require.Equal(t, "Cloud Cap", cfg.Notifier.Site)
	require.Equal(t, []string{"5555555555@sms.example.com"}, cfg.Notifier.AlertTo)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"no seeds":         "watcher:\n  retryBudget: 1\n",
		"negative budget":  "watcher:\n  seeds: [https://a/page1]\n  retryBudget: -1\n",
		"unknown registry": "watcher:\n  seeds: [https://a/page1]\nregistry:\n  driver: redis\n",
		"unknown notifier": "watcher:\n  seeds: [https://a/page1]\nnotifier:\n  driver: carrier-pigeon\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
