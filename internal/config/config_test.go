package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8085

[database]
host = "db"
user = "booking"
password = "secret"
dbname = "therapy"

[scheduling]
timezone = "Europe/Moscow"

[policy]
reschedule_fee = "500.00"
currency = "RUB"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.HTTPPort)
	assert.Equal(t, "therapy", cfg.Database.DBName)
	assert.Equal(t, 5432, cfg.Database.Port, "default port is kept")
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	fee, err := cfg.Policy.RescheduleFeeAmount()
	require.NoError(t, err)
	assert.Equal(t, "500", fee.String())

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverridesPassword(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "from-env")

	path := writeConfig(t, `
[database]
password = "from-file"
dbname = "therapy"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing dbname", content: `[server]
http_port = 8080`},
		{name: "bad timezone", content: `[database]
dbname = "x"
[scheduling]
timezone = "Mars/Olympus"`},
		{name: "negative fee", content: `[database]
dbname = "x"
[policy]
reschedule_fee = "-1"`},
		{name: "rabbitmq without url", content: `[database]
dbname = "x"
[rabbitmq]
enabled = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
