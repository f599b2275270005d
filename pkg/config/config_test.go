package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PORT=9999\nPOSTGRES_CONN_STR=host=db\nJWT_SECRET=filesecret\n"), 0o600))

	os.Unsetenv("PORT")
	os.Unsetenv("POSTGRES_CONN_STR")
	os.Unsetenv("JWT_SECRET")
	t.Chdir(dir)
	t.Cleanup(func() {
		// godotenv writes into the process environment
		os.Unsetenv("PORT")
		os.Unsetenv("POSTGRES_CONN_STR")
		os.Unsetenv("JWT_SECRET")
	})

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "host=db", cfg.PostgresConnStr)
	assert.Equal(t, "filesecret", cfg.JWTSecret)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	os.Unsetenv("PORT")
	os.Unsetenv("DELIVERY_WORKERS")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4, cfg.DeliveryWorkers)
	assert.NotEmpty(t, cfg.JWTSecret)
}
