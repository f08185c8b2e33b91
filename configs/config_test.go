package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: bartender-order-service
  http_addr: ":8080"
mongo:
  uri: mongodb://localhost:27017
  database: bartender
  connect_timeout: 10s
cache:
  ttl: 30s
rabbitmq:
  enabled: false
security:
  jwt_secret: test-secret
  issuer: test-issuer
  audience: test-aud
  ttl: 8h
`

func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("base config", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{"base.yaml": baseYAML})
		cfg, err := Load(dir, "dev")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.App.HTTPAddr)
		assert.Equal(t, "bartender", cfg.Mongo.Database)
		assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
		assert.False(t, cfg.Rabbit.Enabled)
	})

	t.Run("env yaml overrides base", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{
			"base.yaml": baseYAML,
			"prod.yaml": "app:\n  http_addr: \":9090\"\n",
		})
		cfg, err := Load(dir, "prod")
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.App.HTTPAddr)
		assert.Equal(t, "bartender", cfg.Mongo.Database) // base still applies
	})

	t.Run("environment variables override files", func(t *testing.T) {
		t.Setenv("BARTENDER_MONGO__DATABASE", "bartender_test")
		dir := writeConfigDir(t, map[string]string{"base.yaml": baseYAML})
		cfg, err := Load(dir, "dev")
		require.NoError(t, err)
		assert.Equal(t, "bartender_test", cfg.Mongo.Database)
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{"base.yaml": "app:\n  name: x\n"})
		_, err := Load(dir, "dev")
		assert.Error(t, err)
	})

	t.Run("rabbit enabled requires url", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{
			"base.yaml": baseYAML,
			"dev.yaml":  "rabbitmq:\n  enabled: true\n  url: \"\"\n",
		})
		_, err := Load(dir, "dev")
		assert.Error(t, err)
	})
}
