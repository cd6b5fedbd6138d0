package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, AuthModeStub, cfg.AuthMode)
	assert.Equal(t, "keep", cfg.AuthFailurePolicy)
	assert.Zero(t, cfg.CallTimeout)
	assert.Equal(t, 50, cfg.PromptLimit)
	assert.Equal(t, 12*time.Hour, cfg.PromptBlock)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
http_port: 9000
backend_url: ws://backend:4944/rpc
call_timeout: 3s
auth_failure_policy: logout
prompt_limit: 10
`)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CALL_TIMEOUT_MS", "1500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, "ws://backend:4944/rpc", cfg.BackendURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.CallTimeout)
	assert.Equal(t, "logout", cfg.AuthFailurePolicy)
	assert.Equal(t, 10, cfg.PromptLimit)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
}

func TestLoadFileFromEnv(t *testing.T) {
	t.Setenv(EnvConfigFile, writeFile(t, "auth_mode: redirect\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, AuthModeRedirect, cfg.AuthMode)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv("HTTP_PORT", "eighty")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "http_port: [\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "auth_mode: oauth\n"))
	assert.ErrorContains(t, err, "auth_mode")

	_, err = Load(writeFile(t, "auth_failure_policy: shrug\n"))
	assert.ErrorContains(t, err, "auth_failure_policy")
}

func TestPolicyFileSkipsStaticCheck(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv("AUTH_FAILURE_POLICY", "")
	t.Setenv("AUTH_POLICY_FILE", "/etc/chatbridge/auth.rego")

	cfg, err := Load(writeFile(t, "auth_failure_policy: rego\n"))
	require.NoError(t, err)
	assert.Equal(t, "/etc/chatbridge/auth.rego", cfg.AuthPolicyFile)
}

func TestLogLevel(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	t.Run("silent discards output", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", LogLevelSilent)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Quiet())

		var buf bytes.Buffer
		l := log.New(&buf, "", 0)
		cfg.ConfigureLog(l)
		l.Print("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("debug adds the call site", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", LogLevelDebug)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.False(t, cfg.Quiet())

		var buf bytes.Buffer
		l := log.New(&buf, "", 0)
		cfg.ConfigureLog(l)
		l.Print("shown")
		assert.Contains(t, buf.String(), "config_test.go:")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("info leaves the logger alone", func(t *testing.T) {
		cfg := Default()
		var buf bytes.Buffer
		l := log.New(&buf, "", 0)
		cfg.ConfigureLog(l)
		l.Print("shown")
		assert.Equal(t, "shown\n", buf.String())
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")
		_, err := Load("")
		assert.ErrorContains(t, err, "log_level")
	})
}
