// Package config provides configuration for the chatbridge binaries.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile names an optional YAML file read before the environment.
const EnvConfigFile = "CHATBRIDGE_CONFIG"

// Auth modes.
const (
	AuthModeStub     = "stub"
	AuthModeRedirect = "redirect"
)

// Log levels. debug adds file:line to every entry, silent discards them.
const (
	LogLevelDebug  = "debug"
	LogLevelInfo   = "info"
	LogLevelSilent = "silent"
)

// Config holds the configuration shared by the gateway, the CLI and the
// development backend. Values come from defaults, then the YAML file, then the
// environment.
type Config struct {
	// Gateway settings
	HTTPPort  int    `yaml:"http_port"`
	StaticDir string `yaml:"static_dir"`

	// Backend client settings
	BackendURL  string        `yaml:"backend_url"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	CallTimeout time.Duration `yaml:"call_timeout"` // 0 disables

	// Auth settings
	AuthMode            string        `yaml:"auth_mode"`
	IdentityProviderURL string        `yaml:"identity_provider_url"`
	CallbackAddr        string        `yaml:"callback_addr"`
	LoginTimeout        time.Duration `yaml:"login_timeout"`
	AuthFailurePolicy   string        `yaml:"auth_failure_policy"`
	AuthPolicyFile      string        `yaml:"auth_policy_file"`

	// Development backend settings
	BackendRPCPort int           `yaml:"backend_rpc_port"`
	BackendWSPort  int           `yaml:"backend_ws_port"`
	LLMBaseURL     string        `yaml:"llm_base_url"`
	LLMAPIKey      string        `yaml:"llm_api_key"`
	LLMModel       string        `yaml:"llm_model"`
	LLMTimeout     time.Duration `yaml:"llm_timeout"`
	PromptLimit    int           `yaml:"prompt_limit"`
	PromptBlock    time.Duration `yaml:"prompt_block"`

	// Logging: debug, info or silent
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPPort:            8080,
		StaticDir:           "",
		BackendURL:          "tcp://localhost:4943",
		DialTimeout:         5 * time.Second,
		CallTimeout:         0,
		AuthMode:            AuthModeStub,
		IdentityProviderURL: "https://identity.ic0.app/#authorize",
		CallbackAddr:        "127.0.0.1:0",
		LoginTimeout:        5 * time.Minute,
		AuthFailurePolicy:   "keep",
		BackendRPCPort:      4943,
		BackendWSPort:       4944,
		LLMBaseURL:          "https://api.openai.com",
		LLMModel:            "gpt-4o-mini",
		LLMTimeout:          60 * time.Second,
		PromptLimit:         50,
		PromptBlock:         12 * time.Hour,
		LogLevel:            LogLevelInfo,
	}
}

// Load builds the configuration. path overrides CHATBRIDGE_CONFIG; when both
// are empty no file is read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.mergeEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)

	c.BackendURL = getEnv("BACKEND_URL", c.BackendURL)
	c.DialTimeout = getEnvMillis("DIAL_TIMEOUT_MS", c.DialTimeout)
	c.CallTimeout = getEnvMillis("CALL_TIMEOUT_MS", c.CallTimeout)

	c.AuthMode = getEnv("AUTH_MODE", c.AuthMode)
	c.IdentityProviderURL = getEnv("IDENTITY_PROVIDER_URL", c.IdentityProviderURL)
	c.CallbackAddr = getEnv("AUTH_CALLBACK_ADDR", c.CallbackAddr)
	c.LoginTimeout = getEnvMillis("LOGIN_TIMEOUT_MS", c.LoginTimeout)
	c.AuthFailurePolicy = getEnv("AUTH_FAILURE_POLICY", c.AuthFailurePolicy)
	c.AuthPolicyFile = getEnv("AUTH_POLICY_FILE", c.AuthPolicyFile)

	c.BackendRPCPort = getEnvInt("BACKEND_RPC_PORT", c.BackendRPCPort)
	c.BackendWSPort = getEnvInt("BACKEND_WS_PORT", c.BackendWSPort)
	c.LLMBaseURL = getEnv("LLM_BASE_URL", c.LLMBaseURL)
	c.LLMAPIKey = getEnv("LLM_API_KEY", c.LLMAPIKey)
	c.LLMModel = getEnv("LLM_MODEL", c.LLMModel)
	c.LLMTimeout = getEnvMillis("LLM_TIMEOUT_MS", c.LLMTimeout)
	c.PromptLimit = getEnvInt("PROMPT_LIMIT", c.PromptLimit)
	c.PromptBlock = getEnvMillis("PROMPT_BLOCK_MS", c.PromptBlock)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings the binaries cannot start with.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeStub, AuthModeRedirect:
	default:
		return fmt.Errorf("unknown auth_mode %q (want %s or %s)", c.AuthMode, AuthModeStub, AuthModeRedirect)
	}
	if c.AuthPolicyFile == "" && c.AuthFailurePolicy != "keep" && c.AuthFailurePolicy != "logout" {
		return fmt.Errorf("unknown auth_failure_policy %q (want keep or logout)", c.AuthFailurePolicy)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("call_timeout must not be negative")
	}
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelSilent:
	default:
		return fmt.Errorf("unknown log_level %q (want debug, info or silent)", c.LogLevel)
	}
	return nil
}

// Quiet reports whether log output is switched off.
func (c *Config) Quiet() bool {
	return c.LogLevel == LogLevelSilent
}

// ConfigureLog applies LogLevel to l.
func (c *Config) ConfigureLog(l *log.Logger) {
	switch c.LogLevel {
	case LogLevelSilent:
		l.SetOutput(io.Discard)
	case LogLevelDebug:
		l.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvMillis(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
