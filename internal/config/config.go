// Package config provides configuration management for the markdown translator.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "markdown-translator-config.json"
	// EnvOpenAIAPIKey is the environment variable name for the OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for the OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// EnvGeminiAPIKey is the environment variable name for the Gemini API key
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	// DefaultProvider is the default translation provider
	DefaultProvider = "openai"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model to use
	DefaultModel = "gpt-4o"
	// DefaultGeminiModel is the default Gemini model to use
	DefaultGeminiModel = "gemini-1.5-flash"
	// DefaultTargetLanguage is the default translation target language
	DefaultTargetLanguage = "Chinese"
	// DefaultConcurrency is the default translation concurrency
	DefaultConcurrency = 3
)

// Manager manages the application configuration.
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a new Manager with the specified config path.
// If configPath is empty, it uses the default path in the user's home
// directory. A .env file in the working directory is loaded if present so
// API keys can be kept out of the config file.
func NewManager(configPath string) (*Manager, error) {
	// Best effort; a missing .env file is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "markdown-translator", DefaultConfigFileName)
	}

	logger.Debug("config manager initialized", logger.String("configPath", configPath))
	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() *types.Config {
	return &types.Config{
		Provider:       DefaultProvider,
		OpenAIBaseURL:  DefaultBaseURL,
		OpenAIModel:    DefaultModel,
		GeminiModel:    DefaultGeminiModel,
		TargetLanguage: DefaultTargetLanguage,
		Concurrency:    DefaultConcurrency,
	}
}

// Load loads configuration from the config file. A missing file is not an
// error; defaults are used. Environment variables take precedence for API
// keys when the config file values are empty.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded",
				logger.String("path", m.configPath),
				logger.String("provider", config.Provider),
				logger.String("model", config.OpenAIModel))
			m.config = config
		}
	}

	// Apply defaults for empty fields
	if m.config.Provider == "" {
		m.config.Provider = DefaultProvider
	}
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.GeminiModel == "" {
		m.config.GeminiModel = DefaultGeminiModel
	}
	if m.config.TargetLanguage == "" {
		m.config.TargetLanguage = DefaultTargetLanguage
	}
	if m.config.Concurrency == 0 {
		m.config.Concurrency = DefaultConcurrency
	}

	return nil
}

// Save writes the current configuration to the config file.
func (m *Manager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetOpenAIAPIKey returns the OpenAI API key, preferring the config file
// value over the environment variable.
func (m *Manager) GetOpenAIAPIKey() string {
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// GetOpenAIBaseURL returns the OpenAI base URL, preferring the config file
// value over the environment variable.
func (m *Manager) GetOpenAIBaseURL() string {
	if m.config != nil && m.config.OpenAIBaseURL != "" && m.config.OpenAIBaseURL != DefaultBaseURL {
		return m.config.OpenAIBaseURL
	}
	if env := os.Getenv(EnvOpenAIBaseURL); env != "" {
		return env
	}
	return DefaultBaseURL
}

// GetGeminiAPIKey returns the Gemini API key, preferring the config file
// value over the environment variable.
func (m *Manager) GetGeminiAPIKey() string {
	if m.config != nil && m.config.GeminiAPIKey != "" {
		return m.config.GeminiAPIKey
	}
	return os.Getenv(EnvGeminiAPIKey)
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig replaces the entire configuration.
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
