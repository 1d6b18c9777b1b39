package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Port         string `mapstructure:"port"`
	Provider     string `mapstructure:"provider"`
	AIEndpoint   string `mapstructure:"ai_endpoint"`
	Model        string `mapstructure:"model"`
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	PublicDir    string `mapstructure:"public_dir"`
	LogLevel     string `mapstructure:"log_level"`
}

// GeminiAPIKeys splits GEMINI_API_KEY on commas so several keys can be
// rotated through.
func (c *Config) GeminiAPIKeys() []string {
	keys := make([]string, 0)
	for _, k := range strings.Split(c.GeminiAPIKey, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// LoadConfig reads configPath when it is non-empty and then applies
// environment variables on top. The result is meant to be read once at
// startup and not changed afterwards.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "3000")
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("public_dir", "public")
	v.SetDefault("log_level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.BindEnv("port", "PORT")
	v.BindEnv("provider", "AI_PROVIDER")
	v.BindEnv("model", "AI_MODEL")
	v.BindEnv("ai_endpoint", "AI_ENDPOINT")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	return nil
}
