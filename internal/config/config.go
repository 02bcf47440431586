package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	MLService struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"ml_service"`
	Alert struct {
		WebhookURL      string `yaml:"webhook_url"`
		TimeoutSeconds  int64  `yaml:"timeout_seconds"`
		CaseFileBaseURL string `yaml:"case_file_base_url"`
	} `yaml:"alert"`
	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Audit struct {
		LogPath string `yaml:"log_path"`
	} `yaml:"audit"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.MLService.TimeoutSeconds <= 0 {
		config.MLService.TimeoutSeconds = 30
	}
	if config.Alert.TimeoutSeconds <= 0 {
		config.Alert.TimeoutSeconds = 5
	}
	if config.Audit.LogPath == "" {
		config.Audit.LogPath = "prediction_log.csv"
	}
	if config.Export.Dir == "" {
		config.Export.Dir = "."
	}

	return config, nil
}
