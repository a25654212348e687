package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ApiId     int32             `json:"ApiId"`
	ApiHash   string            `json:"ApiHash"`
	Phone     string            `json:"Phone"`
	WebListen string            `json:"WebListen"`
	Mongo     map[string]string `json:"Mongo"`
	TDataDir  string            `json:"TDataDir"`
	Debug     bool              `json:"Debug"`
}

// InitConfiguration reads config.json (path overridable via
// FERNSCHREIBER_CONFIG) after loading a .env file if one is present.
// Phone and the web listen address can also come from the environment, so a
// single config file works for several sessions.
func InitConfiguration() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("FERNSCHREIBER_CONFIG")
	if path == "" {
		path = "config.json"
	}

	var cfg = Config{}
	err := UnmarshalJsonFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if phone := os.Getenv("FERNSCHREIBER_PHONE"); phone != "" {
		cfg.Phone = phone
	}
	if listen := os.Getenv("FERNSCHREIBER_LISTEN"); listen != "" {
		cfg.WebListen = listen
	}
	if cfg.TDataDir == "" {
		cfg.TDataDir = ".tdlib"
	}

	return &cfg, nil
}

func UnmarshalJsonFile(path string, dest interface{}) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("json file does not exist: %s", path)
	}

	byteValue, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read json file: %w", err)
	}
	if err := json.Unmarshal(byteValue, dest); err != nil {
		return fmt.Errorf("failed to parse json file: %w", err)
	}

	return nil
}
