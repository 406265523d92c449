package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	TelegramToken   string `json:"telegram_token"`
	DeveloperID     int64  `json:"developer_id"`
	CacheDir        string `json:"cache_dir"`
	DatabaseFile    string `json:"database_file"`
	MessagePerHour  int    `json:"messages_per_hour"`
	MessagePerDay   int    `json:"messages_per_day"`
	TempBanDuration string `json:"temp_ban_duration"`
}

// configSearchPaths returns the config file locations in lookup order; the
// first existing file wins.
func configSearchPaths() []string {
	paths := []string{"sunbot.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sunbot.json"))
	}
	return append(paths, "/etc/sunbot.json")
}

func loadConfig(filename string) (Config, error) {
	config := Config{
		CacheDir:        os.TempDir(),
		DatabaseFile:    "sunbot.db",
		MessagePerHour:  30,
		MessagePerDay:   200,
		TempBanDuration: "10m",
	}
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return config, config.validate()
}

// findConfig loads the first config file found on the search path.
func findConfig() (Config, error) {
	for _, path := range configSearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfig(path)
		}
	}
	return Config{}, fmt.Errorf("no configuration file found (looked for %v)", configSearchPaths())
}

func (c Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram_token is required")
	}
	if c.MessagePerHour <= 0 {
		return fmt.Errorf("messages_per_hour must be positive, got %d", c.MessagePerHour)
	}
	if c.MessagePerDay <= 0 {
		return fmt.Errorf("messages_per_day must be positive, got %d", c.MessagePerDay)
	}
	if _, err := time.ParseDuration(c.TempBanDuration); err != nil {
		return fmt.Errorf("temp_ban_duration: %w", err)
	}
	if info, err := os.Stat(c.CacheDir); err != nil || !info.IsDir() {
		return fmt.Errorf("cache_dir %q is not a directory", c.CacheDir)
	}
	return nil
}
