package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	initLoggers()
	os.Exit(m.Run())
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sunbot.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cacheDir := t.TempDir()
	path := writeConfigFile(t, `{
		"telegram_token": "token123",
		"developer_id": 123456789,
		"cache_dir": "`+cacheDir+`",
		"database_file": "test.db",
		"messages_per_hour": 10,
		"messages_per_day": 100,
		"temp_ban_duration": "1h"
	}`)

	config, err := loadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "token123", config.TelegramToken)
	assert.Equal(t, int64(123456789), config.DeveloperID)
	assert.Equal(t, cacheDir, config.CacheDir)
	assert.Equal(t, "test.db", config.DatabaseFile)
	assert.Equal(t, 10, config.MessagePerHour)
	assert.Equal(t, 100, config.MessagePerDay)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"telegram_token": "token123"}`)

	config, err := loadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, os.TempDir(), config.CacheDir)
	assert.Equal(t, "sunbot.db", config.DatabaseFile)
	assert.Equal(t, 30, config.MessagePerHour)
	assert.Equal(t, 200, config.MessagePerDay)
	assert.Equal(t, "10m", config.TempBanDuration)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{"telegram_token": `)
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		TelegramToken:   "token123",
		CacheDir:        t.TempDir(),
		DatabaseFile:    "test.db",
		MessagePerHour:  10,
		MessagePerDay:   100,
		TempBanDuration: "1h",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"Missing Token", func(c *Config) { c.TelegramToken = "" }, true},
		{"Zero Hourly Limit", func(c *Config) { c.MessagePerHour = 0 }, true},
		{"Negative Daily Limit", func(c *Config) { c.MessagePerDay = -1 }, true},
		{"Bad Ban Duration", func(c *Config) { c.TempBanDuration = "soon" }, true},
		{"Missing Cache Dir", func(c *Config) { c.CacheDir = "/does/not/exist" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
