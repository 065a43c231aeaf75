package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the connection and behaviour settings for the dashboard.
type Config struct {
	BaseURL            string
	Token              string
	ShoppingListEntity string
	ExportDir          string
	ScannerDevice      string
}

const (
	defaultConfigPath         = "~/.config/beepbasket/config.toml"
	defaultBaseURL            = "http://127.0.0.1:8123"
	defaultShoppingListEntity = "todo.shopping_list"
	defaultExportDir          = "~/Downloads"
)

// Load locates and parses the config file, falling back to defaults when it
// is missing. The host token has no default; an empty token simply disables
// authentication for hosts that run without it.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL            string `toml:"base_url"`
		Token              string `toml:"token"`
		ShoppingListEntity string `toml:"shopping_list_entity"`
		ExportDir          string `toml:"export_dir"`
		ScannerDevice      string `toml:"scanner_device"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	cfg.Token = strings.TrimSpace(raw.Token)
	if v := strings.TrimSpace(raw.ShoppingListEntity); v != "" {
		cfg.ShoppingListEntity = v
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = v
	}
	cfg.ExportDir = mustExpand(cfg.ExportDir)
	cfg.ScannerDevice = strings.TrimSpace(raw.ScannerDevice)

	return cfg, nil
}

func defaults() Config {
	return Config{
		BaseURL:            defaultBaseURL,
		ShoppingListEntity: defaultShoppingListEntity,
		ExportDir:          mustExpand(defaultExportDir),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
