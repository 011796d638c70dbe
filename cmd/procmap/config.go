package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rendis/procmap/internal/diagram"
	"github.com/rendis/procmap/internal/logging"
	"github.com/rendis/procmap/pkg/schema"
)

// Config holds all procmap configuration.
// Priority: flags > env vars > .env > settings.json > defaults.
type Config struct {
	OutputPath string `json:"output_path"`
	// Theme overrides the process's own theme when set.
	Theme string `json:"theme,omitempty"`
	// Format is inferred from OutputPath when empty.
	Format    string `json:"format,omitempty"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	ToolsDir  string `json:"tools_dir"`
}

func defaultConfig() Config {
	return Config{
		OutputPath: filepath.Join("assets", "sdcrs-workflow.png"),
		LogLevel:   "info",
		LogFormat:  "text",
		ToolsDir:   filepath.Join(procmapDir(), "bin"),
	}
}

func procmapDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".procmap"
	}
	return filepath.Join(home, ".procmap")
}

func settingsPath() string {
	return filepath.Join(procmapDir(), "settings.json")
}

// envLookup matches os.LookupEnv.
type envLookup func(key string) (string, bool)

// loadConfig layers settingsFile, dotenvFile and the environment over the
// defaults. Missing files are skipped; unreadable or malformed ones are a
// CONFIG_ERROR.
func loadConfig(settingsFile, dotenvFile string, lookup envLookup) (Config, error) {
	cfg := defaultConfig()

	// Layer 2: settings.json.
	if data, err := os.ReadFile(settingsFile); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, schema.NewErrorf(schema.ErrCodeConfig, "parse %s", settingsFile).WithCause(err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, schema.NewErrorf(schema.ErrCodeConfig, "read %s", settingsFile).WithCause(err)
	}

	// Layer 3: .env, read without touching the process environment.
	dotenv := map[string]string{}
	if dotenvFile != "" {
		m, err := godotenv.Read(dotenvFile)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, schema.NewErrorf(schema.ErrCodeConfig, "read %s", dotenvFile).WithCause(err)
		}
	}

	// Layer 4: env vars override .env.
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if v, ok := get("PROCMAP_OUTPUT_PATH"); ok {
		cfg.OutputPath = v
	}
	if v, ok := get("PROCMAP_THEME"); ok {
		cfg.Theme = v
	}
	if v, ok := get("PROCMAP_FORMAT"); ok {
		cfg.Format = v
	}
	if v, ok := get("PROCMAP_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("PROCMAP_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := get("PROCMAP_TOOLS_DIR"); ok {
		cfg.ToolsDir = v
	}

	return cfg, nil
}

// validate rejects settings that would only fail later, mid-render.
func (c Config) validate() error {
	if c.OutputPath == "" {
		return schema.NewError(schema.ErrCodeConfig, "output_path is empty")
	}
	if c.Theme != "" {
		if _, err := diagram.LookupTheme(c.Theme); err != nil {
			return err
		}
	}
	if c.Format != "" {
		if _, err := diagram.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// outputFormat returns the configured format, else the one implied by the
// output path, else PNG.
func (c Config) outputFormat() (diagram.Format, error) {
	if c.Format != "" {
		return diagram.ParseFormat(c.Format)
	}
	if f, ok := diagram.FormatFromPath(c.OutputPath); ok {
		return f, nil
	}
	return diagram.FormatPNG, nil
}
