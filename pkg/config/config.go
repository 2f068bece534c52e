package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds every knob the sync tool needs. Values are resolved in
// order: built-in defaults, optional TOML file, then environment
// variables. Proxy settings are carried here explicitly and consumed at
// client construction; the process environment is never mutated.
type Config struct {
	NotionToken   string `toml:"notion_token"`
	NotionVersion string `toml:"notion_version"`
	ProxyURL      string `toml:"proxy_url"`

	SiteDir string `toml:"site_dir"`

	ServerAddr string `toml:"server_addr"`

	GitRemote string `toml:"git_remote"`
	GitBranch string `toml:"git_branch"`
	GitToken  string `toml:"git_token"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

func defaults() *Config {
	return &Config{
		NotionVersion: "2022-06-28",
		SiteDir:       "./site",
		ServerAddr:    ":8080",
		GitRemote:     "origin",
		GitBranch:     "main",
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load builds a Config from defaults, an optional TOML file and the
// environment. A .env file in the working directory is honored when
// present.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	getEnv := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	getEnv("NOTION_TOKEN", &cfg.NotionToken)
	getEnv("NOTION_VERSION", &cfg.NotionVersion)
	getEnv("PROXY_URL", &cfg.ProxyURL)
	getEnv("SITE_DIR", &cfg.SiteDir)
	getEnv("SERVER_ADDR", &cfg.ServerAddr)
	getEnv("GIT_REMOTE", &cfg.GitRemote)
	getEnv("GIT_BRANCH", &cfg.GitBranch)
	getEnv("GIT_TOKEN", &cfg.GitToken)
	getEnv("LOG_LEVEL", &cfg.LogLevel)
	getEnv("LOG_FORMAT", &cfg.LogFormat)

	return cfg, nil
}

// Content tree layout, fixed relative to SiteDir. Posts live at the top
// of content/, pages under content/pages/, project detail pages under
// content/pages/projects/.

func (c *Config) ContentDir() string      { return filepath.Join(c.SiteDir, "content") }
func (c *Config) PagesDir() string        { return filepath.Join(c.SiteDir, "content", "pages") }
func (c *Config) ProjectPagesDir() string { return filepath.Join(c.PagesDir(), "projects") }
func (c *Config) ImagesDir() string       { return filepath.Join(c.SiteDir, "static", "images") }
func (c *Config) ProjectImagesDir() string {
	return filepath.Join(c.ImagesDir(), "projects")
}
func (c *Config) DataDir() string { return filepath.Join(c.SiteDir, "data") }
