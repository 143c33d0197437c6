// Package config provides YAML-based application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SMTPConfig holds mail transport settings for the report mailer.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// AuthConfig holds bearer-token verification settings. Token issuance is
// handled by the external auth service; we only verify.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenLifetime time.Duration `yaml:"token_lifetime"`
}

// CORSConfig holds allowed origins for browser clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8099".
	Listen string `yaml:"listen"`

	// DataDir holds the SQLite database file.
	DataDir string `yaml:"data_dir"`

	// MediaRoot is the base directory for uploaded images and rendered
	// PDF artifacts. Report PDFs live under {MediaRoot}/pdf.
	MediaRoot string `yaml:"media_root"`

	// ExportDir is where month CSV exports are written. Defaults to
	// {MediaRoot}/exports.
	ExportDir string `yaml:"export_dir"`

	// SweepCron is a cron expression for the orphaned-artifact sweeper.
	// Empty disables sweeping.
	SweepCron string `yaml:"sweep_cron"`

	// RenderTimeout bounds a single PDF render.
	RenderTimeout time.Duration `yaml:"render_timeout"`

	SMTP SMTPConfig `yaml:"smtp"`
	Auth AuthConfig `yaml:"auth"`
	CORS CORSConfig `yaml:"cors"`
}

// Default returns an in-memory default configuration.
func Default() *Config {
	return &Config{
		Listen:        ":8099",
		DataDir:       "./data",
		MediaRoot:     "./media",
		SweepCron:     "@hourly",
		RenderTimeout: 30 * time.Second,
		SMTP: SMTPConfig{
			Host: "localhost",
			Port: 25,
			From: "reports@localhost",
		},
		Auth: AuthConfig{
			TokenLifetime: 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.MediaRoot == "" {
		c.MediaRoot = d.MediaRoot
	}
	if c.ExportDir == "" {
		c.ExportDir = filepath.Join(c.MediaRoot, "exports")
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = d.RenderTimeout
	}
	if c.SMTP.Host == "" {
		c.SMTP.Host = d.SMTP.Host
	}
	if c.SMTP.Port <= 0 {
		c.SMTP.Port = d.SMTP.Port
	}
	if c.SMTP.From == "" {
		c.SMTP.From = d.SMTP.From
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if c.Auth.TokenLifetime <= 0 {
		c.Auth.TokenLifetime = d.Auth.TokenLifetime
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = d.CORS.AllowedOrigins
	}
}

// Load reads the configuration from path. A missing file is not an error:
// the defaults are returned so a first run works out of the box.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.Normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// PDFDir returns the directory holding rendered report PDFs.
func (c *Config) PDFDir() string {
	return filepath.Join(c.MediaRoot, "pdf")
}

// ImageDir returns the directory holding uploaded image blobs.
func (c *Config) ImageDir() string {
	return filepath.Join(c.MediaRoot, "images")
}
