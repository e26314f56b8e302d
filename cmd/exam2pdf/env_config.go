package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-exam2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // EXAM2PDF_CONFIG: config file path
	Style      string        // EXAM2PDF_STYLE: CSS style name or path
	Timeout    time.Duration // EXAM2PDF_TIMEOUT: PDF generation timeout
	OutputDir  string        // EXAM2PDF_OUTPUT_DIR: default output directory
	DateFormat string        // EXAM2PDF_DATE_FORMAT: filename stamp tokens
	Workers    int           // EXAM2PDF_WORKERS: parallel workers
}

// knownEnvVars lists valid EXAM2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
// EXAM2PDF_CONTAINER is read by the doctor command, not loadEnvConfig.
var knownEnvVars = map[string]bool{
	"EXAM2PDF_CONFIG":      true,
	"EXAM2PDF_STYLE":       true,
	"EXAM2PDF_TIMEOUT":     true,
	"EXAM2PDF_OUTPUT_DIR":  true,
	"EXAM2PDF_DATE_FORMAT": true,
	"EXAM2PDF_WORKERS":     true,
	"EXAM2PDF_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized EXAM2PDF_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("EXAM2PDF_CONFIG"),
		Style:      os.Getenv("EXAM2PDF_STYLE"),
		OutputDir:  os.Getenv("EXAM2PDF_OUTPUT_DIR"),
		DateFormat: os.Getenv("EXAM2PDF_DATE_FORMAT"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("EXAM2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("EXAM2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized EXAM2PDF_* variables.
// Helps catch typos like EXAM2PDF_STYL instead of EXAM2PDF_STYLE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "EXAM2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// A set env var replaces the config file's value, so the precedence is:
// CLI flags > env vars > config file > defaults.
// (CLI flags are applied later via mergeFlags; timeout is resolved
// separately in resolveTimeoutWithEnv.)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.CSS.Style = env.Style
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.DateFormat != "" {
		cfg.Output.DateFormat = env.DateFormat
	}
	if env.Workers > 0 {
		cfg.Build.Workers = env.Workers
	}
}
