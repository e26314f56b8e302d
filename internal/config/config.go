package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-exam2pdf/internal/fileutil"
	"github.com/alnah/go-exam2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldInvalid    = errors.New("invalid field value")
)

// Field length limits. Config files are user-authored; limits keep a
// stray paste from producing absurd filenames or footers.
const (
	MaxPathLength        = 2048 // Directory paths
	MaxAssetNameLength   = 50   // Style and template set names
	MaxDateFormatLength  = 30   // "YYYY-MM-DD" style token strings
	MaxDateLength        = 30   // "2026-12-31" or "December 31, 2026"
	MaxTextLength        = 500  // Footer free-form text
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
)

// Limits on numeric settings.
const (
	MinMarginInches = 0.25
	MaxMarginInches = 3.0
	MaxWorkers      = 64
)

// Config holds all configuration for exam building.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	CSS     CSSConfig     `yaml:"css"`
	Assets  AssetsConfig  `yaml:"assets"`
	Page    PageConfig    `yaml:"page"`
	Footer  FooterConfig  `yaml:"footer"`
	Shuffle ShuffleConfig `yaml:"shuffle"`
	Build   BuildConfig   `yaml:"build"`
}

// OutputConfig defines where output files go and how they are named.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = next to each exam)
	DateFormat string `yaml:"dateFormat"` // Filename stamp tokens (empty = YYYYMMDD)
	Undated    bool   `yaml:"undated"`    // true = no date stamp in filenames
}

// CSSConfig defines stylesheet options.
type CSSConfig struct {
	Style string `yaml:"style"` // Style name (empty = no stylesheet)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath"`    // Empty = use embedded assets
	TemplateSet string `yaml:"templateSet"` // Template set name (empty = default)
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // Literal text or "auto:FORMAT"
	Text           string `yaml:"text"` // Free-form text (course name, term)
}

// ShuffleConfig defines shuffling defaults.
// A shuffle block in the exam file takes precedence over these.
type ShuffleConfig struct {
	Questions bool  `yaml:"questions"`
	Answers   bool  `yaml:"answers"`
	Seed      int64 `yaml:"seed"` // 0 = derive from exam file content
}

// BuildConfig defines build execution options.
type BuildConfig struct {
	Workers        int  `yaml:"workers"`        // Batch workers (0 = auto-size)
	TimeoutSeconds int  `yaml:"timeoutSeconds"` // Per-exam timeout (0 = default)
	SkipKey        bool `yaml:"skipKey"`        // true = exam paper only, no answer key
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dateFormat", c.Output.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}
	if err := validateFieldLength("css.style", c.CSS.Style, MaxAssetNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.templateSet", c.Assets.TemplateSet, MaxAssetNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer.date", c.Footer.Date, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer.text", c.Footer.Text, MaxTextLength); err != nil {
		return err
	}

	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
		default:
			return fmt.Errorf("%w: footer.position %q (must be left, center, or right)",
				ErrFieldInvalid, c.Footer.Position)
		}
	}

	if c.Page.Margin != 0 && (c.Page.Margin < MinMarginInches || c.Page.Margin > MaxMarginInches) {
		return fmt.Errorf("%w: page.margin must be between %.2f and %.1f inches, got %.2f",
			ErrFieldInvalid, MinMarginInches, MaxMarginInches, c.Page.Margin)
	}

	if c.Build.Workers < 0 || c.Build.Workers > MaxWorkers {
		return fmt.Errorf("%w: build.workers must be between 0 and %d, got %d",
			ErrFieldInvalid, MaxWorkers, c.Build.Workers)
	}
	if c.Build.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: build.timeoutSeconds must not be negative, got %d",
			ErrFieldInvalid, c.Build.TimeoutSeconds)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file is given:
// default style and templates, letter portrait pages, no footer, no shuffle.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{},
		CSS:    CSSConfig{Style: "default"},
		Assets: AssetsConfig{TemplateSet: "default"},
		Page: PageConfig{
			Size:        "letter",
			Orientation: "portrait",
			Margin:      0.5,
		},
		Footer:  FooterConfig{},
		Shuffle: ShuffleConfig{},
		Build:   BuildConfig{},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/exam2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Current directory first, both extensions
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Then the user config directory
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "exam2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
