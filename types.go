package exam2pdf

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults). Zero values for
// individual fields are also valid and fall back to defaults.
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if p.Size != "" && !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if p.Orientation != "" && !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Input contains build parameters.
type Input struct {
	Exam      *Exam            // Parsed exam (required)
	SourceDir string           // Base directory for relative image paths (optional)
	CSS       string           // Extra CSS appended after the style (optional)
	Footer    *Footer          // Footer config (optional)
	Page      *PageSettings    // Page settings (optional, nil = defaults)
	Shuffle   *ShuffleSettings // Overrides the exam's shuffle block (optional)
	HTMLOnly  bool             // Skip PDF generation (for debugging)
	SkipKey   bool             // Build the exam paper only, no answer key
}

// BuildResult holds both documents at every pipeline stage.
// The markdown and HTML intermediates are kept for debugging and for
// the CLI's --html output mode.
type BuildResult struct {
	ExamMarkdown string // Rendered exam paper markdown
	KeyMarkdown  string // Rendered answer key markdown (empty if SkipKey)
	ExamHTML     []byte
	KeyHTML      []byte
	ExamPDF      []byte // nil if HTMLOnly
	KeyPDF       []byte
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string // Literal date text (resolve "auto" formats before passing)
	Text           string // Free-form text (course name, term)
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// ShuffleSettings controls deterministic question and answer shuffling.
// The zero value disables shuffling. A nil Seed derives the seed from
// the exam file content, so rebuilding an unchanged file reproduces the
// same order.
type ShuffleSettings struct {
	Questions bool   `yaml:"questions"`
	Answers   bool   `yaml:"answers"`
	Seed      *int64 `yaml:"seed"`
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// builderConfig holds internal configuration for Builder.
type builderConfig struct {
	timeout       time.Duration
	styleInput    string // name, path, or raw CSS; empty disables styling
	resolvedStyle string
	assetPath     string
	templateSet   *TemplateSet
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) BuilderOption {
	if d <= 0 {
		panic("exam2pdf: WithTimeout duration must be positive")
	}
	return func(b *Builder) {
		b.cfg.timeout = d
	}
}

// WithStyle sets the document style. Accepts a built-in style name
// ("default", "compact"), a path to a CSS file, or raw CSS content.
// Pass an empty string to disable styling entirely.
func WithStyle(style string) BuilderOption {
	return func(b *Builder) {
		b.cfg.styleInput = style
	}
}

// WithTemplateSet sets the exam and answer key templates directly,
// bypassing the asset loader.
func WithTemplateSet(ts *TemplateSet) BuilderOption {
	return func(b *Builder) {
		b.cfg.templateSet = ts
	}
}

// WithAssetPath sets a directory for custom styles and templates.
// Custom assets take precedence with fallback to embedded defaults.
func WithAssetPath(path string) BuilderOption {
	return func(b *Builder) {
		b.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader (e.g., loading styles from
// a database or object storage). Takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) BuilderOption {
	return func(b *Builder) {
		b.publicAssetLoader = loader
	}
}
