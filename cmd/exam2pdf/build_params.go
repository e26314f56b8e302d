package main

import (
	"time"

	exam2pdf "github.com/alnah/go-exam2pdf"
	"github.com/alnah/go-exam2pdf/internal/config"
	"github.com/alnah/go-exam2pdf/internal/dateutil"
)

// buildParams groups parameters shared across batch/file building.
type buildParams struct {
	page       *exam2pdf.PageSettings
	footer     *exam2pdf.Footer
	shuffle    *exam2pdf.ShuffleSettings
	cfg        *config.Config
	skipKey    bool // Build the exam paper only, no answer key
	htmlOnly   bool // Output HTML only, skip PDFs
	htmlOutput bool // Output HTML alongside PDFs
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer flags. Any footer flag turns the footer on so that
	// "exam2pdf build --footer-text 'Physics 101' exam.yaml" works
	// without a config file.
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
		cfg.Footer.Enabled = true
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
		cfg.Footer.Enabled = true
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}

	// Shuffle flags merge in buildShuffleSettings: the seed needs the
	// flag's explicit-set marker, which config cannot carry.

	// Asset flags
	if flags.assets.style != "" {
		cfg.CSS.Style = flags.assets.style
	}
	if flags.assets.template != "" {
		cfg.Assets.TemplateSet = flags.assets.template
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}

	// Output naming and key flags
	if flags.noDate {
		cfg.Output.Undated = true
	}
	if flags.noKey {
		cfg.Build.SkipKey = true
	}
	if flags.workers > 0 {
		cfg.Build.Workers = flags.workers
	}

	// Disable flags
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}
	if flags.assets.noStyle {
		cfg.CSS.Style = ""
	}
}

// buildPageSettings creates exam2pdf.PageSettings from config.
// Flags are merged into config by mergeFlags before this is called.
func buildPageSettings(cfg *config.Config) (*exam2pdf.PageSettings, error) {
	hasConfig := cfg.Page.Size != "" || cfg.Page.Orientation != "" || cfg.Page.Margin > 0

	if !hasConfig {
		return nil, nil
	}

	ps := &exam2pdf.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}

	// Apply defaults
	if ps.Size == "" {
		ps.Size = exam2pdf.PageSizeLetter
	}
	if ps.Orientation == "" {
		ps.Orientation = exam2pdf.OrientationPortrait
	}
	if ps.Margin == 0 {
		ps.Margin = exam2pdf.DefaultMargin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}

	return ps, nil
}

// buildFooterData creates exam2pdf.Footer from config.
// Resolves "auto" date formats to literal text before handing off to the
// library, so the whole batch shares one date.
func buildFooterData(cfg *config.Config, now func() time.Time) (*exam2pdf.Footer, error) {
	if !cfg.Footer.Enabled {
		return nil, nil
	}

	date, err := dateutil.ResolveDate(cfg.Footer.Date, now())
	if err != nil {
		return nil, err
	}

	f := &exam2pdf.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Date:           date,
		Text:           cfg.Footer.Text,
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// buildShuffleSettings creates exam2pdf.ShuffleSettings from flags and config.
// Returns nil when neither flags nor config ask for shuffling, so the
// shuffle block in each exam file stays in charge. Takes flags directly
// because --seed carries its own explicit-set marker: config cannot
// distinguish "seed: 0" from no seed, but the flag can.
func buildShuffleSettings(flags *buildFlags, cfg *config.Config) *exam2pdf.ShuffleSettings {
	hasFlags := flags.shuffle.questions || flags.shuffle.answers || flags.shuffle.seedSet
	hasConfig := cfg.Shuffle.Questions || cfg.Shuffle.Answers || cfg.Shuffle.Seed != 0

	if !hasFlags && !hasConfig {
		return nil
	}

	ss := &exam2pdf.ShuffleSettings{
		Questions: cfg.Shuffle.Questions,
		Answers:   cfg.Shuffle.Answers,
	}
	if cfg.Shuffle.Seed != 0 {
		seed := cfg.Shuffle.Seed
		ss.Seed = &seed
	}

	// CLI flags override config
	if flags.shuffle.questions {
		ss.Questions = true
	}
	if flags.shuffle.answers {
		ss.Answers = true
	}
	if flags.shuffle.seedSet {
		seed := flags.shuffle.seed
		ss.Seed = &seed
	}

	return ss
}

// resolveStamp returns the filename date stamp, or "" when disabled.
func resolveStamp(cfg *config.Config, now func() time.Time) (string, error) {
	if cfg.Output.Undated {
		return "", nil
	}
	return dateutil.FormatStamp(now(), cfg.Output.DateFormat)
}
