package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	pageNumber bool
	disabled   bool
}

// shuffleFlags holds question and answer shuffling flags.
// seedSet records whether --seed was given explicitly: every int64 is a
// valid seed, so there is no sentinel value to detect the default with.
type shuffleFlags struct {
	questions bool
	answers   bool
	seed      int64
	seedSet   bool
}

// assetFlags holds asset-related flags (CSS, templates, custom asset path).
type assetFlags struct {
	style     string // Name, path, or raw CSS
	template  string // Template set name
	assetPath string // Override asset directory
	noStyle   bool   // Disable CSS styling
}

// outputFlags holds output mode flags for debugging.
type outputFlags struct {
	html     bool // Output HTML alongside PDF
	htmlOnly bool // Output HTML only, skip PDF
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	noDate     bool
	noKey      bool
	page       pageFlags
	footer     footerFlags
	shuffle    shuffleFlags
	assets     assetFlags
	outputMode outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text (course name, term)")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addShuffleFlags adds shuffle flags to a FlagSet.
func addShuffleFlags(fs *flag.FlagSet, f *shuffleFlags) {
	fs.BoolVar(&f.questions, "shuffle-questions", false, "randomize question order")
	fs.BoolVar(&f.answers, "shuffle-answers", false, "randomize answer option order")
	fs.Int64Var(&f.seed, "seed", 0, "shuffle seed for reproducible order")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.template, "template", "", "template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "output HTML alongside PDFs")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDFs")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	f := &buildFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noDate, "no-date", false, "omit the date stamp from output names")
	fs.BoolVar(&f.noKey, "no-key", false, "build the exam paper only, skip the answer key")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addShuffleFlags(fs, &f.shuffle)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printBuildUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.shuffle.seedSet = fs.Changed("seed")

	return f, fs.Args(), nil
}
