package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	exam2pdf "github.com/alnah/go-exam2pdf"
	"github.com/alnah/go-exam2pdf/internal/config"
	"github.com/alnah/go-exam2pdf/internal/hints"
	"github.com/alnah/go-exam2pdf/internal/ui"
)

// commands lists the CLI's subcommands.
var commands = map[string]bool{
	"build":      true,
	"version":    true,
	"help":       true,
	"doctor":     true,
	"completion": true,
}

// isCommand reports whether name is a known subcommand (case-sensitive).
func isCommand(name string) bool {
	return commands[name]
}

// looksLikeExam reports whether path has an exam file extension.
func looksLikeExam(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// isDirectory reports whether path is an existing directory.
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// runMain is the testable entry point. Returns a process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd := args[1]
	switch cmd {
	case "version":
		printVersion(env.Stdout)
		return ExitSuccess
	case "help":
		runHelp(args[2:], env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(args[2:], env)
	case "completion":
		if err := runCompletion(args[2:], env); err != nil {
			fmt.Fprintf(env.Stderr, "Error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "build":
		return runBuildCommand(args[2:], env)
	}

	// Build is the default command: "exam2pdf exam.yaml" and
	// "exam2pdf ./exams" work without spelling out "build".
	if looksLikeExam(cmd) || isDirectory(cmd) || strings.HasPrefix(cmd, "-") {
		return runBuildCommand(args[1:], env)
	}

	fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// printVersion prints the version line.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "exam2pdf %s\n", Version)
}

// runBuildCommand resolves configuration, assembles the builder pool, and
// runs the build. Returns a process exit code.
func runBuildCommand(args []string, env *Environment) int {
	flags, positional, err := parseBuildFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		// pflag already printed the parse error and usage
		return ExitUsage
	}

	// .env files provide project-local overrides for CI and containers.
	// Absence is not an error.
	_ = godotenv.Load()

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Config file: flag > EXAM2PDF_CONFIG > built-in defaults
	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			printError(env.Stderr, fmt.Errorf("loading config: %w", err))
			return exitCodeFor(err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := validateWorkers(cfg.Build.Workers); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Build.TimeoutSeconds)
	if err != nil {
		printError(env.Stderr, err)
		return ExitUsage
	}

	opts, err := builderOptions(cfg, timeout)
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	poolSize := exam2pdf.ResolvePoolSize(cfg.Build.Workers)
	pool := exam2pdf.NewBuilderPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runBuild(ctx, positional, flags, cfg, &poolAdapter{pool: pool}, env); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runBuild orchestrates the build process.
func runBuild(ctx context.Context, positionalArgs []string, flags *buildFlags, cfg *config.Config, pool Pool, env *Environment) error {
	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	stamp, err := resolveStamp(cfg, env.Now)
	if err != nil {
		return err
	}

	exams, err := discoverExams(inputPath, outputDir, stamp)
	if err != nil {
		return fmt.Errorf("discovering exams: %w", err)
	}
	if len(exams) == 0 {
		return fmt.Errorf("no exam files found in %s", inputPath)
	}

	pageData, err := buildPageSettings(cfg)
	if err != nil {
		return err
	}

	footerData, err := buildFooterData(cfg, env.Now)
	if err != nil {
		return err
	}

	params := &buildParams{
		page:       pageData,
		footer:     footerData,
		shuffle:    buildShuffleSettings(flags, cfg),
		cfg:        cfg,
		skipKey:    cfg.Build.SkipKey,
		htmlOnly:   flags.outputMode.htmlOnly,
		htmlOutput: flags.outputMode.html,
	}

	// Acquire one builder up front so configuration errors (bad style
	// name, missing template set) surface once with a clean message
	// instead of once per worker.
	builder, err := pool.Acquire()
	if err != nil {
		return err
	}
	pool.Release(builder)

	printer := ui.NewPrinter(env.Stderr, flags.common.quiet, flags.common.verbose)
	printer.Verbosef("building %d exam(s) with %d worker(s)", len(exams), pool.Size())

	var bar *ui.ProgressBar
	var progress progressFunc
	if len(exams) > 1 && !flags.common.quiet && !flags.common.verbose {
		bar = ui.NewProgressBar(len(exams), env.Stderr)
		progress = bar.Update
	}

	results := buildBatch(ctx, pool, exams, params, progress)
	if bar != nil {
		bar.Finish()
	}

	summary := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)

	if len(results) > 1 {
		if summary.Failed > 0 {
			printer.Errorf("%d of %d builds failed", summary.Failed, len(results))
		} else {
			printer.Successf("built %d exams", summary.Succeeded)
		}
	}

	if summary.Failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d build(s) failed", summary.Failed)
	}

	return nil
}

// resolveInputPath determines the input path from positional args.
func resolveInputPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveTimeoutWithEnv resolves the PDF timeout from flag, env, and config.
// Priority: flag > environment > config. Returns 0 when nothing is set,
// which lets the library default apply.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configSeconds int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %v", flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %v", d)
		}
		return d, nil
	}

	if envValue > 0 {
		return envValue, nil
	}

	// Config negatives are rejected by config.Validate before this runs.
	if configSeconds > 0 {
		return time.Duration(configSeconds) * time.Second, nil
	}

	return 0, nil
}

// builderOptions assembles library options from resolved configuration.
func builderOptions(cfg *config.Config, timeout time.Duration) ([]exam2pdf.BuilderOption, error) {
	var opts []exam2pdf.BuilderOption

	if timeout > 0 {
		opts = append(opts, exam2pdf.WithTimeout(timeout))
	}

	// mergeFlags cleared cfg.CSS.Style for --no-style, and WithStyle("")
	// disables styling, so the value passes straight through.
	opts = append(opts, exam2pdf.WithStyle(cfg.CSS.Style))

	if cfg.Assets.BasePath != "" {
		opts = append(opts, exam2pdf.WithAssetPath(cfg.Assets.BasePath))
	}

	// Non-default template sets load up front so a bad name fails once,
	// not once per pooled builder.
	if cfg.Assets.TemplateSet != "" && cfg.Assets.TemplateSet != exam2pdf.DefaultTemplateSet {
		loader, err := exam2pdf.NewAssetLoader(cfg.Assets.BasePath)
		if err != nil {
			return nil, err
		}
		ts, err := loader.LoadTemplateSet(cfg.Assets.TemplateSet)
		if err != nil {
			return nil, err
		}
		opts = append(opts, exam2pdf.WithTemplateSet(ts))
	}

	return opts, nil
}

// printError writes err to w, appending an actionable hint when one applies.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v%s\n", err, hintFor(err))
}

// hintFor picks a hint for well-known failure modes.
func hintFor(err error) string {
	switch {
	case errors.Is(err, exam2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, exam2pdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(exam2pdf.ListStyles())
	case errors.Is(err, exam2pdf.ErrExamInvalid):
		return hints.ForExamValidation()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
