package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exam2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build exam and answer key PDFs from exam files")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w, "  doctor      Check the environment for PDF generation")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build is the default command: 'exam2pdf midterm.yaml' builds midterm.yaml.")
	fmt.Fprintln(w, "Run 'exam2pdf help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exam2pdf build <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build exam and answer key PDFs from YAML exam files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Exam file (.yaml, .yml) or directory to scan recursively")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --no-date             Omit the date stamp from output names")
	fmt.Fprintln(w, "      --no-key              Build the exam paper only, skip the answer key")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal (default: letter)")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape (default: portrait)")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches, 0.25-3.0 (default: 0.5)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-position <s> Position: left, center, right")
	fmt.Fprintln(w, "      --footer-text <s>     Custom footer text (course name, term)")
	fmt.Fprintln(w, "      --footer-page-number  Show page numbers")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shuffling:")
	fmt.Fprintln(w, "      --shuffle-questions   Randomize question order")
	fmt.Fprintln(w, "      --shuffle-answers     Randomize answer option order")
	fmt.Fprintln(w, "      --seed <n>            Shuffle seed for reproducible order")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w, "      --template <s>        Template set name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debugging:")
	fmt.Fprintln(w, "      --html                Output HTML alongside PDFs")
	fmt.Fprintln(w, "      --html-only           Output HTML only, skip PDFs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  EXAM2PDF_CONFIG, EXAM2PDF_STYLE, EXAM2PDF_TIMEOUT, EXAM2PDF_OUTPUT_DIR,")
	fmt.Fprintln(w, "  EXAM2PDF_WORKERS, EXAM2PDF_DATE_FORMAT")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit Codes:")
	fmt.Fprintln(w, "  0  Success")
	fmt.Fprintln(w, "  1  General error")
	fmt.Fprintln(w, "  2  Usage or configuration error")
	fmt.Fprintln(w, "  3  I/O error")
	fmt.Fprintln(w, "  4  Browser error")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  exam2pdf midterm.yaml")
	fmt.Fprintln(w, "  exam2pdf build exams/ -o dist/ --shuffle-questions --seed 42")
	fmt.Fprintln(w, "  exam2pdf build final.yaml --no-key --footer-text \"Physics 101\"")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: exam2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: exam2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: exam2pdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, environment, and system readiness for PDF generation.")
	case "completion":
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
