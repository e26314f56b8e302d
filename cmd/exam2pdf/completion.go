package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.yaml")
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"footer-position": {Values: []string{"left", "center", "right"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// buildFlagSet creates a FlagSet with all build command flags.
// This reuses the same flag registration as parseBuildFlags.
func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	f := &buildFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noDate, "no-date", false, "omit the date stamp from output names")
	fs.BoolVar(&f.noKey, "no-key", false, "build the exam paper only, skip the answer key")

	// Flag groups - same as parseBuildFlags
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addShuffleFlags(fs, &f.shuffle)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	buildFlags := extractFlagsFromFlagSet(buildFlagSet())

	return []commandDef{
		{
			Name:        "build",
			Desc:        "Build exam and answer key PDFs from exam files",
			Flags:       buildFlags,
			TakesFiles:  true,
			FilePattern: "*.yaml,*.yml",
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Flags: nil,
		},
		{
			Name:  "doctor",
			Desc:  "Check the environment for PDF generation",
			Flags: nil,
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Flags: nil,
		},
	}
}

// commandNames collects the registry's command names.
func commandNames(cmds []commandDef) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

// buildCommand returns the build command definition from the registry.
func buildCommand(cmds []commandDef) commandDef {
	for _, c := range cmds {
		if c.Name == "build" {
			return c
		}
	}
	return commandDef{}
}

// flagWords collects flag tokens (-o, --output, ...) for word completion.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
		words = append(words, "--"+f.Long)
	}
	return words
}

// extAlternatives converts "*.yaml,*.yml" to "yaml|yml" for glob patterns.
func extAlternatives(glob string) string {
	parts := strings.Split(glob, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(p), "*."))
	}
	return strings.Join(exts, "|")
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// generateBash writes a bash completion script driven by the command registry.
func generateBash(w io.Writer) error {
	cmds := getCommands()
	build := buildCommand(cmds)

	var b strings.Builder
	b.WriteString("# bash completion for exam2pdf\n")
	b.WriteString("# Install: eval \"$(exam2pdf completion bash)\"\n\n")
	b.WriteString("_exam2pdf_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	fmt.Fprintf(&b, "    local commands=\"%s\"\n\n", strings.Join(commandNames(cmds), " "))

	// First word: commands, exam files, or directories
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"$commands\" -- \"$cur\") )\n")
	fmt.Fprintf(&b, "        COMPREPLY+=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") )\n", extAlternatives(build.FilePattern))
	b.WriteString("        COMPREPLY+=( $(compgen -d -- \"$cur\") )\n")
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	// Flag value completion
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range build.Flags {
		if arm := bashFlagArm(f); arm != "" {
			b.WriteString(arm)
		}
	}
	b.WriteString("    esac\n\n")

	// Per-command completion
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	b.WriteString("        build|*.yaml|*.yml)\n")
	b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(flagWords(build.Flags), " "))
	b.WriteString("            else\n")
	fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") )\n", extAlternatives(build.FilePattern))
	b.WriteString("                COMPREPLY+=( $(compgen -d -- \"$cur\") )\n")
	b.WriteString("            fi\n")
	b.WriteString("            ;;\n")
	b.WriteString("        help)\n")
	b.WriteString("            COMPREPLY=( $(compgen -W \"$commands\" -- \"$cur\") )\n")
	b.WriteString("            ;;\n")
	b.WriteString("        completion)\n")
	b.WriteString("            COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"$cur\") )\n")
	b.WriteString("            ;;\n")
	b.WriteString("        doctor)\n")
	b.WriteString("            COMPREPLY=( $(compgen -W \"--json\" -- \"$cur\") )\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _exam2pdf_completions exam2pdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// bashFlagArm emits a bash case arm completing the value of one flag.
func bashFlagArm(f flagDef) string {
	pattern := "--" + f.Long
	if f.Short != "" {
		pattern = "-" + f.Short + "|" + pattern
	}
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf("        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n            return 0\n            ;;\n",
			pattern, strings.Join(f.Values, " "))
	case flagFile:
		return fmt.Sprintf("        %s)\n            COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") )\n            return 0\n            ;;\n",
			pattern, extAlternatives(f.FileGlob))
	case flagDir:
		return fmt.Sprintf("        %s)\n            COMPREPLY=( $(compgen -d -- \"$cur\") )\n            return 0\n            ;;\n",
			pattern)
	}
	return ""
}

// generateZsh writes a zsh completion script driven by the command registry.
func generateZsh(w io.Writer) error {
	cmds := getCommands()
	build := buildCommand(cmds)

	var b strings.Builder
	b.WriteString("#compdef exam2pdf\n")
	b.WriteString("# zsh completion for exam2pdf\n")
	b.WriteString("# Install: eval \"$(exam2pdf completion zsh)\"\n\n")

	b.WriteString("_exam2pdf_build() {\n")
	b.WriteString("    _arguments \\\n")
	for _, f := range build.Flags {
		for _, spec := range zshSpecs(f) {
			b.WriteString("        " + spec + " \\\n")
		}
	}
	fmt.Fprintf(&b, "        '*:exam file:_files -g \"*.(%s)\"'\n", extAlternatives(build.FilePattern))
	b.WriteString("}\n\n")

	b.WriteString("_exam2pdf() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, c.Desc)
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	fmt.Fprintf(&b, "        _files -g \"*.(%s)\"\n", extAlternatives(build.FilePattern))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case $words[2] in\n")
	b.WriteString("        build|*.yaml|*.yml)\n")
	b.WriteString("            _exam2pdf_build\n")
	b.WriteString("            ;;\n")
	b.WriteString("        help)\n")
	b.WriteString("            _describe 'command' commands\n")
	b.WriteString("            ;;\n")
	b.WriteString("        completion)\n")
	b.WriteString("            local -a shells\n")
	b.WriteString("            shells=('bash:Bash' 'zsh:Zsh' 'fish:Fish' 'powershell:PowerShell')\n")
	b.WriteString("            _describe 'shell' shells\n")
	b.WriteString("            ;;\n")
	b.WriteString("        doctor)\n")
	b.WriteString("            _arguments '--json[output diagnostics as JSON]'\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_exam2pdf \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshSpecs renders _arguments specs for a flag. Flags with a shorthand
// expand to two specs that exclude each other.
func zshSpecs(f flagDef) []string {
	var action string
	switch f.Type {
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"*.(" + extAlternatives(f.FileGlob) + ")\""
	case flagDir:
		action = ":directory:_files -/"
	case flagBool:
		action = ""
	default:
		action = ":" + f.Long + ":"
	}

	desc := "[" + f.Desc + "]"
	if f.Short == "" {
		return []string{"'--" + f.Long + desc + action + "'"}
	}

	group := "(-" + f.Short + " --" + f.Long + ")"
	return []string{
		"'" + group + "-" + f.Short + desc + action + "'",
		"'" + group + "--" + f.Long + desc + action + "'",
	}
}

// generateFish writes a fish completion script driven by the command registry.
func generateFish(w io.Writer) error {
	cmds := getCommands()
	build := buildCommand(cmds)

	var b strings.Builder
	b.WriteString("# fish completion for exam2pdf\n")
	b.WriteString("# Install: exam2pdf completion fish > ~/.config/fish/completions/exam2pdf.fish\n\n")

	b.WriteString("function __fish_exam2pdf_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")

	b.WriteString("function __fish_exam2pdf_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")

	b.WriteString("# Commands\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c exam2pdf -f -n __fish_exam2pdf_needs_command -a %s -d '%s'\n", c.Name, c.Desc)
	}
	b.WriteString("\n# Exam files as the default argument\n")
	b.WriteString("complete -c exam2pdf -n __fish_exam2pdf_needs_command -k -a '(__fish_complete_suffix .yaml .yml)'\n\n")

	b.WriteString("# Build flags\n")
	for _, f := range build.Flags {
		b.WriteString(fishSpec(f) + "\n")
	}

	b.WriteString("\n# Subcommand arguments\n")
	fmt.Fprintf(&b, "complete -c exam2pdf -f -n '__fish_exam2pdf_using_command help' -a '%s'\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("complete -c exam2pdf -f -n '__fish_exam2pdf_using_command completion' -a 'bash zsh fish powershell'\n")
	b.WriteString("complete -c exam2pdf -f -n '__fish_exam2pdf_using_command doctor' -l json -d 'Output diagnostics as JSON'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// fishSpec renders one complete statement for a build flag.
func fishSpec(f flagDef) string {
	var b strings.Builder
	b.WriteString("complete -c exam2pdf -n '__fish_exam2pdf_using_command build'")
	if f.Short != "" {
		b.WriteString(" -s " + f.Short)
	}
	b.WriteString(" -l " + f.Long)
	fmt.Fprintf(&b, " -d '%s'", f.Desc)
	switch f.Type {
	case flagEnum:
		fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
	case flagFile:
		b.WriteString(" -r")
	case flagDir:
		b.WriteString(" -x -a '(__fish_complete_directories)'")
	case flagBool:
		// flag takes no argument
	default:
		b.WriteString(" -x")
	}
	return b.String()
}

// generatePowerShell writes a PowerShell completion script driven by the
// command registry.
func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	build := buildCommand(cmds)

	var b strings.Builder
	b.WriteString("# powershell completion for exam2pdf\n")
	b.WriteString("# Install: exam2pdf completion powershell | Out-String | Invoke-Expression\n\n")

	b.WriteString("Register-ArgumentCompleter -Native -CommandName exam2pdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = @(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        @{ Name = '%s'; Desc = '%s' }\n", c.Name, c.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    $buildFlags = @(\n")
	for _, f := range build.Flags {
		fmt.Fprintf(&b, "        @{ Name = '--%s'; Desc = '%s' }\n", f.Long, f.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    $enumValues = @{\n")
	for _, f := range build.Flags {
		if f.Type == flagEnum {
			fmt.Fprintf(&b, "        '--%s' = @('%s')\n", f.Long, strings.Join(f.Values, "', '"))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $prev = ''\n")
	b.WriteString("    if ($elements.Count -gt 1) { $prev = $elements[-1] }\n")
	b.WriteString("    if ($prev -eq $wordToComplete -and $elements.Count -gt 2) { $prev = $elements[-2] }\n\n")

	b.WriteString("    $results = @()\n")
	b.WriteString("    if ($enumValues.ContainsKey($prev)) {\n")
	b.WriteString("        $results = $enumValues[$prev] | ForEach-Object { @{ Text = $_; Desc = $_ } }\n")
	b.WriteString("    } elseif ($elements.Count -le 2) {\n")
	b.WriteString("        $results = $commands | ForEach-Object { @{ Text = $_.Name; Desc = $_.Desc } }\n")
	b.WriteString("    } elseif ($wordToComplete -like '-*') {\n")
	b.WriteString("        $results = $buildFlags | ForEach-Object { @{ Text = $_.Name; Desc = $_.Desc } }\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $results |\n")
	b.WriteString("        Where-Object { $_.Text -like \"$wordToComplete*\" } |\n")
	b.WriteString("        ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Text, $_.Text, 'ParameterValue', $_.Desc)\n")
	b.WriteString("        }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exam2pdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(exam2pdf completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(exam2pdf completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    exam2pdf completion fish > ~/.config/fish/completions/exam2pdf.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    exam2pdf completion powershell | Out-String | Invoke-Expression")
}
