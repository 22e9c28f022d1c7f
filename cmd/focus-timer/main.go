// Package main provides the focus-timer CLI application.
//
// Focus Timer is a terminal Pomodoro timer. It counts down named focus
// sessions, records each finished session as Completed or Incomplete and
// keeps a persistent history with statistics.
package main

import (
	"flag"
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run(arguments []string) error {
	fs := flag.NewFlagSet("focus-timer", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	showVersion := fs.Bool("version", false, "show version information")

	if err := fs.Parse(arguments); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("focus-timer %s\n", version)
		return nil
	}

	args := fs.Args()
	if len(args) == 0 {
		return showUsage()
	}

	command := args[0]

	switch command {
	case "run", "start":
		return runRunCommand(*configPath, args[1:])
	case "history":
		return runHistoryCommand(*configPath, args[1:])
	case "stats":
		return runStatsCommand(*configPath, args[1:])
	case "delete":
		return runDeleteCommand(*configPath, args[1:])
	case "export":
		return runExportCommand(*configPath, args[1:])
	case "import":
		return runImportCommand(*configPath, args[1:])
	case "presets":
		return runPresetsCommand(*configPath)
	case "config":
		return runConfigCommand(*configPath, args[1:])
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runRunCommand runs the interactive timer.
func runRunCommand(configPath string, args []string) error {
	cmd, err := parseRunArgs(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseRunArgs parses run command flags.
func parseRunArgs(configPath string, args []string) (*runCommand, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	name := fs.String("name", "", "session name")
	preset := fs.Int("preset", 0, "session length in minutes (must be a configured preset)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &runCommand{
		name:       *name,
		preset:     *preset,
		configPath: configPath,
	}, nil
}

// runHistoryCommand runs the history command.
func runHistoryCommand(configPath string, args []string) error {
	cmd, err := parseHistoryArgs(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseHistoryArgs parses history command flags.
func parseHistoryArgs(configPath string, args []string) (*historyCommand, error) {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	format := fs.String("format", "", "output format (table, json, simple)")
	limit := fs.Int("limit", 0, "show only the N most recent sessions")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *limit < 0 {
		return nil, fmt.Errorf("invalid limit %d: must not be negative", *limit)
	}

	return &historyCommand{
		format:     *format,
		limit:      *limit,
		compact:    *compact,
		configPath: configPath,
	}, nil
}

// runStatsCommand runs the stats command.
func runStatsCommand(configPath string, args []string) error {
	cmd, err := parseStatsArgs(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseStatsArgs parses stats command flags.
func parseStatsArgs(configPath string, args []string) (*statsCommand, error) {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	groupBy := fs.String("group-by", "", "group by dimensions (comma-separated: date,name,status,preset)")
	topN := fs.Int("top", 0, "show top N session names by focus time")
	format := fs.String("format", "", "output format (table, json, simple)")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &statsCommand{
		groupBy:    *groupBy,
		topN:       *topN,
		format:     *format,
		compact:    *compact,
		configPath: configPath,
	}, nil
}

// runDeleteCommand runs the delete command.
func runDeleteCommand(configPath string, args []string) error {
	cmd, err := parseDeleteArgs(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseDeleteArgs parses delete command flags and the session id.
func parseDeleteArgs(configPath string, args []string) (*deleteCommand, error) {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	force := fs.Bool("force", false, "skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() < 1 {
		return nil, fmt.Errorf("usage: focus-timer delete [-force] <id>")
	}

	return &deleteCommand{
		id:         fs.Arg(0),
		force:      *force,
		configPath: configPath,
		in:         os.Stdin,
	}, nil
}

// runExportCommand runs the export command.
func runExportCommand(configPath string, args []string) error {
	cmd, err := parseExportArgs(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseExportArgs parses export command flags.
func parseExportArgs(configPath string, args []string) (*exportCommand, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "json", "output format: json, csv")
	output := fs.String("output", "", "output file path (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *format != "json" && *format != "csv" {
		return nil, fmt.Errorf("invalid format '%s': must be 'json' or 'csv'", *format)
	}

	return &exportCommand{
		format:     *format,
		output:     *output,
		configPath: configPath,
	}, nil
}

// runImportCommand runs the import command.
func runImportCommand(configPath string, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: focus-timer import <file.json>")
	}

	cmd := &importCommand{
		path:       fs.Arg(0),
		configPath: configPath,
	}

	return cmd.Execute()
}

// runPresetsCommand runs the presets command.
func runPresetsCommand(configPath string) error {
	cmd := &presetsCommand{
		configPath: configPath,
	}
	return cmd.Execute()
}

// runConfigCommand runs the config command.
func runConfigCommand(configPath string, args []string) error {
	cmd := &configCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// showUsage displays usage information.
func showUsage() error {
	usage := `Focus Timer - terminal Pomodoro timer with session history

Usage:
  focus-timer [flags] <command> [command flags]

Commands:
  run         Start the interactive timer
  history     List recorded sessions, newest first
  stats       Show totals, completion rate and grouped statistics
  delete      Delete a recorded session by id
  export      Export the session history (json, csv)
  import      Import sessions from a JSON export
  presets     List the configured session lengths
  config      Configuration management (show, path, reset)
  help        Show this help message

Global Flags:
  -config     Path to configuration file
  -version    Show version information

Run Command Flags:
  -name       Session name
  -preset     Session length in minutes

Run Command Keys:
  enter       Start or resume
  p           Pause
  s           Stop, then c (completed), i (incomplete) or x (cancel)
  r           Reset
  n           Rename the next session
  1-9         Select a preset while idle
  q           Quit

History Command Flags:
  -format     Output format (table, json, simple)
  -limit      Show only the N most recent sessions
  -compact    Compact output

Stats Command Flags:
  -group-by   Group by dimensions (comma-separated: date,name,status,preset)
  -top        Show top N session names by focus time
  -format     Output format (table, json, simple)
  -compact    Compact output

Examples:
  # Focus for 25 minutes
  focus-timer run -name "Write report" -preset 25

  # Show the last 10 sessions
  focus-timer history -limit 10

  # Show statistics per day
  focus-timer stats -group-by date

  # Delete a session without confirmation
  focus-timer delete -force 1760625000000

  # Export to CSV
  focus-timer export -format csv -output sessions.csv

  # Import a browser export
  focus-timer import pomodoro_sessions.json

Version: %s
`

	fmt.Printf(usage, version)
	return nil
}
