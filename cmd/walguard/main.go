// Command walguard is the CLI front end for the forensic WAL validator
// (spec §1 "out of scope, treated as an external collaborator": argument
// parsing and terminal reporting live here, never in the core library
// packages).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/lattice-data/walguard"
	"github.com/lattice-data/walguard/internal/validate"
)

const (
	exitNoIssues    = 0
	exitIssuesFound = 2
	exitRuntimeErr  = 1
)

// CLI is the full kong command tree. walguard has a single operation, so
// this is a flat set of flags rather than a verb hierarchy.
var CLI struct {
	Database string `arg:"" help:"Path to the SQLite database file." type:"existingfile"`
	WAL      string `help:"Path to the companion WAL file (defaults to <database>-wal)."`
	Config   string `help:"Path to an optional YAML configuration file." type:"existingfile"`
	Format   string `help:"Report format: text or json." default:"text" enum:"text,json"`
	Verbose  bool   `short:"v" help:"Enable debug-level pass tracing."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("walguard"),
		kong.Description("Offline forensic validator for a SQLite database and its WAL."),
		kong.UsageOnError(),
	)

	logger := newLogger(CLI.Verbose)

	walPath := CLI.WAL
	if walPath == "" {
		walPath = CLI.Database + "-wal"
	}

	cfg := validate.DefaultConfig()
	if CLI.Config != "" {
		loaded, err := validate.LoadConfig(CLI.Config)
		if err != nil {
			logger.WithError(err).Error("failed to load config")
			os.Exit(exitRuntimeErr)
		}
		cfg = loaded
	}

	rpt, err := walguard.Validate(context.Background(), CLI.Database, walPath, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("validation run failed")
		os.Exit(exitRuntimeErr)
	}

	switch CLI.Format {
	case "json":
		buf, err := rpt.MarshalJSON()
		if err != nil {
			logger.WithError(err).Error("failed to render report")
			os.Exit(exitRuntimeErr)
		}
		fmt.Println(string(buf))
	default:
		fmt.Print(rpt.Summary())
	}

	os.Exit(exitCode(rpt))
}

func exitCode(rpt *walguard.Report) int {
	if rpt.HasIssues() {
		return exitIssuesFound
	}
	return exitNoIssues
}

// newLogger configures a TextFormatter when stdout is a terminal, falling
// back to JSONFormatter otherwise so piped output stays structured
// (spec §10.2).
func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
