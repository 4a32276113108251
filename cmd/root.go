package cmd

import (
	"fmt"
	"os"

	"github.com/gitpipe/gitpipe/config"
	"github.com/gitpipe/gitpipe/internal/report"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gitpipe",
		Usage:   "Parse, inspect and re-emit git fast-export streams",
		Version: "1.0.0",
		Commands: []*cli.Command{
			CatCmd(),
			StatsCmd(),
			RefsCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// Common flags shared across stream-consuming commands
func streamFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Export stream to read ('-' for stdin; .gz/.zst handled transparently)",
			Value:   "-",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Parallel builder workers (0 = derive from CPU count, 1 = sequential)",
		},
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("workers") {
		cfg.Stream.Workers = c.Int("workers")
	}

	return cfg, nil
}

// getReportFormat parses the output format flag.
func getReportFormat(s string) report.Format {
	switch s {
	case "json":
		return report.FormatJSON
	case "ndjson", "ci":
		return report.FormatNDJSON
	default:
		return report.FormatConsole
	}
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
