package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gitpipe/gitpipe/internal/export"
	"github.com/gitpipe/gitpipe/internal/report"
	"github.com/gitpipe/gitpipe/internal/source"
	"github.com/urfave/cli/v2"
)

// StatsCmd creates the stats command: parse a stream and print a
// summary of what it contains.
func StatsCmd() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Summarize the contents of an export stream",
		ArgsUsage: "[stream file]",
		Flags: append(streamFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (console, json, ndjson)",
			},
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"n"},
				Usage:   "Number of top authors to show",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		),
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := c.String("input")
	if c.NArg() > 0 {
		input = c.Args().Get(0)
	}

	in, err := source.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer in.Close()

	format := cfg.Report.Format
	if c.IsSet("format") {
		format = c.String("format")
	}
	top := cfg.Report.TopAuthors
	if c.IsSet("top") {
		top = c.Int("top")
	}

	start := time.Now()
	summary := report.NewSummary()
	err = export.ParseParallel(in, cfg.Stream.Workers, func(obj *export.Object) error {
		summary.Add(obj)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}

	writer := report.NewWriter(getReportFormat(format))
	err = writer.Write(summary, report.Options{
		Format:     getReportFormat(format),
		Top:        top,
		OutputPath: c.String("output"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%d objects in %s\n", summary.Objects(), time.Since(start))
	return nil
}
