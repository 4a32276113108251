package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/gitpipe/gitpipe/internal/export"
	"github.com/gitpipe/gitpipe/internal/source"
	"github.com/urfave/cli/v2"
)

// CatCmd creates the cat command: parse a fast-export stream and
// re-emit it in the byte layout git-fast-import accepts.
func CatCmd() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Re-emit an export stream in fast-import format",
		ArgsUsage: "[stream file]",
		Flags: append(streamFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		),
		Action: catAction,
	}
}

func catAction(c *cli.Context) error {
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

	out := os.Stdout
	if path := c.String("output"); path != "" {
		out, err = os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	start := time.Now()
	writer := bufio.NewWriterSize(out, 64*1024)
	emit := func(obj *export.Object) error {
		return export.Write(writer, obj)
	}

	// Objects arrive in stream order either way, so the output is a
	// faithful re-emission regardless of worker count.
	if cfg.Stream.Workers == 1 {
		err = export.Parse(in, emit)
	} else {
		err = export.ParseParallel(in, cfg.Stream.Workers, emit)
	}
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nCompleted in %s\n", time.Since(start))
	return nil
}
