package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gitpipe/gitpipe/internal/gitrepo"
	"github.com/urfave/cli/v2"
)

// RefsCmd creates the refs command: list the repository refs an export
// run should cover, and optionally the fast-export invocation that
// would produce the stream.
func RefsCmd() *cli.Command {
	return &cli.Command{
		Name:      "refs",
		Usage:     "Select export refs from a repository",
		ArgsUsage: "[repository path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to Git repository",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Glob patterns on short ref names to include (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns on short ref names to exclude (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "tags",
				Usage: "Include tags",
			},
			&cli.BoolFlag{
				Name:  "print-command",
				Usage: "Print the suggested git fast-export invocation",
			},
			&cli.BoolFlag{
				Name:  "no-blobs",
				Usage: "Suggest a stream without blob bodies (--no-data)",
			},
		},
		Action: refsAction,
	}
}

func refsAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	if c.NArg() > 0 {
		repoPath = c.Args().Get(0)
	}

	include := cfg.Refs.Include
	if patterns := c.StringSlice("include"); len(patterns) > 0 {
		include = patterns
	}
	exclude := cfg.Refs.Exclude
	if patterns := c.StringSlice("exclude"); len(patterns) > 0 {
		exclude = patterns
	}

	refs, err := gitrepo.SelectRefs(gitrepo.SelectOptions{
		RepoPath: repoPath,
		Include:  include,
		Exclude:  exclude,
		Tags:     c.Bool("tags") || cfg.Refs.Tags,
	})
	if err != nil {
		return fmt.Errorf("invalid Git repository - please run from or specify the full path to the root of the project: %w", err)
	}

	for _, ref := range refs {
		fmt.Printf("%s %s\n", color.YellowString(ref.Hash[:8]), ref.Name)
	}

	if c.Bool("print-command") {
		withBlobs := cfg.Stream.WithBlobs && !c.Bool("no-blobs")
		color.Green("%s", gitrepo.ExportCommand(refs, withBlobs))
	}

	return nil
}
