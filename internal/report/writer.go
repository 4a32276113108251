package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Format represents the output format type.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatNDJSON  Format = "ndjson"
)

// Options controls how a summary is rendered.
type Options struct {
	Format     Format
	Top        int    // number of authors to list, 0 = all
	OutputPath string // "" = stdout
}

// Writer renders a stream summary.
type Writer interface {
	Write(summary *Summary, options Options) error
}

// Compile-time interface conformance checks.
var (
	_ Writer = (*ConsoleWriter)(nil)
	_ Writer = (*JSONWriter)(nil)
	_ Writer = (*NDJSONWriter)(nil)
)

// NewWriter returns the writer for a format, defaulting to console.
func NewWriter(format Format) Writer {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatNDJSON:
		return &NDJSONWriter{}
	default:
		return &ConsoleWriter{}
	}
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// ConsoleWriter renders a human-readable colorized summary.
type ConsoleWriter struct{}

// Write outputs the summary to the console.
func (w *ConsoleWriter) Write(summary *Summary, options Options) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	title := color.New(color.FgGreen).Add(color.Underline)
	label := color.New(color.FgYellow)

	title.Fprintln(out, "Stream summary:")
	fmt.Fprintf(out, "\t%s %d (%d merges)\n", label.Sprint("commits:"), summary.Commits, summary.MergeCommits)
	fmt.Fprintf(out, "\t%s %d (%d bytes)\n", label.Sprint("blobs:"), summary.Blobs, summary.BlobBytes)
	fmt.Fprintf(out, "\t%s %d\n", label.Sprint("resets:"), summary.Resets)

	if len(summary.FileOps) > 0 {
		title.Fprintln(out, "File operations:")
		for _, kind := range []string{"modify", "delete", "copy", "rename", "deleteall", "notemodify"} {
			if count := summary.FileOps[kind]; count > 0 {
				fmt.Fprintf(out, "\t%s %d\n", label.Sprint(kind+":"), count)
			}
		}
	}

	authors := summary.TopAuthors(options.Top)
	if len(authors) > 0 {
		title.Fprintln(out, "Authors:")
		for _, author := range authors {
			fmt.Fprintf(out, "\t%s - %d commits\n", color.CyanString(author.Email), author.Commits)
		}
	}

	return nil
}

// JSONWriter renders the summary as a single indented JSON document.
type JSONWriter struct{}

type jsonReport struct {
	*Summary
	TopAuthors []AuthorCount `json:"topAuthors"`
}

// Write outputs the summary as JSON.
func (w *JSONWriter) Write(summary *Summary, options Options) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonReport{
		Summary:    summary,
		TopAuthors: summary.TopAuthors(options.Top),
	})
}

// NDJSONWriter renders the summary as NDJSON for CI pipelines: one
// summary line followed by one line per author.
type NDJSONWriter struct{}

type ndjsonSummary struct {
	Type         string `json:"type"`
	Commits      int    `json:"commits"`
	Blobs        int    `json:"blobs"`
	MergeCommits int    `json:"mergeCommits"`
	BlobBytes    int64  `json:"blobBytes"`
}

type ndjsonAuthor struct {
	Type    string `json:"type"`
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}

// Write outputs the summary as NDJSON.
func (w *NDJSONWriter) Write(summary *Summary, options Options) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	err = encoder.Encode(ndjsonSummary{
		Type:         "summary",
		Commits:      summary.Commits,
		Blobs:        summary.Blobs,
		MergeCommits: summary.MergeCommits,
		BlobBytes:    summary.BlobBytes,
	})
	if err != nil {
		return err
	}

	for _, author := range summary.TopAuthors(options.Top) {
		err := encoder.Encode(ndjsonAuthor{
			Type:    "author",
			Email:   author.Email,
			Commits: author.Commits,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
