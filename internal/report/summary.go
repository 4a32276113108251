// Package report summarizes a parsed export stream and renders the
// summary in several output formats.
package report

import (
	"sort"

	"github.com/gitpipe/gitpipe/internal/export"
)

// Summary accumulates per-stream tallies as objects are delivered.
type Summary struct {
	Commits      int   `json:"commits"`
	Blobs        int   `json:"blobs"`
	MergeCommits int   `json:"mergeCommits"`
	Resets       int   `json:"resets"`
	BlobBytes    int64 `json:"blobBytes"`
	MessageBytes int64 `json:"messageBytes"`

	FileOps map[string]int `json:"fileOps"` // fileop kind -> count
	Authors map[string]int `json:"authors"` // author email -> commits
}

// NewSummary returns an empty summary ready to accumulate objects.
func NewSummary() *Summary {
	return &Summary{
		FileOps: map[string]int{},
		Authors: map[string]int{},
	}
}

// Add folds one structured object into the tallies.
func (s *Summary) Add(obj *export.Object) {
	if obj.ResetRef != "" {
		s.Resets++
	}

	switch obj.Kind {
	case export.KindCommit:
		commit := obj.Commit
		s.Commits++
		s.MessageBytes += int64(len(commit.Message))
		if len(commit.Merges) > 1 {
			s.MergeCommits++
		}
		for _, op := range commit.FileOps {
			s.FileOps[op.Kind.String()]++
		}
		person := commit.Committer
		if commit.Author != nil {
			person = *commit.Author
		}
		s.Authors[person.Email]++
	case export.KindBlob:
		s.Blobs++
		s.BlobBytes += int64(len(obj.Blob.Data))
	}
}

// Objects returns the total number of records summarized.
func (s *Summary) Objects() int {
	return s.Commits + s.Blobs
}

// AuthorCount pairs an author email with a commit count.
type AuthorCount struct {
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}

// TopAuthors returns authors ranked by commit count, most active
// first, ties broken by email for stable output.
func (s *Summary) TopAuthors(top int) []AuthorCount {
	ranked := make([]AuthorCount, 0, len(s.Authors))
	for email, count := range s.Authors {
		ranked = append(ranked, AuthorCount{Email: email, Commits: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Commits != ranked[j].Commits {
			return ranked[i].Commits > ranked[j].Commits
		}
		return ranked[i].Email < ranked[j].Email
	})
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	return ranked
}
