// Package gitrepo selects the repository refs an export run should
// cover. It reads refs only; checkout, rebase, and branch creation are
// the business of external tooling.
package gitrepo

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RefInfo is one candidate export ref.
type RefInfo struct {
	Name     string // full name, e.g. "refs/heads/master"
	Short    string // short name, e.g. "master"
	Hash     string
	IsBranch bool
	IsTag    bool
}

// SelectOptions configures ref selection.
type SelectOptions struct {
	RepoPath string
	Include  []string // Glob patterns on the short ref name
	Exclude  []string
	Tags     bool // Also list tags
}

// SelectRefs opens the repository and returns branch (and optionally
// tag) refs whose short names pass the include/exclude globs, in the
// order the repository yields them.
func SelectRefs(opts SelectOptions) ([]RefInfo, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	iter, err := repo.References()
	if err != nil {
		return nil, err
	}

	var refs []RefInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		if !name.IsBranch() && !(opts.Tags && name.IsTag()) {
			return nil
		}
		if !matchesGlobs(name.Short(), opts.Include, opts.Exclude) {
			return nil
		}
		refs = append(refs, RefInfo{
			Name:     name.String(),
			Short:    name.Short(),
			Hash:     ref.Hash().String(),
			IsBranch: name.IsBranch(),
			IsTag:    name.IsTag(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return refs, nil
}

// matchesGlobs checks a short ref name against include/exclude
// patterns. Exclude wins; an empty include list accepts everything.
func matchesGlobs(name string, include, exclude []string) bool {
	name = strings.ReplaceAll(name, "\\", "/")

	for _, pattern := range exclude {
		matched, _ := doublestar.Match(pattern, name)
		if matched {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, pattern := range include {
		matched, _ := doublestar.Match(pattern, name)
		if matched {
			return true
		}
	}

	return false
}

// ExportCommand renders the git fast-export invocation that would
// produce a stream covering refs. It is advice for the operator; this
// tool never starts the subprocess itself.
func ExportCommand(refs []RefInfo, withBlobs bool) string {
	parts := []string{"git", "fast-export", "--show-original-ids", "--signed-tags=strip", "--tag-of-filtered-object=drop"}
	if !withBlobs {
		parts = append(parts, "--no-data")
	}
	for _, ref := range refs {
		parts = append(parts, ref.Name)
	}
	return strings.Join(parts, " ")
}
