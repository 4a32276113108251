package report

import (
	"testing"

	"github.com/gitpipe/gitpipe/internal/export"
)

func commitObject(mark int, authorEmail string, merges []int, ops ...export.FileOp) *export.Object {
	commit := &export.Commit{
		Ref:       "refs/heads/master",
		Mark:      mark,
		Committer: export.Person{Email: "committer@example.com", TimeStr: "1 +0000"},
		Message:   []byte("msg\n"),
		Merges:    merges,
		FileOps:   ops,
	}
	if authorEmail != "" {
		commit.Author = &export.Person{Email: authorEmail, TimeStr: "1 +0000"}
	}
	return &export.Object{Kind: export.KindCommit, Commit: commit}
}

func blobObject(mark, size int) *export.Object {
	return &export.Object{
		Kind: export.KindBlob,
		Blob: &export.Blob{Mark: mark, Data: make([]byte, size)},
	}
}

func TestSummary_Add(t *testing.T) {
	summary := NewSummary()
	summary.Add(commitObject(1, "a@x", nil,
		export.FileOp{Kind: export.FileOpModify},
		export.FileOp{Kind: export.FileOpModify},
		export.FileOp{Kind: export.FileOpDelete}))
	summary.Add(blobObject(2, 100))
	summary.Add(commitObject(3, "a@x", []int{1, 2}))
	summary.Add(blobObject(4, 50))
	reset := commitObject(5, "b@x", []int{3})
	reset.ResetRef = "refs/heads/topic"
	summary.Add(reset)

	if summary.Commits != 3 {
		t.Errorf("Commits = %d, expected 3", summary.Commits)
	}
	if summary.Blobs != 2 {
		t.Errorf("Blobs = %d, expected 2", summary.Blobs)
	}
	if summary.Objects() != 5 {
		t.Errorf("Objects() = %d, expected 5", summary.Objects())
	}
	if summary.MergeCommits != 1 {
		t.Errorf("MergeCommits = %d, expected 1", summary.MergeCommits)
	}
	if summary.Resets != 1 {
		t.Errorf("Resets = %d, expected 1", summary.Resets)
	}
	if summary.BlobBytes != 150 {
		t.Errorf("BlobBytes = %d, expected 150", summary.BlobBytes)
	}
	if summary.FileOps["modify"] != 2 {
		t.Errorf("FileOps[modify] = %d, expected 2", summary.FileOps["modify"])
	}
	if summary.FileOps["delete"] != 1 {
		t.Errorf("FileOps[delete] = %d, expected 1", summary.FileOps["delete"])
	}
	if summary.Authors["a@x"] != 2 {
		t.Errorf("Authors[a@x] = %d, expected 2", summary.Authors["a@x"])
	}
}

func TestSummary_CommitterCountedWhenAuthorAbsent(t *testing.T) {
	summary := NewSummary()
	summary.Add(commitObject(1, "", nil))

	if summary.Authors["committer@example.com"] != 1 {
		t.Errorf("Authors = %v, expected committer fallback", summary.Authors)
	}
}

func TestSummary_TopAuthors(t *testing.T) {
	summary := NewSummary()
	for i := 0; i < 5; i++ {
		summary.Add(commitObject(i, "busy@x", nil))
	}
	for i := 0; i < 2; i++ {
		summary.Add(commitObject(10+i, "alpha@x", nil))
		summary.Add(commitObject(20+i, "beta@x", nil))
	}

	ranked := summary.TopAuthors(0)
	if len(ranked) != 3 {
		t.Fatalf("TopAuthors(0) length = %d, expected 3", len(ranked))
	}
	if ranked[0].Email != "busy@x" || ranked[0].Commits != 5 {
		t.Errorf("ranked[0] = %+v, expected busy@x with 5", ranked[0])
	}
	// Ties resolve by email for stable output.
	if ranked[1].Email != "alpha@x" || ranked[2].Email != "beta@x" {
		t.Errorf("tie order = %q, %q, expected alpha@x then beta@x", ranked[1].Email, ranked[2].Email)
	}

	limited := summary.TopAuthors(1)
	if len(limited) != 1 {
		t.Errorf("TopAuthors(1) length = %d, expected 1", len(limited))
	}
}
