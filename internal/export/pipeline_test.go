package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// interleavedStream builds a stream whose records carry marks 1..n,
// with blobs at even marks when withBlobs is set.
func interleavedStream(n int, withBlobs bool) string {
	var b strings.Builder
	for mark := 1; mark <= n; mark++ {
		if withBlobs && mark%2 == 0 {
			b.WriteString(blobBlock(mark, fmt.Sprintf("blob %d\n", mark)))
		} else {
			b.WriteString(commitBlock(mark, fmt.Sprintf("commit %d\n", mark)))
		}
	}
	return b.String()
}

func markOf(obj *Object) int {
	if obj.Kind == KindBlob {
		return obj.Blob.Mark
	}
	return obj.Commit.Mark
}

func TestParse_Sequential(t *testing.T) {
	var marks []int
	err := Parse(strings.NewReader(interleavedStream(6, true)), func(obj *Object) error {
		marks = append(marks, markOf(obj))
		return nil
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for i, mark := range marks {
		if mark != i+1 {
			t.Errorf("marks[%d] = %d, expected %d", i, mark, i+1)
		}
	}
	if len(marks) != 6 {
		t.Errorf("delivered = %d records, expected 6", len(marks))
	}
}

func TestParseParallel_KeepsOrderAcrossWorkerCounts(t *testing.T) {
	stream := interleavedStream(40, false)
	for workers := 1; workers <= 6; workers++ {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			expected := 1
			err := ParseParallel(strings.NewReader(stream), workers, func(obj *Object) error {
				if markOf(obj) != expected {
					t.Errorf("got mark %d, expected %d", markOf(obj), expected)
				}
				expected++
				return nil
			})
			if err != nil {
				t.Fatalf("ParseParallel() error = %v", err)
			}
			if expected != 41 {
				t.Errorf("delivered = %d records, expected 40", expected-1)
			}
		})
	}
}

func TestParseParallel_ThreeCommitsFourWorkers(t *testing.T) {
	var marks []int
	err := ParseParallel(strings.NewReader(interleavedStream(3, false)), 4, func(obj *Object) error {
		if obj.Kind != KindCommit {
			t.Errorf("Kind = %v, expected commit", obj.Kind)
		}
		marks = append(marks, markOf(obj))
		return nil
	})
	if err != nil {
		t.Fatalf("ParseParallel() error = %v", err)
	}
	if len(marks) != 3 || marks[0] != 1 || marks[1] != 2 || marks[2] != 3 {
		t.Errorf("marks = %v, expected [1 2 3]", marks)
	}
}

func TestParseParallel_InterleavedBlobsSingleWorker(t *testing.T) {
	var marks []int
	var kinds []ObjectKind
	err := ParseParallel(strings.NewReader(interleavedStream(5, true)), 1, func(obj *Object) error {
		marks = append(marks, markOf(obj))
		kinds = append(kinds, obj.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("ParseParallel() error = %v", err)
	}

	expectedKinds := []ObjectKind{KindCommit, KindBlob, KindCommit, KindBlob, KindCommit}
	if len(marks) != 5 {
		t.Fatalf("delivered = %d records, expected 5", len(marks))
	}
	for i := range marks {
		if marks[i] != i+1 {
			t.Errorf("marks[%d] = %d, expected %d", i, marks[i], i+1)
		}
		if kinds[i] != expectedKinds[i] {
			t.Errorf("kinds[%d] = %v, expected %v", i, kinds[i], expectedKinds[i])
		}
	}
}

func TestParseParallel_OutputInvariantAcrossWorkerCounts(t *testing.T) {
	stream := interleavedStream(20, true)

	var baseline bytes.Buffer
	if err := Parse(strings.NewReader(stream), func(obj *Object) error {
		return Write(&baseline, obj)
	}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for workers := 1; workers <= 5; workers++ {
		var out bytes.Buffer
		err := ParseParallel(strings.NewReader(stream), workers, func(obj *Object) error {
			return Write(&out, obj)
		})
		if err != nil {
			t.Fatalf("ParseParallel(workers=%d) error = %v", workers, err)
		}
		if !bytes.Equal(baseline.Bytes(), out.Bytes()) {
			t.Errorf("workers=%d output differs from sequential output:\n%s",
				workers, diffBytes(baseline.Bytes(), out.Bytes()))
		}
	}
}

func TestParseParallel_DefaultWorkerCount(t *testing.T) {
	count := 0
	err := ParseParallel(strings.NewReader(interleavedStream(10, true)), 0, func(obj *Object) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("ParseParallel() error = %v", err)
	}
	if count != 10 {
		t.Errorf("delivered = %d records, expected 10", count)
	}
}

func TestParseParallel_CallbackErrorFailsFast(t *testing.T) {
	sentinel := errors.New("stop here")
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var marks []int
			err := ParseParallel(strings.NewReader(interleavedStream(30, false)), workers, func(obj *Object) error {
				if markOf(obj) == 3 {
					return sentinel
				}
				marks = append(marks, markOf(obj))
				return nil
			})
			if !errors.Is(err, sentinel) {
				t.Fatalf("ParseParallel() error = %v, expected sentinel", err)
			}
			// Nothing past the failing position may have been delivered.
			if len(marks) != 2 || marks[0] != 1 || marks[1] != 2 {
				t.Errorf("delivered marks = %v, expected [1 2]", marks)
			}
		})
	}
}

func TestParseParallel_ParseErrorReleasedAtItsPosition(t *testing.T) {
	stream := commitBlock(1, "ok\n") +
		"commit refs/heads/master\nmark :broken\ncommitter B <b@x> 1 +0000\ndata 2\nm\n\n" +
		commitBlock(3, "never\n")

	var marks []int
	err := ParseParallel(strings.NewReader(stream), 4, func(obj *Object) error {
		marks = append(marks, markOf(obj))
		return nil
	})

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseParallel() error = %v, expected *ParseError", err)
	}
	if perr.Index != 1 {
		t.Errorf("ParseError.Index = %d, expected 1", perr.Index)
	}
	if len(marks) != 1 || marks[0] != 1 {
		t.Errorf("delivered marks = %v, expected [1]", marks)
	}
}

func TestParseParallel_TokenizeErrorSurfacesAfterDrain(t *testing.T) {
	stream := commitBlock(1, "ok\n") + "blob\nmark :2\ndata nonsense\n"

	var marks []int
	err := ParseParallel(strings.NewReader(stream), 2, func(obj *Object) error {
		marks = append(marks, markOf(obj))
		return nil
	})

	var terr *TokenizeError
	if !errors.As(err, &terr) {
		t.Fatalf("ParseParallel() error = %v, expected *TokenizeError", err)
	}
	// The record before the framing error is still delivered.
	if len(marks) != 1 || marks[0] != 1 {
		t.Errorf("delivered marks = %v, expected [1]", marks)
	}
}

func TestParseParallel_EmptyStream(t *testing.T) {
	called := false
	err := ParseParallel(strings.NewReader(""), 3, func(obj *Object) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("ParseParallel() error = %v", err)
	}
	if called {
		t.Errorf("callback invoked on empty stream")
	}
}
