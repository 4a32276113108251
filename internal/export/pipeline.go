package export

import (
	"container/heap"
	"fmt"
	"io"
	"runtime"
	"sync"
)

// Parse is the sequential entry point: tokenize r, build each record,
// and hand every structured object to cb in stream order. An error
// from cb aborts the run and is returned as-is.
func Parse(r io.Reader, cb func(*Object) error) error {
	tok := NewTokenizer(r)
	for {
		raw, err := tok.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		obj, err := Build(raw)
		if err != nil {
			return err
		}
		if err := cb(obj); err != nil {
			return err
		}
	}
}

// indexedRaw pairs a raw record with its zero-based stream position.
type indexedRaw struct {
	index int
	raw   *RawRecord
}

// indexedResult is a build outcome tagged with its stream position.
// Errors travel the same path as objects so they are released at the
// failing record's position.
type indexedResult struct {
	index int
	obj   *Object
	err   error
}

// resultHeap is a min-heap of build results ordered by stream index,
// owned exclusively by the reassembly goroutine.
type resultHeap []indexedResult

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].index < h[j].index }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(indexedResult)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ParseParallel overlaps tokenizing with structured building across
// worker goroutines while delivering objects to cb in the exact order
// their records appeared in the stream, for any worker count.
//
// workers <= 0 resolves to max(1, NumCPU-2), reserving capacity for
// the tokenizer and the reassembly goroutine. Dispatch is a fixed
// index-mod-workers assignment: a slow worker stalls only its own
// fraction of the stream, and ordering reasoning stays simple.
//
// A build error is returned once reassembly reaches the failing
// record's position; an error from cb aborts immediately. Either way,
// objects still buffered or in flight are dropped, never delivered.
func ParseParallel(r io.Reader, workers int, cb func(*Object) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU() - 2
		if workers < 1 {
			workers = 1
		}
	}

	// Closed on early return so the tokenizer and workers stop at
	// their next send instead of blocking forever.
	done := make(chan struct{})
	defer close(done)

	results := make(chan indexedResult, workers)
	inbound := make([]chan indexedRaw, workers)
	var wg sync.WaitGroup
	for i := range inbound {
		inbound[i] = make(chan indexedRaw, 16)
		wg.Add(1)
		go func(in <-chan indexedRaw) {
			defer wg.Done()
			for item := range in {
				obj, err := Build(item.raw)
				if perr, ok := err.(*ParseError); ok {
					perr.Index = item.index
				}
				select {
				case results <- indexedResult{index: item.index, obj: obj, err: err}:
				case <-done:
					return
				}
			}
		}(inbound[i])
	}

	// The tokenizer goroutine owns all stream I/O. Its own error is
	// surfaced only after the reassembly loop drains.
	tokErr := make(chan error, 1)
	go func() {
		defer func() {
			for _, ch := range inbound {
				close(ch)
			}
		}()
		tok := NewTokenizer(r)
		index := 0
		for {
			raw, err := tok.Next()
			if err == io.EOF {
				tokErr <- nil
				return
			}
			if err != nil {
				tokErr <- err
				return
			}
			select {
			case inbound[index%workers] <- indexedRaw{index: index, raw: raw}:
			case <-done:
				tokErr <- nil
				return
			}
			index++
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Reassembly runs on the calling goroutine: deliver the expected
	// index immediately, buffer everything else, then drain the heap
	// while its minimum stays consecutive.
	expected := 0
	pending := &resultHeap{}
	deliver := func(res indexedResult) error {
		if res.err != nil {
			return res.err
		}
		if err := cb(res.obj); err != nil {
			return err
		}
		expected++
		return nil
	}
	for res := range results {
		if res.index == expected {
			if err := deliver(res); err != nil {
				return err
			}
		} else {
			heap.Push(pending, res)
		}
		for pending.Len() > 0 && (*pending)[0].index == expected {
			if err := deliver(heap.Pop(pending).(indexedResult)); err != nil {
				return err
			}
		}
	}

	if err := <-tokErr; err != nil {
		return err
	}
	if pending.Len() > 0 {
		return fmt.Errorf("pipeline: %d parsed records never released", pending.Len())
	}
	return nil
}
