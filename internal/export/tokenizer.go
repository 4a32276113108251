package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// RawRecord is one tokenized top-level command plus its payload, prior
// to structural interpretation. The tokenizer resolves framing only:
// which lines belong to the record and where its data block ends.
type RawRecord struct {
	HasFeatureDone bool
	ResetRef       string
	ResetFrom      string

	Kind        ObjectKind
	CommandLine string   // e.g. "commit refs/heads/master", "blob"
	Header      []string // lines between the command and its data block
	DataSize    string   // literal length token from the "data <N>" line
	Data        []byte   // raw data payload, binary-safe
	Trailer     []string // lines after the data block (commits only)
}

// Tokenizer groups raw stream lines into one RawRecord per top-level
// command. It consumes the underlying reader; the sequence is finite
// and not restartable.
type Tokenizer struct {
	r       *bufio.Reader
	pending string
	hasPend bool
}

// NewTokenizer returns a tokenizer positioned at the start of an
// export stream. The stream must begin at a command boundary.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next yields the next raw record, or io.EOF once the stream is
// exhausted. Framing problems surface as *TokenizeError.
func (t *Tokenizer) Next() (*RawRecord, error) {
	rec := &RawRecord{}
	for {
		line, err := t.readLine()
		if err == io.EOF {
			// A trailing feature/reset block with no following
			// commit or blob has nothing to attach to; drop it.
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}

		switch {
		case line == "":
			// Blank separator between records.
		case line == "feature done":
			rec.HasFeatureDone = true
		case strings.HasPrefix(line, "feature "):
			// Other feature declarations carry no payload.
		case strings.HasPrefix(line, "reset "):
			rec.ResetRef = line[len("reset "):]
			if from, ok, err := t.peekPrefix("from "); err != nil {
				return nil, err
			} else if ok {
				rec.ResetFrom = from
			}
		case strings.HasPrefix(line, "commit "):
			rec.Kind = KindCommit
			rec.CommandLine = line
			return t.finishCommit(rec)
		case line == "blob" || strings.HasPrefix(line, "blob "):
			rec.Kind = KindBlob
			rec.CommandLine = line
			return t.finishBlob(rec)
		default:
			// Unknown top-level directives (done, progress,
			// checkpoint, alias internals) are skipped.
		}
	}
}

// finishCommit consumes header lines up to the data block, the message
// payload, and the trailer (from/merge/fileop lines) up to the point
// where a lookahead indicates the next top-level command begins.
func (t *Tokenizer) finishCommit(rec *RawRecord) (*RawRecord, error) {
	if err := t.readUntilData(rec); err != nil {
		return nil, err
	}
	for {
		line, err := t.readLine()
		if err == io.EOF {
			return rec, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return rec, nil
		}
		if isCommandStart(line) {
			t.unread(line)
			return rec, nil
		}
		rec.Trailer = append(rec.Trailer, line)
	}
}

// finishBlob consumes header lines and the raw payload. Blobs carry no
// trailer.
func (t *Tokenizer) finishBlob(rec *RawRecord) (*RawRecord, error) {
	if err := t.readUntilData(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// readUntilData collects header lines until the "data <N>" declaration,
// then reads exactly N raw bytes regardless of embedded newlines, plus
// the optional LF that terminates the data block.
func (t *Tokenizer) readUntilData(rec *RawRecord) error {
	for {
		line, err := t.readLine()
		if err == io.EOF {
			return &TokenizeError{Msg: "unexpected end of stream inside " + rec.Kind.String() + " record"}
		}
		if err != nil {
			return err
		}
		if !strings.HasPrefix(line, "data ") {
			rec.Header = append(rec.Header, line)
			continue
		}

		token := line[len("data "):]
		size, err := strconv.Atoi(token)
		if err != nil || size < 0 {
			return &TokenizeError{Line: line, Msg: "invalid data length token", Err: err}
		}
		rec.DataSize = token
		rec.Data = make([]byte, size)
		if _, err := io.ReadFull(t.r, rec.Data); err != nil {
			return &TokenizeError{Line: line, Msg: "truncated data payload", Err: err}
		}
		// The LF after a data block is optional in the format; eat it
		// so it is not mistaken for a record separator.
		if b, err := t.r.ReadByte(); err == nil && b != '\n' {
			t.r.UnreadByte()
		}
		return nil
	}
}

// isCommandStart reports whether a line opens a new top-level command.
func isCommandStart(line string) bool {
	return strings.HasPrefix(line, "commit ") ||
		line == "blob" || strings.HasPrefix(line, "blob ") ||
		strings.HasPrefix(line, "reset ") ||
		strings.HasPrefix(line, "feature ") ||
		strings.HasPrefix(line, "tag ") ||
		line == "done" || line == "checkpoint" ||
		strings.HasPrefix(line, "progress ")
}

// readLine returns the next line without its trailing newline. A final
// unterminated line is returned before io.EOF.
func (t *Tokenizer) readLine() (string, error) {
	if t.hasPend {
		t.hasPend = false
		return t.pending, nil
	}
	line, err := t.r.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
		return line, nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// peekPrefix consumes and returns the remainder of the next line if it
// starts with the given prefix, pushing the line back otherwise.
func (t *Tokenizer) peekPrefix(prefix string) (string, bool, error) {
	line, err := t.readLine()
	if err == io.EOF {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if strings.HasPrefix(line, prefix) {
		return line[len(prefix):], true, nil
	}
	t.unread(line)
	return "", false, nil
}

func (t *Tokenizer) unread(line string) {
	t.pending = line
	t.hasPend = true
}
