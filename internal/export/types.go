package export

// ObjectKind identifies the top-level record variant.
type ObjectKind int

const (
	KindCommit ObjectKind = iota
	KindBlob
)

// String returns a string representation of the object kind.
func (k ObjectKind) String() string {
	switch k {
	case KindCommit:
		return "commit"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Object is one fully parsed top-level record from a fast-export stream.
// Every field is owned by the object; nothing references the input buffer,
// so objects can cross goroutine boundaries and outlive the stream.
type Object struct {
	// HasFeatureDone records whether a "feature done" marker preceded
	// this record in the stream.
	HasFeatureDone bool

	// ResetRef is the target ref of a reset block attached to this
	// record, empty when the record carries no reset.
	ResetRef string

	// ResetFrom is the optional "from" line of the reset block.
	ResetFrom string

	// DataSize is the literal length token of the data block, captured
	// verbatim from the stream. Blob serialization re-emits it unchanged.
	DataSize string

	Kind   ObjectKind
	Commit *Commit // set when Kind == KindCommit
	Blob   *Blob   // set when Kind == KindBlob
}

// Commit holds the structured form of a commit record.
type Commit struct {
	// Ref is the branch the commit targets, e.g. "refs/heads/master".
	Ref string

	// Mark is the exporter-assigned integer handle for this commit.
	Mark int

	// OriginalOID is the source content hash, passed through unchanged.
	OriginalOID string

	// Author is nil when the commit carries no author line.
	Author    *Person
	Committer Person

	// Message holds the raw commit message bytes exactly as declared by
	// the data block. Keeping bytes rather than a decoded string means
	// the re-serialized length always matches the payload.
	Message []byte

	// Merges lists parent marks in stream order. The first entry is the
	// primary parent ("from"), the rest are merge parents ("merge").
	Merges []int

	// FileOps lists file operations in stream order.
	FileOps []FileOp
}

// Blob holds the structured form of a blob record. Data is the raw
// payload, no decoding applied.
type Blob struct {
	Mark        int
	OriginalOID string
	Data        []byte
}

// Person is one author/committer identity line. TimeStr is the
// already-formatted "<epoch> <tz-offset>" expression, kept opaque.
type Person struct {
	// Name is empty when the identity line has no name part. The wire
	// format cannot distinguish an empty name from an absent one.
	Name    string
	Email   string
	TimeStr string
}

// FileOpKind identifies the file-operation variant.
type FileOpKind int

const (
	FileOpModify FileOpKind = iota
	FileOpDelete
	FileOpCopy
	FileOpRename
	FileOpDeleteAll
	FileOpNoteModify
)

// String returns a string representation of the file-operation kind.
func (k FileOpKind) String() string {
	switch k {
	case FileOpModify:
		return "modify"
	case FileOpDelete:
		return "delete"
	case FileOpCopy:
		return "copy"
	case FileOpRename:
		return "rename"
	case FileOpDeleteAll:
		return "deleteall"
	case FileOpNoteModify:
		return "notemodify"
	default:
		return "unknown"
	}
}

// FileOp is one file operation within a commit. Which fields are set
// depends on Kind:
//
//	Modify:     Mode, DataRef, Path
//	Delete:     Path
//	Copy:       Src, Dst
//	Rename:     Src, Dst
//	DeleteAll:  (none)
//	NoteModify: DataRef, Commitish
//
// DataRef is either a mark reference (":N") or a direct content hash.
type FileOp struct {
	Kind      FileOpKind
	Mode      string
	DataRef   string
	Path      string
	Src       string
	Dst       string
	Commitish string
}
