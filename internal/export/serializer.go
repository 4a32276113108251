package export

import (
	"bytes"
	"io"
	"strconv"
)

// Serialize converts a structured object back into the exact byte
// layout git-fast-import accepts. It is a pure function; writing the
// result anywhere is the caller's concern.
//
// The commit data length is recomputed from the raw message bytes. The
// blob data length re-emits the originally captured token, so a blob
// whose declared length matched its payload round-trips byte-for-byte.
func Serialize(obj *Object) []byte {
	var buf bytes.Buffer

	if obj.HasFeatureDone {
		buf.WriteString("feature done\n")
	}
	if obj.ResetRef != "" {
		buf.WriteString("reset ")
		buf.WriteString(obj.ResetRef)
		buf.WriteByte('\n')
		if obj.ResetFrom != "" {
			buf.WriteString("from ")
			buf.WriteString(obj.ResetFrom)
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	switch obj.Kind {
	case KindCommit:
		writeCommit(&buf, obj.Commit)
	case KindBlob:
		writeBlob(&buf, obj)
	}

	return buf.Bytes()
}

// Write serializes obj and writes the block to w.
func Write(w io.Writer, obj *Object) error {
	_, err := w.Write(Serialize(obj))
	return err
}

func writeCommit(buf *bytes.Buffer, commit *Commit) {
	buf.WriteString("commit ")
	buf.WriteString(commit.Ref)
	buf.WriteByte('\n')
	buf.WriteString("mark :")
	buf.WriteString(strconv.Itoa(commit.Mark))
	buf.WriteByte('\n')
	buf.WriteString("original-oid ")
	buf.WriteString(commit.OriginalOID)
	buf.WriteByte('\n')
	if commit.Author != nil {
		writePerson(buf, *commit.Author, true)
	}
	writePerson(buf, commit.Committer, false)

	buf.WriteString("data ")
	buf.WriteString(strconv.Itoa(len(commit.Message)))
	buf.WriteByte('\n')
	buf.Write(commit.Message)
	buf.WriteByte('\n')

	for i, mark := range commit.Merges {
		// The first parent is a "from" relation, the rest are merges.
		if i == 0 {
			buf.WriteString("from :")
		} else {
			buf.WriteString("merge :")
		}
		buf.WriteString(strconv.Itoa(mark))
		buf.WriteByte('\n')
	}

	for _, op := range commit.FileOps {
		writeFileOp(buf, op)
	}
	buf.WriteByte('\n')
}

func writeBlob(buf *bytes.Buffer, obj *Object) {
	blob := obj.Blob
	buf.WriteString("blob\n")
	buf.WriteString("mark :")
	buf.WriteString(strconv.Itoa(blob.Mark))
	buf.WriteByte('\n')
	buf.WriteString("original-oid ")
	buf.WriteString(blob.OriginalOID)
	buf.WriteByte('\n')
	buf.WriteString("data ")
	buf.WriteString(obj.DataSize)
	buf.WriteByte('\n')
	buf.Write(blob.Data)
	buf.WriteByte('\n')
}

func writePerson(buf *bytes.Buffer, person Person, isAuthor bool) {
	if isAuthor {
		buf.WriteString("author ")
	} else {
		buf.WriteString("committer ")
	}
	if person.Name != "" {
		buf.WriteString(person.Name)
		buf.WriteByte(' ')
	}
	buf.WriteByte('<')
	buf.WriteString(person.Email)
	buf.WriteString("> ")
	buf.WriteString(person.TimeStr)
	buf.WriteByte('\n')
}

func writeFileOp(buf *bytes.Buffer, op FileOp) {
	switch op.Kind {
	case FileOpModify:
		buf.WriteString("M ")
		buf.WriteString(op.Mode)
		buf.WriteByte(' ')
		buf.WriteString(op.DataRef)
		buf.WriteByte(' ')
		buf.WriteString(op.Path)
	case FileOpDelete:
		buf.WriteString("D ")
		buf.WriteString(op.Path)
	case FileOpCopy:
		buf.WriteString("C ")
		buf.WriteString(op.Src)
		buf.WriteByte(' ')
		buf.WriteString(op.Dst)
	case FileOpRename:
		buf.WriteString("R ")
		buf.WriteString(op.Src)
		buf.WriteByte(' ')
		buf.WriteString(op.Dst)
	case FileOpDeleteAll:
		buf.WriteString("deleteall")
	case FileOpNoteModify:
		buf.WriteString("N ")
		buf.WriteString(op.DataRef)
		buf.WriteByte(' ')
		buf.WriteString(op.Commitish)
	}
	buf.WriteByte('\n')
}
