package export

import (
	"strconv"
	"strings"
)

// Build turns one raw record into a structured Object. It is pure and
// stateless across calls, which is what makes running it on arbitrary
// worker goroutines safe without synchronization.
//
// Unknown sub-directives inside a record are silently ignored; lines
// whose recognized shape cannot be parsed return a *ParseError.
func Build(raw *RawRecord) (*Object, error) {
	obj := &Object{
		HasFeatureDone: raw.HasFeatureDone,
		ResetRef:       raw.ResetRef,
		ResetFrom:      raw.ResetFrom,
		DataSize:       raw.DataSize,
		Kind:           raw.Kind,
	}

	switch raw.Kind {
	case KindCommit:
		commit, err := buildCommit(raw)
		if err != nil {
			return nil, err
		}
		obj.Commit = commit
	case KindBlob:
		blob, err := buildBlob(raw)
		if err != nil {
			return nil, err
		}
		obj.Blob = blob
	default:
		return nil, parseErrorf("unrecognized record kind %d", raw.Kind)
	}

	return obj, nil
}

func buildCommit(raw *RawRecord) (*Commit, error) {
	commit := &Commit{
		Ref:     strings.TrimPrefix(raw.CommandLine, "commit "),
		Message: raw.Data,
	}

	var haveCommitter bool
	for _, line := range raw.Header {
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "mark":
			mark, err := parseMarkRef(val)
			if err != nil {
				return nil, err
			}
			commit.Mark = mark
		case "original-oid":
			commit.OriginalOID = val
		case "author":
			person, err := parsePerson(val)
			if err != nil {
				return nil, err
			}
			commit.Author = &person
		case "committer":
			person, err := parsePerson(val)
			if err != nil {
				return nil, err
			}
			commit.Committer = person
			haveCommitter = true
		default:
			// e.g. "encoding"; not carried by the object model.
		}
	}
	if !haveCommitter {
		return nil, parseErrorf("commit %q has no committer line", commit.Ref)
	}

	for _, line := range raw.Trailer {
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "from", "merge":
			mark, err := parseMarkRef(val)
			if err != nil {
				return nil, err
			}
			commit.Merges = append(commit.Merges, mark)
		case "M", "D", "C", "R", "N", "deleteall":
			op, err := parseFileOp(key, val)
			if err != nil {
				return nil, err
			}
			commit.FileOps = append(commit.FileOps, op)
		default:
			// Unknown trailer directives are ignored.
		}
	}

	return commit, nil
}

func buildBlob(raw *RawRecord) (*Blob, error) {
	blob := &Blob{Data: raw.Data}
	for _, line := range raw.Header {
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "mark":
			mark, err := parseMarkRef(val)
			if err != nil {
				return nil, err
			}
			blob.Mark = mark
		case "original-oid":
			blob.OriginalOID = val
		}
	}
	return blob, nil
}

// parseMarkRef parses a ":N" mark reference into its integer value.
func parseMarkRef(val string) (int, error) {
	num, ok := strings.CutPrefix(val, ":")
	if !ok {
		return 0, parseErrorf("mark reference %q does not start with ':'", val)
	}
	mark, err := strconv.Atoi(num)
	if err != nil {
		return 0, parseErrorf("invalid mark reference %q", val)
	}
	return mark, nil
}

// parsePerson splits "[name ]<email> timestr" into its parts. The name
// is optional; the email is always bracketed.
func parsePerson(val string) (Person, error) {
	open := strings.IndexByte(val, '<')
	if open < 0 {
		return Person{}, parseErrorf("person line %q has no '<'", val)
	}
	end := strings.IndexByte(val[open:], '>')
	if end < 0 {
		return Person{}, parseErrorf("person line %q has no '>'", val)
	}
	end += open

	person := Person{
		Name:    strings.TrimSuffix(val[:open], " "),
		Email:   val[open+1 : end],
		TimeStr: strings.TrimPrefix(val[end+1:], " "),
	}
	return person, nil
}

// parseFileOp dispatches one file-operation line on its keyword.
func parseFileOp(key, rest string) (FileOp, error) {
	switch key {
	case "M":
		parts := strings.SplitN(rest, " ", 3)
		if len(parts) != 3 {
			return FileOp{}, parseErrorf("malformed modify fileop %q", rest)
		}
		return FileOp{Kind: FileOpModify, Mode: parts[0], DataRef: parts[1], Path: parts[2]}, nil
	case "D":
		if rest == "" {
			return FileOp{}, parseErrorf("delete fileop missing path")
		}
		return FileOp{Kind: FileOpDelete, Path: rest}, nil
	case "C":
		src, dst, ok := strings.Cut(rest, " ")
		if !ok {
			return FileOp{}, parseErrorf("malformed copy fileop %q", rest)
		}
		return FileOp{Kind: FileOpCopy, Src: src, Dst: dst}, nil
	case "R":
		src, dst, ok := strings.Cut(rest, " ")
		if !ok {
			return FileOp{}, parseErrorf("malformed rename fileop %q", rest)
		}
		return FileOp{Kind: FileOpRename, Src: src, Dst: dst}, nil
	case "deleteall":
		return FileOp{Kind: FileOpDeleteAll}, nil
	case "N":
		dataref, commitish, ok := strings.Cut(rest, " ")
		if !ok {
			return FileOp{}, parseErrorf("malformed notemodify fileop %q", rest)
		}
		return FileOp{Kind: FileOpNoteModify, DataRef: dataref, Commitish: commitish}, nil
	default:
		return FileOp{}, parseErrorf("unknown fileop keyword %q", key)
	}
}
