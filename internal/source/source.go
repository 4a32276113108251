// Package source opens the byte stream a pipeline run consumes: a
// captured export file, possibly compressed, or standard input.
package source

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression magic bytes. Captured export streams are often stored
// compressed; the opener sniffs these so callers never have to say
// which codec was used.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open returns a reader over the export stream at path. "-" or the
// empty string means standard input. Gzip- and zstd-compressed inputs
// are decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return Wrap(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := Wrap(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &closerChain{ReadCloser: rc, underlying: file}, nil
}

// Wrap sniffs the first bytes of r and returns a reader producing the
// decompressed stream, or the stream itself when no known compression
// magic is present.
func Wrap(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &zstdCloser{Decoder: zr}, nil
	default:
		return io.NopCloser(br), nil
	}
}

// zstdCloser adapts zstd.Decoder's Close (no error) to io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z *zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// closerChain closes the decompressor first, then the file under it.
type closerChain struct {
	io.ReadCloser
	underlying io.Closer
}

func (c *closerChain) Close() error {
	err := c.ReadCloser.Close()
	if uerr := c.underlying.Close(); err == nil {
		err = uerr
	}
	return err
}
