// Package archive opens PGN files, decompressing .zst and .bz2 archives on
// the fly.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// Compression identifies how a file is stored.
type Compression int

const (
	None Compression = iota
	Zstd
	Bzip2
)

func (c Compression) String() string {
	switch c {
	case Zstd:
		return "zstd"
	case Bzip2:
		return "bzip2"
	default:
		return "none"
	}
}

// Detect picks the compression from the file extension.
func Detect(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".bz2":
		return Bzip2
	default:
		return None
	}
}

// File is an open PGN source. Size is the on-disk size, which for an
// archive is the compressed size.
type File struct {
	io.Reader

	Path        string
	Size        int64
	ModTime     time.Time
	Compression Compression

	file   *os.File
	closer io.Closer
}

// Open opens path for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from the command line
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	af := &File{Path: path, Size: st.Size(), ModTime: st.ModTime(), Compression: Detect(path), file: f}
	if af.Reader, af.closer, err = NewReader(f, af.Compression); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return af, nil
}

// NewReader wraps r in the decompressor for c. The returned closer, which
// may be nil, releases the decompressor but not r.
func NewReader(r io.Reader, c Compression) (io.Reader, io.Closer, error) {
	switch c {
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		rc := dec.IOReadCloser()
		return rc, rc, nil
	case Bzip2:
		br, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("bzip2: %w", err)
		}
		return br, br, nil
	default:
		return r, nil, nil
	}
}

// Seekable returns the underlying file when it can be read at arbitrary
// offsets, which is only true for uncompressed files.
func (f *File) Seekable() (*os.File, bool) {
	if f.Compression != None {
		return nil, false
	}
	return f.file, true
}

// Close releases the decompressor and the file.
func (f *File) Close() error {
	var err error
	if f.closer != nil {
		err = f.closer.Close()
	}
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}
