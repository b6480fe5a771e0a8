package infraformat

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compressionType identifies the stream compression of a file, detected
// from its extension. Infraformat archives are routinely shipped
// compressed.
type compressionType int

const (
	compressionNone compressionType = iota
	compressionGZ
	compressionBZ2
	compressionXZ
	compressionZSTD
)

// compression extensions
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// compressionForPath detects the compression type from the file name.
func compressionForPath(path string) compressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case extGZ:
		return compressionGZ
	case extBZ2:
		return compressionBZ2
	case extXZ:
		return compressionXZ
	case extZSTD:
		return compressionZSTD
	default:
		return compressionNone
	}
}

// stripCompressionExt removes a trailing compression extension so the
// format extension underneath can be inspected.
func stripCompressionExt(path string) string {
	switch compressionForPath(path) {
	case compressionNone:
		return path
	default:
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
}

// reader wraps r with a decompression reader. The returned close
// function must be called after reading.
func (c compressionType) reader(r io.Reader) (io.Reader, func() error, error) {
	switch c {
	case compressionNone:
		return r, func() error { return nil }, nil
	case compressionGZ:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, gz.Close, nil
	case compressionBZ2:
		// bzip2 readers need no closing
		return bzip2.NewReader(r), func() error { return nil }, nil
	case compressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xr, func() error { return nil }, nil
	case compressionZSTD:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr, func() error { zr.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression type: %v", int(c))
	}
}

// writer wraps w with a compression writer. The returned close function
// flushes and must be called before closing the underlying file.
func (c compressionType) writer(w io.Writer) (io.Writer, func() error, error) {
	switch c {
	case compressionNone:
		return w, func() error { return nil }, nil
	case compressionGZ:
		gz := gzip.NewWriter(w)
		return gz, gz.Close, nil
	case compressionBZ2:
		// no bzip2 writer in the standard library
		return nil, nil, errors.New("bzip2 compression is not supported for writing")
	case compressionXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("xz writer: %w", err)
		}
		return xw, xw.Close, nil
	case compressionZSTD:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression type: %v", int(c))
	}
}
