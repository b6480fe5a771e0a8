package infraformat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// defaultFallbackEncodings is the candidate order tried by
// WithRobustEncoding: the encodings commonly seen in Finnish survey
// archives.
var defaultFallbackEncodings = []string{
	"utf-8", "latin-1", "cp1252", "latin-6", "latin-2", "latin-3", "latin-5", "utf-16",
}

// encodings maps supported encoding names to their decoders. A nil entry
// means UTF-8, which needs validation rather than transformation.
var encodings = map[string]encoding.Encoding{
	"utf-8":   nil,
	"latin-1": charmap.ISO8859_1,
	"latin-2": charmap.ISO8859_2,
	"latin-3": charmap.ISO8859_3,
	"latin-5": charmap.ISO8859_9,
	"latin-6": charmap.ISO8859_10,
	"cp1252":  charmap.Windows1252,
	"utf-16":  unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
}

// ReadPath reads infraformat holes from a file, a directory or a glob
// pattern, in file enumeration order. A directory is read non-recursively;
// WithExtension restricts which files inside it are considered. A path
// or pattern resolving to nothing fails with ErrPathNotFound before any
// parsing.
func ReadPath(path string, opts ...ReadOption) (Holes, error) {
	cfg := newReadConfig(opts)
	files, err := resolvePath(path, cfg)
	if err != nil {
		return nil, err
	}
	var holes Holes
	for _, file := range files {
		fileHoles, err := readFile(file, cfg)
		if err != nil {
			return nil, err
		}
		holes = append(holes, fileHoles...)
	}
	return holes, nil
}

// ReadFile reads one infraformat file.
func ReadFile(path string, opts ...ReadOption) (Holes, error) {
	return readFile(path, newReadConfig(opts))
}

// resolvePath expands a file, directory or glob path into a file list.
func resolvePath(path string, cfg readConfig) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		pattern := "*"
		if cfg.extension != "" {
			ext := cfg.extension
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			pattern = "*" + ext
		}
		files, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return files, nil
	}
	files, err := filepath.Glob(path)
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return files, nil
}

// readFile loads, decompresses and decodes one file, then parses it.
// Each file establishes its own fileheader context from scratch.
//
// When the encoding fails and a fallback list is configured, the raw
// bytes are retried per candidate encoding. Parsing only starts once
// decoding succeeded, so a retry never observes partial state. A file
// that no candidate can decode is skipped, like the robust reader in
// legacy archive tooling.
func readFile(path string, cfg readConfig) (Holes, error) {
	data, err := loadBytes(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeBytes(data, cfg.encoding)
	if err != nil {
		if errors.Is(err, ErrUnknownEncoding) {
			return nil, err
		}
		if cfg.fallbacks == nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrEncoding, path, cfg.encoding)
		}
		decoded := false
		for _, name := range cfg.fallbacks {
			if name == cfg.encoding {
				continue
			}
			if text, err = decodeBytes(data, name); err == nil {
				decoded = true
				break
			}
		}
		if !decoded {
			return nil, nil
		}
	}
	return parseStream(strings.NewReader(text), path, cfg)
}

// loadBytes reads a file's content through its compression wrapper.
func loadBytes(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("infraformat: open %s: %w", path, err)
	}
	defer f.Close()

	r, closeCompression, err := compressionForPath(path).reader(f)
	if err != nil {
		return nil, fmt.Errorf("infraformat: open %s: %w", path, err)
	}
	data, err := io.ReadAll(r)
	if cerr := closeCompression(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("infraformat: read %s: %w", path, err)
	}
	return data, nil
}

// decodeBytes decodes raw bytes under the named encoding. UTF-8 input is
// validated rather than transformed.
func decodeBytes(data []byte, name string) (string, error) {
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if enc == nil {
		if !utf8.Valid(data) {
			return "", ErrEncoding
		}
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return string(decoded), nil
}
