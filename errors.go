package infraformat

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the package. Wrapped errors can be tested
// with errors.Is.
var (
	// ErrPathNotFound indicates that an input path or glob pattern resolved
	// to no files. It is raised before any parsing begins.
	ErrPathNotFound = errors.New("infraformat: path not found")

	// ErrEncoding indicates that file bytes could not be decoded under the
	// requested text encoding.
	ErrEncoding = errors.New("infraformat: undecodable text encoding")

	// ErrUnknownEncoding indicates an encoding name with no registered decoder.
	ErrUnknownEncoding = errors.New("infraformat: unknown encoding name")

	// ErrFileExtension indicates an output path with an extension that does
	// not match the requested export format.
	ErrFileExtension = errors.New("infraformat: unexpected file extension")

	// ErrEmptyData indicates that an operation needs at least one hole or
	// one survey row and got none.
	ErrEmptyData = errors.New("infraformat: empty data")
)

// maxIllegalTextLen bounds the amount of offending text quoted in a
// ParseError message.
const maxIllegalTextLen = 100

// ParseError reports a line that could not be classified under any known
// tag or survey-method context. It is returned only under the strict
// read policy; the permissive policy records the same information as an
// IllegalLine on the hole instead.
type ParseError struct {
	// Path of the input file, empty when parsing from a reader.
	Path string
	// LineNumber is the zero-based line number within the input.
	LineNumber int
	// Text is the raw offending line.
	Text string
}

// Error implements the error interface. The offending text is truncated
// to 100 characters.
func (e *ParseError) Error() string {
	text := e.Text
	if len(text) > maxIllegalTextLen {
		text = text[:maxIllegalTextLen]
	}
	if e.Path != "" {
		return fmt.Sprintf("infraformat: %s: illegal line %d: %q", e.Path, e.LineNumber, text)
	}
	return fmt.Sprintf("infraformat: illegal line %d: %q", e.LineNumber, text)
}
