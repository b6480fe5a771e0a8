package infraformat

// Version is written into the default FO file header.
const Version = "1.2.0"

// ReadOption configures a read operation.
type ReadOption func(*readConfig)

// readConfig is the resolved read configuration. The illegal-line policy
// is a read-time choice and applies uniformly to the whole operation.
type readConfig struct {
	strict    bool
	encoding  string
	fallbacks []string
	extension string
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{encoding: "utf-8"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithStrict makes the first unclassifiable line abort the read of its
// file with a *ParseError. The default policy records illegal lines per
// hole and continues.
func WithStrict() ReadOption {
	return func(cfg *readConfig) { cfg.strict = true }
}

// WithEncoding sets the text encoding used to decode file bytes.
// Supported names: "utf-8", "latin-1", "latin-2", "latin-3", "latin-5",
// "latin-6", "cp1252", "utf-16". Default is "utf-8".
func WithEncoding(name string) ReadOption {
	return func(cfg *readConfig) { cfg.encoding = name }
}

// WithRobustEncoding retries files whose bytes are not decodable under
// the configured encoding against the given candidate encodings in
// order. With no arguments a default candidate list covering the
// encodings seen in Finnish survey archives is used.
func WithRobustEncoding(names ...string) ReadOption {
	return func(cfg *readConfig) {
		if len(names) == 0 {
			names = defaultFallbackEncodings
		}
		cfg.fallbacks = names
	}
}

// WithExtension restricts directory reads to files with the given
// extension (with or without the leading dot).
func WithExtension(ext string) ReadOption {
	return func(cfg *readConfig) { cfg.extension = ext }
}

// WriteOptions configures serialization back to infraformat text.
//
// Example:
//
//	options := NewWriteOptions().
//		WithComments(false).
//		WithCoordinateSystem("ETRS-GK25", "N2000")
//
//	err := holes.WriteFile("out.tek", options)
type WriteOptions struct {
	// Comments includes inline comment lines in the body.
	Comments bool
	// Illegal includes recorded illegal lines verbatim in the body.
	Illegal bool
	// SkipFileHeader drops the FO/KJ block, for appending to a file that
	// already carries one.
	SkipFileHeader bool
	// BodySpacer separates survey row fields.
	BodySpacer string
	// BodySpacerStart prefixes survey rows.
	BodySpacerStart string

	formatOverride *[3]string
	systemOverride *[2]string
}

// NewWriteOptions returns the default write options: comments included,
// illegal lines excluded, four-space body spacing, FO defaults and KJ
// synthesized as the mode across the written holes.
func NewWriteOptions() WriteOptions {
	return WriteOptions{
		Comments:        true,
		BodySpacer:      "    ",
		BodySpacerStart: "   ",
	}
}

// WithComments controls whether inline comments are written.
func (o WriteOptions) WithComments(include bool) WriteOptions {
	o.Comments = include
	return o
}

// WithIllegal controls whether recorded illegal lines are written back.
func (o WriteOptions) WithIllegal(include bool) WriteOptions {
	o.Illegal = include
	return o
}

// WithoutFileHeader drops the FO/KJ block from the output.
func (o WriteOptions) WithoutFileHeader() WriteOptions {
	o.SkipFileHeader = true
	return o
}

// WithFormatInfo overrides the FO line (format version, writing
// software, software version).
func (o WriteOptions) WithFormatInfo(version, software, softwareVersion string) WriteOptions {
	o.formatOverride = &[3]string{version, software, softwareVersion}
	return o
}

// WithCoordinateSystem overrides the KJ line instead of taking the mode
// of the written holes.
func (o WriteOptions) WithCoordinateSystem(system, heightReference string) WriteOptions {
	o.systemOverride = &[2]string{system, heightReference}
	return o
}
