package infraformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// endingTag terminates a hole's line block. An optional free-text
// "Ending" field may follow it on the same line.
const endingTag = "-1"

// numberedLine is one non-blank input line with its zero-based position.
type numberedLine struct {
	num  int
	text string
}

// Read parses one infraformat stream. The stream may contain any number
// of holes; file-scoped header lines (FO, KJ) apply to every hole that
// follows them within this stream.
//
// Under the default permissive policy unclassifiable lines are recorded
// per hole (Hole.Illegal) and parsing continues. With WithStrict the
// first such line aborts the read with a *ParseError.
func Read(r io.Reader, opts ...ReadOption) (Holes, error) {
	cfg := newReadConfig(opts)
	return parseStream(r, "", cfg)
}

// parseStream runs the outer read loop: blank lines are dropped,
// file-header lines update the stream-scoped context, ending lines
// finalize the pending hole, and everything else is buffered for the
// per-hole classifier. The context does not carry across streams.
func parseStream(r io.Reader, path string, cfg readConfig) (Holes, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fileheaders := make(map[string]Fields)
	var pending []numberedLine
	var holes Holes
	num := -1

	finalize := func(ending string, endingLine int) error {
		hole, err := parseHole(pending, path, cfg.strict)
		if err != nil {
			return err
		}
		for tag, fields := range fileheaders {
			hole.AddFileHeader(tag, fields.Clone())
		}
		fields := NewFields()
		if ending != "" {
			fields.Set("Ending", ending)
		}
		hole.AddHeader(endingTag, HeaderEntry{LineNumber: endingLine, Fields: fields})
		holes = append(holes, hole)
		pending = nil
		return nil
	}

	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		head, tail := splitHead(line)
		if rule, ok := LookupFileHeader(head); ok {
			fileheaders[strings.ToUpper(head)] = decodeTokens(rule, splitTokens(tail, -1))
			continue
		}
		if head == endingTag {
			if err := finalize(strings.TrimSpace(tail), num); err != nil {
				return nil, err
			}
			continue
		}
		pending = append(pending, numberedLine{num: num, text: line})
	}
	if err := scanner.Err(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("infraformat: read %s: %w", path, err)
		}
		return nil, fmt.Errorf("infraformat: read: %w", err)
	}
	// A trailing hole without its "-1" line is still a hole.
	if len(pending) > 0 {
		if err := finalize("", num+1); err != nil {
			return nil, err
		}
	}
	return holes, nil
}

// classifier carries the per-hole parse state. The survey-method context
// is explicit state here, set once from the first TT header that
// supplies an abbreviation, so transitions stay testable in isolation.
type classifier struct {
	path   string
	strict bool
	method string
}

// parseHole classifies one hole's buffered lines into a Hole.
func parseHole(lines []numberedLine, path string, strict bool) (*Hole, error) {
	hole := NewHole()
	c := classifier{path: path, strict: strict}
	for _, line := range lines {
		if err := c.classify(hole, line.num, line.text); err != nil {
			return nil, err
		}
	}
	return hole, nil
}

// classify dispatches one line against the identifier families in order:
// point header, inline comment, survey data. Anything else is the
// illegal-line condition.
func (c *classifier) classify(hole *Hole, num int, line string) error {
	head, tail := splitHead(line)

	if c.method == "" {
		c.method = hole.SurveyMethod()
	}

	if rule, ok := LookupHeader(head); ok {
		hole.AddHeader(head, HeaderEntry{
			LineNumber: num,
			Fields:     decodeTokens(rule, tailTokens(rule, tail)),
		})
		return nil
	}
	if rule, ok := LookupInline(head); ok {
		hole.AddComment(Comment{
			Tag:        strings.ToUpper(head),
			LineNumber: num,
			Fields:     decodeTokens(rule, tailTokens(rule, tail)),
		})
		return nil
	}
	if IsNumber(head) && c.method != "" {
		if row, ok := c.decodeSurvey(num, line); ok {
			hole.AddSurvey(row)
			return nil
		}
	}
	return c.illegal(hole, num, line)
}

// decodeSurvey decodes a survey data line under the active method. The
// head token is part of the data (the depth field). For the phased HP
// method a case-insensitive "H" marker token selects the H-phase rule,
// otherwise the P-phase rule applies.
func (c *classifier) decodeSurvey(num int, line string) (SurveyRow, bool) {
	surveyRule, ok := LookupSurvey(c.method)
	if !ok {
		return SurveyRow{}, false
	}
	rule := surveyRule.Rule
	if surveyRule.Phased {
		rule = surveyRule.P
		for _, token := range splitTokens(line, -1) {
			if strings.EqualFold(token, "H") {
				rule = surveyRule.H
				break
			}
		}
	}
	tokens := splitTokens(line, rule.Arity())
	if len(tokens) > rule.Arity() {
		tokens = tokens[:rule.Arity()]
	}
	// A mandatory field with no token at all is a structural failure.
	for i, field := range rule.Fields {
		if field.Mandatory && i >= len(tokens) {
			return SurveyRow{}, false
		}
	}
	return SurveyRow{LineNumber: num, Fields: decodeTokens(rule, tokens)}, true
}

// illegal handles the unclassifiable-line condition under the active
// policy: strict fails the whole read, permissive records and continues.
func (c *classifier) illegal(hole *Hole, num int, line string) error {
	if c.strict {
		return &ParseError{Path: c.path, LineNumber: num, Text: line}
	}
	hole.addIllegal(IllegalLine{LineNumber: num, Text: line})
	return nil
}

// decodeTokens zips rule fields with tokens. Surplus tokens are dropped
// and fields beyond the last token stay absent, matching how short and
// overlong lines behave in the wild.
func decodeTokens(rule Rule, tokens []string) Fields {
	fields := NewFields()
	for i, field := range rule.Fields {
		if i >= len(tokens) {
			break
		}
		fields.Set(field.Name, decode(field.Kind, tokens[i]))
	}
	return fields
}

// tailTokens tokenizes a header or inline line's remainder. A rule of
// arity one takes the whole remainder as a single token so free-text
// fields keep their embedded whitespace.
func tailTokens(rule Rule, tail string) []string {
	if rule.Arity() == 1 {
		tail = strings.TrimSpace(tail)
		if tail == "" {
			return nil
		}
		return []string{tail}
	}
	return splitTokens(tail, -1)
}

// splitHead splits a line into its first whitespace-delimited token and
// the remainder.
func splitHead(line string) (head, tail string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}

// splitTokens splits on runs of whitespace. With limit >= 0 at most
// limit+1 tokens are produced and the last one keeps its embedded
// whitespace, like Python's str.split(maxsplit=limit).
func splitTokens(s string, limit int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for s != "" {
		if limit >= 0 && len(out) == limit {
			out = append(out, s)
			break
		}
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	return out
}
