package infraformat

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Write serializes the collection as one infraformat file: a file-header
// block, then per hole a header block followed by the body lines and the
// "-1" ending line.
//
// Body lines are keyed by their recorded line numbers; colliding numbers
// are resolved by fractional keys (+0.5, halving on each further
// collision) so duplicate line numbers never overwrite each other. The
// fractional keys order the output only, they are not written.
//
// Output parses back to holes with equal header, fileheader and survey
// content; absolute line numbers are not preserved.
func (h Holes) Write(w io.Writer, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	if !opts.SkipFileHeader {
		writeFileHeader(bw, h, opts)
	}
	for _, hole := range h {
		writeHeader(bw, hole)
		writeBody(bw, hole, opts)
	}
	return bw.Flush()
}

// WriteFile serializes the collection to a file, compressing per the
// path extension (.gz, .xz, .zst).
func (h Holes) WriteFile(path string, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("infraformat: write %s: %w", path, err)
	}
	w, closeCompression, err := compressionForPath(path).writer(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("infraformat: write %s: %w", path, err)
	}
	if err := h.Write(w, opts); err != nil {
		closeCompression()
		f.Close()
		return err
	}
	if err := closeCompression(); err != nil {
		f.Close()
		return fmt.Errorf("infraformat: write %s: %w", path, err)
	}
	return f.Close()
}

// writeFileHeader emits the FO and KJ lines. Without an override the FO
// line names this library and the KJ line takes the mode of the
// coordinate system and height reference across the written holes.
func writeFileHeader(w *bufio.Writer, holes Holes, opts WriteOptions) {
	fo := [3]string{"2.3", "infraformat", Version}
	if opts.formatOverride != nil {
		fo = *opts.formatOverride
	}
	fmt.Fprintf(w, "FO %s %s %s\n", fo[0], fo[1], fo[2])

	var kj [2]string
	if opts.systemOverride != nil {
		kj = *opts.systemOverride
	} else {
		kj[0] = modeOf(holes, "Coordinate system")
		kj[1] = modeOf(holes, "Height reference")
	}
	if kj[0] != "" {
		line := "KJ " + kj[0]
		if kj[1] != "" {
			line += " " + kj[1]
		}
		fmt.Fprintln(w, line)
	}
}

// modeOf returns the most common KJ field value across the holes, first
// seen winning ties. Empty when no hole carries the field.
func modeOf(holes Holes, field string) string {
	counts := make(map[string]int)
	var order []string
	for _, hole := range holes {
		kj, ok := hole.FileHeader["KJ"]
		if !ok || !kj.Has(field) {
			continue
		}
		value := kj.String(field)
		if value == "" {
			continue
		}
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
	}
	best := ""
	for _, value := range order {
		if best == "" || counts[value] > counts[best] {
			best = value
		}
	}
	return best
}

// writeHeader emits the hole's header block in the canonical tag order.
// The "-1" ending belongs to the body, not the header block.
func writeHeader(w *bufio.Writer, hole *Hole) {
	for _, tag := range headerTagOrder {
		entry, ok := hole.Header[tag]
		if !ok {
			continue
		}
		parts := []string{tag}
		for _, v := range entry.Fields.Values() {
			parts = append(parts, formatValue(v))
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
}

// writeBody emits survey rows, optional comment and illegal lines in
// ascending position-key order, then the "-1" ending line last
// regardless of its recorded key.
func writeBody(w *bufio.Writer, hole *Hole, opts WriteOptions) {
	body := make(map[float64]string)

	for _, row := range hole.Survey {
		values := make([]string, 0, row.Fields.Len())
		for _, v := range row.Fields.Values() {
			values = append(values, formatValue(v))
		}
		insertLine(body, float64(row.LineNumber), opts.BodySpacerStart+strings.Join(values, opts.BodySpacer))
	}
	if opts.Comments {
		for _, comment := range hole.Comments {
			parts := []string{comment.Tag}
			for _, v := range comment.Fields.Values() {
				parts = append(parts, formatValue(v))
			}
			insertLine(body, float64(comment.LineNumber), "  "+strings.Join(parts, " "))
		}
	}
	if opts.Illegal {
		for _, illegal := range hole.Illegal {
			insertLine(body, float64(illegal.LineNumber), illegal.Text)
		}
	}

	keys := make([]float64, 0, len(body))
	for key := range body {
		keys = append(keys, key)
	}
	sort.Float64s(keys)
	for _, key := range keys {
		fmt.Fprintln(w, body[key])
	}

	ending := endingTag
	if entry, ok := hole.Header[endingTag]; ok {
		for _, v := range entry.Fields.Values() {
			ending += " " + formatValue(v)
		}
	}
	fmt.Fprintln(w, ending)
}

// insertLine seeds the position map, bisecting on key collisions until a
// free fractional key is found. Prior content is never overwritten and
// the resulting keys form a strict total order.
func insertLine(body map[float64]string, key float64, text string) {
	if _, taken := body[key]; !taken {
		body[key] = text
		return
	}
	increment := 0.5
	key += increment
	for {
		if _, taken := body[key]; !taken {
			break
		}
		increment /= 2
		key += increment
	}
	body[key] = text
}

// formatValue renders a decoded value back to its textual field form.
// Missing numerics render as the "-" placeholder.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "-"
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	case float64:
		if math.IsNaN(value) {
			return "-"
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
