package infraformat

import (
	"strings"
	"time"
)

// HeaderEntry is one point-header record, stamped with the source line
// number.
type HeaderEntry struct {
	LineNumber int
	Fields     Fields
}

// Comment is one inline comment or observation record.
type Comment struct {
	Tag        string
	LineNumber int
	Fields     Fields
}

// SurveyRow is one decoded survey data line.
type SurveyRow struct {
	LineNumber int
	Fields     Fields
}

// IllegalLine is a line that failed classification, kept verbatim for
// later inspection. Recorded only under the permissive read policy.
type IllegalLine struct {
	LineNumber int
	Text       string
}

// Hole is one borehole's complete parsed record.
//
// FileHeader and Header tags are unique within a hole; re-adding a tag
// overwrites it. Comments, Survey and Illegal are append-only ordered
// sequences in which duplicates are allowed and entries are told apart
// by line number.
type Hole struct {
	// FileHeader holds the file-scoped context (FO, KJ) the hole was
	// parsed under, shared by every hole from the same file.
	FileHeader map[string]Fields
	// Header holds the point-header records by tag (XY, TT, ...).
	Header map[string]HeaderEntry
	// Comments holds inline comment records in source order.
	Comments []Comment
	// Survey holds decoded survey rows in source order.
	Survey []SurveyRow
	// Illegal holds unclassifiable lines, permissive policy only.
	Illegal []IllegalLine
	// Date is derived from the XY header's Date field. The zero time
	// marks a missing or unparseable date.
	Date time.Time
}

// NewHole returns an empty hole.
func NewHole() *Hole {
	return &Hole{
		FileHeader: make(map[string]Fields),
		Header:     make(map[string]HeaderEntry),
	}
}

// AddFileHeader records a file-scoped header under tag, overwriting any
// earlier record with the same tag.
func (h *Hole) AddFileHeader(tag string, fields Fields) {
	h.FileHeader[strings.ToUpper(tag)] = fields
}

// AddHeader records a point header under tag, overwriting any earlier
// record with the same tag. Adding an XY header refreshes the derived
// Date.
func (h *Hole) AddHeader(tag string, entry HeaderEntry) {
	tag = strings.ToUpper(tag)
	h.Header[tag] = entry
	if tag == "XY" {
		if raw, ok := entry.Fields.Get("Date"); ok {
			if s, ok := raw.(string); ok {
				h.Date = parseHeaderDate(s)
			}
		}
	}
}

// AddComment appends an inline comment record.
func (h *Hole) AddComment(c Comment) {
	h.Comments = append(h.Comments, c)
}

// AddSurvey appends a survey row.
func (h *Hole) AddSurvey(row SurveyRow) {
	h.Survey = append(h.Survey, row)
}

// addIllegal appends an unclassifiable line.
func (h *Hole) addIllegal(line IllegalLine) {
	h.Illegal = append(h.Illegal, line)
}

// RemoveHeader deletes the point header under tag, if present.
func (h *Hole) RemoveHeader(tag string) {
	delete(h.Header, strings.ToUpper(tag))
}

// HeaderField returns one field of the point header under tag.
func (h *Hole) HeaderField(tag, name string) (any, bool) {
	entry, ok := h.Header[strings.ToUpper(tag)]
	if !ok {
		return nil, false
	}
	return entry.Fields.Get(name)
}

// SurveyMethod returns the uppercased survey abbreviation from the TT
// header, or "" when the hole has none.
func (h *Hole) SurveyMethod() string {
	entry, ok := h.Header["TT"]
	if !ok {
		return ""
	}
	return strings.ToUpper(entry.Fields.String("Survey abbreviation"))
}

// PointID returns the point identifier from the XY header, or "".
func (h *Hole) PointID() string {
	entry, ok := h.Header["XY"]
	if !ok {
		return ""
	}
	return entry.Fields.String("Point ID")
}

// Coordinates returns the X and Y fields of the XY header. In
// infraformat X is the northing and Y the easting.
func (h *Hole) Coordinates() (x, y float64, ok bool) {
	entry, present := h.Header["XY"]
	if !present {
		return 0, 0, false
	}
	x, xok := entry.Fields.Float("X")
	y, yok := entry.Fields.Float("Y")
	return x, y, xok && yok
}

// SetCoordinates overwrites the X and Y fields of the XY header.
// Mutation entry point for coordinate transforms; a hole without an XY
// header is left unchanged.
func (h *Hole) SetCoordinates(x, y float64) {
	entry, ok := h.Header["XY"]
	if !ok {
		return
	}
	entry.Fields.Set("X", x)
	entry.Fields.Set("Y", y)
	h.Header["XY"] = entry
}

// CoordinateSystem returns the coordinate system name from the KJ file
// header, or "".
func (h *Hole) CoordinateSystem() string {
	kj, ok := h.FileHeader["KJ"]
	if !ok {
		return ""
	}
	return kj.String("Coordinate system")
}

// SetCoordinateSystem overwrites the KJ file header's coordinate system.
func (h *Hole) SetCoordinateSystem(name string) {
	kj, ok := h.FileHeader["KJ"]
	if !ok {
		kj = NewFields()
	}
	kj.Set("Coordinate system", name)
	h.FileHeader["KJ"] = kj
}

// Clone returns a deep copy of the hole.
func (h *Hole) Clone() *Hole {
	c := NewHole()
	c.Date = h.Date
	for tag, fields := range h.FileHeader {
		c.FileHeader[tag] = fields.Clone()
	}
	for tag, entry := range h.Header {
		c.Header[tag] = HeaderEntry{LineNumber: entry.LineNumber, Fields: entry.Fields.Clone()}
	}
	for _, cm := range h.Comments {
		c.Comments = append(c.Comments, Comment{Tag: cm.Tag, LineNumber: cm.LineNumber, Fields: cm.Fields.Clone()})
	}
	for _, row := range h.Survey {
		c.Survey = append(c.Survey, SurveyRow{LineNumber: row.LineNumber, Fields: row.Fields.Clone()})
	}
	c.Illegal = append([]IllegalLine(nil), h.Illegal...)
	return c
}

// ContentEqual reports whether two holes carry equal header, fileheader,
// comment and survey field content. Line numbers are ignored, so holes
// survive re-serialization comparisons.
func (h *Hole) ContentEqual(other *Hole) bool {
	if len(h.FileHeader) != len(other.FileHeader) || len(h.Header) != len(other.Header) {
		return false
	}
	for tag, fields := range h.FileHeader {
		o, ok := other.FileHeader[tag]
		if !ok || !fields.Equal(o) {
			return false
		}
	}
	for tag, entry := range h.Header {
		o, ok := other.Header[tag]
		if !ok || !entry.Fields.Equal(o.Fields) {
			return false
		}
	}
	if len(h.Comments) != len(other.Comments) || len(h.Survey) != len(other.Survey) {
		return false
	}
	for i, cm := range h.Comments {
		if cm.Tag != other.Comments[i].Tag || !cm.Fields.Equal(other.Comments[i].Fields) {
			return false
		}
	}
	for i, row := range h.Survey {
		if !row.Fields.Equal(other.Survey[i].Fields) {
			return false
		}
	}
	return true
}

// headerDateLayouts are the fallback layouts tried when the XY date is
// neither the 6-digit nor the 8-digit infraformat form.
var headerDateLayouts = []string{"2006-01-02", "02.01.2006", "2006"}

// parseHeaderDate decodes the XY header's date field. The infraformat
// forms are ddmmyy and ddmmyyyy. Dates before year 1900 and unparseable
// strings yield the zero time.
func parseHeaderDate(s string) time.Time {
	s = strings.TrimSpace(s)
	var t time.Time
	var err error
	switch len(s) {
	case 6:
		t, err = time.Parse("020106", s)
	case 8:
		t, err = time.Parse("02012006", s)
	default:
		for _, layout := range headerDateLayouts {
			if t, err = time.Parse(layout, s); err == nil {
				break
			}
		}
		if t.IsZero() {
			return time.Time{}
		}
	}
	if err != nil || t.Year() < 1900 {
		return time.Time{}
	}
	return t
}
