package infraformat

import (
	"strings"
	"time"
)

// Holes is an ordered collection of holes. The usual slice operations
// (indexing, slicing, len, range) apply; the methods below add the
// collection-level contracts.
type Holes []*Hole

// Append adds holes to the collection and returns the extended
// collection.
func (h Holes) Append(holes ...*Hole) Holes {
	return append(h, holes...)
}

// Concat returns the concatenation of two collections.
func (h Holes) Concat(other Holes) Holes {
	out := make(Holes, 0, len(h)+len(other))
	out = append(out, h...)
	return append(out, other...)
}

// Bounds is an axis-aligned bounding box over the XY header plane. In
// infraformat X is the northing and Y the easting.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// contains reports whether the point lies inside the box, inclusive.
func (b Bounds) contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// FilterByBBox returns the holes whose XY header coordinates fall within
// the bounding box. Holes without coordinates are dropped.
func (h Holes) FilterByBBox(bbox Bounds) Holes {
	var out Holes
	for _, hole := range h {
		if x, y, ok := hole.Coordinates(); ok && bbox.contains(x, y) {
			out = append(out, hole)
		}
	}
	return out
}

// FilterBySurvey returns the holes whose TT survey abbreviation matches
// one of the given abbreviations, case-insensitively.
func (h Holes) FilterBySurvey(abbreviations ...string) Holes {
	want := make(map[string]bool, len(abbreviations))
	for _, a := range abbreviations {
		want[strings.ToUpper(a)] = true
	}
	var out Holes
	for _, hole := range h {
		if method := hole.SurveyMethod(); method != "" && want[method] {
			out = append(out, hole)
		}
	}
	return out
}

// FilterByDate returns the holes whose derived header date lies in
// [start, end]. A zero start or end leaves that side unbounded. Holes
// without a valid date are dropped.
func (h Holes) FilterByDate(start, end time.Time) Holes {
	var out Holes
	for _, hole := range h {
		if hole.Date.IsZero() {
			continue
		}
		if !start.IsZero() && hole.Date.Before(start) {
			continue
		}
		if !end.IsZero() && hole.Date.After(end) {
			continue
		}
		out = append(out, hole)
	}
	return out
}

// ValueCounts counts holes per survey abbreviation. Holes without one
// are counted under "Missing survey abbreviation".
func (h Holes) ValueCounts() map[string]int {
	counts := make(map[string]int)
	for _, hole := range h {
		method := hole.SurveyMethod()
		if method == "" {
			method = missingAbbreviation
		}
		counts[method]++
	}
	return counts
}

// Project applies a coordinate reprojection to every hole's XY header in
// place. The transform receives (x, y, coordinate-system name) and
// returns the transformed pair; the coordinate system recorded in each
// hole's KJ file header is rewritten to system afterwards. Holes without
// coordinates are skipped.
func (h Holes) Project(system string, transform func(x, y float64, source string) (float64, float64, error)) error {
	for _, hole := range h {
		x, y, ok := hole.Coordinates()
		if !ok {
			continue
		}
		tx, ty, err := transform(x, y, hole.CoordinateSystem())
		if err != nil {
			return err
		}
		hole.SetCoordinates(tx, ty)
		hole.SetCoordinateSystem(system)
	}
	return nil
}

// Clone returns a deep copy of the collection.
func (h Holes) Clone() Holes {
	out := make(Holes, 0, len(h))
	for _, hole := range h {
		out = append(out, hole.Clone())
	}
	return out
}
