package infraformat

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
)

// pointExtent gives hole locations a tiny positive extent, since R-tree
// rectangles must have positive side lengths.
const pointExtent = 1e-9

// SpatialIndex answers repeated bounding-box queries over a hole
// collection in O(log n) per query, against the linear scan of
// Holes.FilterByBBox. Build it once for map viewports or repeated
// region selection; the index does not follow later coordinate
// mutations.
//
// Example:
//
//	idx := infraformat.NewSpatialIndex(holes)
//	near := idx.Query(infraformat.Bounds{
//	    MinX: 6674000, MaxX: 6675000,
//	    MinY: 25496000, MaxY: 25497000,
//	})
type SpatialIndex struct {
	tree    *rtreego.Rtree
	indexed int
	skipped int
}

// holeEntry adapts one hole to the rtreego.Spatial interface.
type holeEntry struct {
	hole *Hole
	x, y float64
}

// Bounds implements rtreego.Spatial.
func (e holeEntry) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(rtreego.Point{e.x, e.y}, []float64{pointExtent, pointExtent})
	return rect
}

// NewSpatialIndex indexes the holes that carry XY coordinates. Holes
// without coordinates are skipped and reported by Skipped.
func NewSpatialIndex(holes Holes) *SpatialIndex {
	idx := &SpatialIndex{tree: rtreego.NewTree(2, 25, 50)}
	for _, hole := range holes {
		x, y, ok := hole.Coordinates()
		if !ok {
			idx.skipped++
			continue
		}
		idx.tree.Insert(holeEntry{hole: hole, x: x, y: y})
		idx.indexed++
	}
	return idx
}

// Query returns the indexed holes inside the bounding box, inclusive.
func (idx *SpatialIndex) Query(bbox Bounds) Holes {
	rect, err := rtreego.NewRect(
		rtreego.Point{bbox.MinX, bbox.MinY},
		[]float64{bbox.MaxX - bbox.MinX + pointExtent, bbox.MaxY - bbox.MinY + pointExtent},
	)
	if err != nil {
		return nil
	}
	var out Holes
	for _, spatial := range idx.tree.SearchIntersect(rect) {
		entry := spatial.(holeEntry)
		if bbox.contains(entry.x, entry.y) {
			out = append(out, entry.hole)
		}
	}
	return out
}

// Len returns the number of indexed holes.
func (idx *SpatialIndex) Len() int { return idx.indexed }

// Skipped returns the number of holes left out for missing coordinates.
func (idx *SpatialIndex) Skipped() int { return idx.skipped }

// String describes the index.
func (idx *SpatialIndex) String() string {
	return fmt.Sprintf("SpatialIndex(%d holes, %d without coordinates)", idx.indexed, idx.skipped)
}
