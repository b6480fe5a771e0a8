package infraformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpatialIndexQuery(t *testing.T) {
	t.Parallel()

	holes := Holes{
		testHole("PA", "IN1", 6674100, 25496100, "01012020"),
		testHole("PA", "IN2", 6674900, 25496900, "01012020"),
		testHole("PA", "OUT", 7000000, 25496100, "01012020"),
		NewHole(), // no coordinates
	}

	idx := NewSpatialIndex(holes)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 1, idx.Skipped())

	got := idx.Query(Bounds{
		MinX: 6674000, MaxX: 6675000,
		MinY: 25496000, MaxY: 25497000,
	})
	require.Len(t, got, 2)
	ids := map[string]bool{}
	for _, hole := range got {
		ids[hole.PointID()] = true
	}
	assert.True(t, ids["IN1"])
	assert.True(t, ids["IN2"])
}

func TestSpatialIndexMatchesLinearFilter(t *testing.T) {
	t.Parallel()

	var holes Holes
	for i := 0; i < 50; i++ {
		holes = append(holes, testHole("PA", "P", 6674000+float64(i)*37, 25496000+float64(i)*53, "01012020"))
	}
	bbox := Bounds{MinX: 6674200, MaxX: 6674800, MinY: 25496100, MaxY: 25497500}

	idx := NewSpatialIndex(holes)
	assert.Equal(t, len(holes.FilterByBBox(bbox)), len(idx.Query(bbox)))
}

func TestSpatialIndexBoundaryInclusive(t *testing.T) {
	t.Parallel()

	corner := testHole("PA", "C", 6674000, 25496000, "01012020")
	idx := NewSpatialIndex(Holes{corner})

	got := idx.Query(Bounds{MinX: 6674000, MaxX: 6674000, MinY: 25496000, MaxY: 25496000})
	require.Len(t, got, 1)
	assert.Same(t, corner, got[0])
}

func TestSpatialIndexString(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(Holes{testHole("PA", "A", 1, 2, "01012020"), NewHole()})
	assert.Equal(t, "SpatialIndex(1 holes, 1 without coordinates)", idx.String())
}
