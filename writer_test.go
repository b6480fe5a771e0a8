package infraformat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()

	original, err := Read(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, original.Write(&buf, NewWriteOptions()))

	reread, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, reread, len(original))
	for i := range original {
		assert.True(t, original[i].ContentEqual(reread[i]), "hole %d content changed across a round trip", i)
	}
}

func TestWriteIdempotent(t *testing.T) {
	t.Parallel()

	holes, err := Read(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, holes.Write(&first, NewWriteOptions()))

	reread, err := Read(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, reread.Write(&second, NewWriteOptions()))

	assert.Equal(t, first.String(), second.String(), "serialization must be a fixed point after one pass")
}

func TestWriteDuplicateLineNumbers(t *testing.T) {
	t.Parallel()

	hole := NewHole()
	tt := NewFields()
	tt.Set("Survey abbreviation", "PA")
	tt.Set("Survey ID", "A")
	hole.AddHeader("TT", HeaderEntry{LineNumber: 0, Fields: tt})

	row := func(depth float64, soil string) SurveyRow {
		fields := NewFields()
		fields.Set("Depth (m)", depth)
		fields.Set("Soil type", soil)
		return SurveyRow{LineNumber: 7, Fields: fields}
	}
	hole.AddSurvey(row(1.0, "Sa"))
	hole.AddSurvey(row(2.0, "Mr"))
	hole.AddSurvey(row(3.0, "Si"))

	var buf bytes.Buffer
	require.NoError(t, Holes{hole}.Write(&buf, NewWriteOptions().WithoutFileHeader()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header line, three survey lines in insertion order, ending
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "Sa")
	assert.Contains(t, lines[2], "Mr")
	assert.Contains(t, lines[3], "Si")
	assert.Equal(t, "-1", lines[4])
}

func TestWriteFileHeaderMode(t *testing.T) {
	t.Parallel()

	newHole := func(system string) *Hole {
		hole := NewHole()
		kj := NewFields()
		kj.Set("Coordinate system", system)
		kj.Set("Height reference", "N2000")
		hole.AddFileHeader("KJ", kj)
		return hole
	}
	holes := Holes{newHole("ETRS-GK25"), newHole("ETRS-GK24"), newHole("ETRS-GK25")}

	var buf bytes.Buffer
	require.NoError(t, holes.Write(&buf, NewWriteOptions()))
	assert.Contains(t, buf.String(), "KJ ETRS-GK25 N2000", "the most common system wins")

	buf.Reset()
	opts := NewWriteOptions().WithCoordinateSystem("WGS84", "N60")
	require.NoError(t, holes.Write(&buf, opts))
	assert.Contains(t, buf.String(), "KJ WGS84 N60")
	assert.NotContains(t, buf.String(), "ETRS-GK25")
}

func TestWriteFileHeaderTies(t *testing.T) {
	t.Parallel()

	newHole := func(system string) *Hole {
		hole := NewHole()
		kj := NewFields()
		kj.Set("Coordinate system", system)
		hole.AddFileHeader("KJ", kj)
		return hole
	}
	holes := Holes{newHole("ETRS-GK21"), newHole("ETRS-GK22")}

	var buf bytes.Buffer
	require.NoError(t, holes.Write(&buf, NewWriteOptions()))
	assert.Contains(t, buf.String(), "KJ ETRS-GK21", "first seen wins ties")
}

func TestWriteOptionsToggles(t *testing.T) {
	t.Parallel()

	input := `TT PA 1 A
XY 1 2 0 01012020 P
   1.0    5    0    Sa
  HM wet
NONSENSE line
-1
`
	holes, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	t.Run("default keeps comments, drops illegal", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, holes.Write(&buf, NewWriteOptions()))
		assert.Contains(t, buf.String(), "HM wet")
		assert.NotContains(t, buf.String(), "NONSENSE")
	})

	t.Run("comments off", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, holes.Write(&buf, NewWriteOptions().WithComments(false)))
		assert.NotContains(t, buf.String(), "HM wet")
	})

	t.Run("illegal lines restored verbatim", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, holes.Write(&buf, NewWriteOptions().WithIllegal(true)))
		assert.Contains(t, buf.String(), "NONSENSE line")
	})

	t.Run("file header skipped for appends", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, holes.Write(&buf, NewWriteOptions().WithoutFileHeader()))
		assert.False(t, strings.HasPrefix(buf.String(), "FO "))
	})
}

func TestWriteEndingIsLast(t *testing.T) {
	t.Parallel()

	// Survey rows numbered beyond the ending's recorded position must not
	// push lines after the terminator.
	hole := NewHole()
	tt := NewFields()
	tt.Set("Survey abbreviation", "PA")
	hole.AddHeader("TT", HeaderEntry{LineNumber: 0, Fields: tt})
	fields := NewFields()
	fields.Set("Depth (m)", 1.0)
	hole.AddSurvey(SurveyRow{LineNumber: 99, Fields: fields})
	ending := NewFields()
	ending.Set("Ending", "Juu")
	hole.AddHeader(endingTag, HeaderEntry{LineNumber: 1, Fields: ending})

	var buf bytes.Buffer
	require.NoError(t, Holes{hole}.Write(&buf, NewWriteOptions().WithoutFileHeader()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "-1 Juu", lines[len(lines)-1])
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.5", formatValue(1.5))
	assert.Equal(t, "7", formatValue(int64(7)))
	assert.Equal(t, "Sa", formatValue("Sa"))
	assert.Equal(t, "-", formatValue(nil))
	assert.Equal(t, "6674245", formatValue(6674245.0), "integral floats print without a decimal point")
}

func TestInsertLineBisection(t *testing.T) {
	t.Parallel()

	body := make(map[float64]string)
	insertLine(body, 7, "a")
	insertLine(body, 7, "b")
	insertLine(body, 7, "c")
	insertLine(body, 7, "d")

	assert.Len(t, body, 4, "collisions must never overwrite")
	assert.Equal(t, "a", body[7])
	assert.Equal(t, "b", body[7.5])
	assert.Equal(t, "c", body[7.75])
	assert.Equal(t, "d", body[7.875])
}
