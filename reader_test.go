package infraformat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "one.tek", sampleDocument)

	holes, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, holes, 1)
	assert.Equal(t, "P1", holes[0].PointID())
}

func TestReadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "a.tek", sampleDocument)
	writeTestFile(t, dir, "b.tek", sampleDocument)
	writeTestFile(t, dir, "c.txt", sampleDocument)

	t.Run("directory reads every file", func(t *testing.T) {
		t.Parallel()
		holes, err := ReadPath(dir)
		require.NoError(t, err)
		assert.Len(t, holes, 3)
	})

	t.Run("extension filter", func(t *testing.T) {
		t.Parallel()
		holes, err := ReadPath(dir, WithExtension("tek"))
		require.NoError(t, err)
		assert.Len(t, holes, 2)
	})

	t.Run("glob pattern", func(t *testing.T) {
		t.Parallel()
		holes, err := ReadPath(filepath.Join(dir, "*.txt"))
		require.NoError(t, err)
		assert.Len(t, holes, 1)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := ReadPath(filepath.Join(dir, "missing", "*.tek"))
		require.ErrorIs(t, err, ErrPathNotFound)
	})

	t.Run("empty path reads nothing", func(t *testing.T) {
		t.Parallel()
		holes, err := ReadPath("")
		require.NoError(t, err)
		assert.Empty(t, holes)
	})
}

func TestReadFileEncodings(t *testing.T) {
	t.Parallel()

	// "TY 1 Töölö" in latin-1: ö is a single 0xF6 byte, invalid as UTF-8.
	latin1 := append([]byte("TT PA 1 A\nTY 1 T"), 0xF6, 0xF6)
	latin1 = append(latin1, []byte("l\n-1\n")...)

	dir := t.TempDir()
	path := filepath.Join(dir, "latin.tek")
	require.NoError(t, os.WriteFile(path, latin1, 0o600))

	t.Run("wrong encoding fails", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(path)
		require.ErrorIs(t, err, ErrEncoding)
	})

	t.Run("explicit encoding decodes", func(t *testing.T) {
		t.Parallel()
		holes, err := ReadFile(path, WithEncoding("latin-1"))
		require.NoError(t, err)
		require.Len(t, holes, 1)
		assert.Equal(t, "Tööl", holes[0].Header["TY"].Fields.String("Work name"))
	})

	t.Run("robust fallback decodes", func(t *testing.T) {
		t.Parallel()
		holes, err := ReadFile(path, WithRobustEncoding())
		require.NoError(t, err)
		require.Len(t, holes, 1)
	})

	t.Run("unknown encoding name", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(path, WithEncoding("klingon"))
		require.ErrorIs(t, err, ErrUnknownEncoding)
	})
}

func TestReadWriteCompressed(t *testing.T) {
	t.Parallel()

	holes, err := Read(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	for _, ext := range []string{"", ".gz", ".xz", ".zst"} {
		ext := ext
		t.Run("ext "+ext, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "out.tek"+ext)
			require.NoError(t, holes.WriteFile(path, NewWriteOptions()))

			reread, err := ReadFile(path)
			require.NoError(t, err)
			require.Len(t, reread, 1)
			assert.True(t, holes[0].ContentEqual(reread[0]))
		})
	}
}

func TestStripCompressionExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "data.tek", stripCompressionExt("data.tek.gz"))
	assert.Equal(t, "data.tek", stripCompressionExt("data.tek.zst"))
	assert.Equal(t, "data.tek", stripCompressionExt("data.tek"))
}
