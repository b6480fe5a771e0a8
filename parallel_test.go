package infraformat

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNumberedFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		document := strings.Replace(sampleDocument, "P1", fmt.Sprintf("P%03d", i), 1)
		paths = append(paths, writeTestFile(t, dir, fmt.Sprintf("hole_%03d.tek", i), document))
	}
	return paths
}

func TestReadFilesParallelKeepsOrder(t *testing.T) {
	t.Parallel()

	paths := writeNumberedFiles(t, t.TempDir(), 20)

	holes, errs := ReadFiles(context.Background(), paths, DefaultLoadOptions())
	require.Empty(t, errs)
	require.Len(t, holes, 20)
	for i, hole := range holes {
		assert.Equal(t, fmt.Sprintf("P%03d", i), hole.PointID(), "output must follow input path order")
	}
}

func TestReadFilesSerialMatchesParallel(t *testing.T) {
	t.Parallel()

	paths := writeNumberedFiles(t, t.TempDir(), 5)

	serial, errs := ReadFiles(context.Background(), paths, LoadOptions{Parallel: false})
	require.Empty(t, errs)
	parallel, errs := ReadFiles(context.Background(), paths, LoadOptions{Parallel: true, Workers: 3})
	require.Empty(t, errs)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.True(t, serial[i].ContentEqual(parallel[i]))
	}
}

func TestReadFilesSkipErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := writeNumberedFiles(t, dir, 2)
	paths = append(paths, filepath.Join(dir, "missing.tek"))

	var log bytes.Buffer
	opts := DefaultLoadOptions()
	opts.ErrorLog = &log

	holes, errs := ReadFiles(context.Background(), paths, opts)
	assert.Len(t, holes, 2, "readable files still load")
	require.Len(t, errs, 1)
	assert.Contains(t, log.String(), "missing.tek")
}

func TestReadFilesFailFast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "missing.tek")}

	opts := LoadOptions{Parallel: false}
	holes, errs := ReadFiles(context.Background(), paths, opts)
	assert.Nil(t, holes)
	require.Len(t, errs, 1)
}

func TestReadFilesProgress(t *testing.T) {
	t.Parallel()

	paths := writeNumberedFiles(t, t.TempDir(), 4)

	var calls atomic.Int64
	opts := DefaultLoadOptions()
	opts.Progress = func(done, total int) {
		calls.Add(1)
		assert.Equal(t, 4, total)
		assert.LessOrEqual(t, done, total)
	}
	_, errs := ReadFiles(context.Background(), paths, opts)
	require.Empty(t, errs)
	assert.Equal(t, int64(4), calls.Load())
}

func TestReadFilesCanceledContext(t *testing.T) {
	t.Parallel()

	paths := writeNumberedFiles(t, t.TempDir(), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	holes, errs := ReadFiles(ctx, paths, DefaultLoadOptions())
	assert.Empty(t, holes)
	assert.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestReadFilesEmptyInput(t *testing.T) {
	t.Parallel()

	holes, errs := ReadFiles(context.Background(), nil, DefaultLoadOptions())
	assert.Nil(t, holes)
	assert.Nil(t, errs)
}
