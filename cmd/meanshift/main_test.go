package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/meanshift/blobstore"
	"github.com/hupe1980/meanshift/imaging"
	"github.com/hupe1980/meanshift/persistence"
	"github.com/hupe1980/meanshift/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, dir string) string {
	t.Helper()
	img := testutil.BlockImage(12, 8, 6, color.RGBA{R: 200, G: 30, B: 40, A: 255}, color.RGBA{R: 30, G: 60, B: 200, A: 255})
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestRun_SegmentsImage(t *testing.T) {
	// Color only, so each half of the image is a single segment.
	t.Setenv("MEANSHIFT_DIMENSION", "3")
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.bmp")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-input", in, "-output", out, "-env", filepath.Join(dir, "none.env")}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "96 points, 2 segments")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := imaging.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, imaging.FormatBMP, format)
	assert.Equal(t, image.Rect(0, 0, 12, 8), img.Bounds())
}

func TestRun_Snapshot(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	storeDir := filepath.Join(dir, "store")

	cfgPath := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
image:
  dimension: 3
storage:
  backend: local
  root: `+storeDir+`
  compression: lz4
log:
  level: error
`), 0o644))

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-input", in,
		"-output", filepath.Join(dir, "out.png"),
		"-snapshot", "runs/one.mseg",
		"-config", cfgPath,
		"-env", filepath.Join(dir, "none.env"),
	}, &stdout)
	require.NoError(t, err)

	snap, err := persistence.LoadFromStore(context.Background(), blobstore.NewLocalStore(storeDir), "runs/one.mseg")
	require.NoError(t, err)
	assert.Equal(t, 96, snap.Points)
	assert.Equal(t, 3, snap.Dim())
	assert.Len(t, snap.Segments, 2)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	env := filepath.Join(dir, "none.env")
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"-env", env}, &stdout)
	assert.ErrorContains(t, err, "-input is required")

	err = run(context.Background(), []string{"-input", filepath.Join(dir, "missing.png"), "-env", env}, &stdout)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-input", in, "-output", filepath.Join(dir, "out.xyz"), "-env", env}, &stdout)
	assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)

	webp := filepath.Join(dir, "out.webp")
	err = run(context.Background(), []string{"-input", in, "-output", webp, "-env", env}, &stdout)
	assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)
	assert.NoFileExists(t, webp)

	// Without a storage backend the run stops before segmenting or writing output.
	png := filepath.Join(dir, "out.png")
	err = run(context.Background(), []string{"-input", in, "-output", png, "-snapshot", "x", "-env", env}, &stdout)
	assert.ErrorContains(t, err, "storage.backend")
	assert.NoFileExists(t, png)
	assert.Empty(t, stdout.String())
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &stdout))
	assert.Contains(t, stdout.String(), "meanshift version: dev")
}
