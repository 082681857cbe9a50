package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pixvec/blobstore"
	"github.com/hupe1980/pixvec/gallery"
	"github.com/hupe1980/pixvec/internal/config"
)

const dataset = "image_vector,label\n\"0,64,128,255\",Normal\n\"1,2,3,4,5\",Cataract\nbroken\n"

func withStore(t *testing.T, store blobstore.BlobStore) {
	t.Helper()
	prev := openStore
	openStore = func(context.Context, config.Store) (blobstore.BlobStore, error) { return store, nil }
	t.Cleanup(func() { openStore = prev })
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PIXVEC_CONFIG", "/nonexistent/pixvec.yaml")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDecodeCmd(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "data.csv", []byte(dataset)))
	withStore(t, store)

	stdout, stderr, err := run(t, "decode", "data.csv", "--limit", "1")
	require.NoError(t, err)

	var records []gallery.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Normal", records[0].Label)
	assert.Equal(t, "0, 64, 128, 255...", records[0].VectorPreview)
	assert.True(t, strings.HasPrefix(records[0].Image, "data:image/png;base64,"))

	assert.Contains(t, stderr, "rows=3 skipped=[2]")
}

func TestRenderCmd(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "data.csv", []byte(dataset)))
	withStore(t, store)

	stdout, stderr, err := run(t, "render", "data.csv", "--out", "g", "--run", "r1", "--format", "bmp")
	require.NoError(t, err)
	assert.Equal(t, "g/r1/manifest.json\n", stdout)
	assert.Contains(t, stderr, "msg=\"gallery published\" run=r1")
	assert.Contains(t, stderr, "run=r1 source=data.csv")

	names, err := store.List(ctx, "g/r1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"g/r1/0000.bmp", "g/r1/0001.bmp", "g/r1/manifest.json"}, names)

	m, err := gallery.LoadManifest(ctx, store, "g/r1", nil)
	require.NoError(t, err)
	assert.Equal(t, "bmp", m.Format)
	require.Len(t, m.Samples, 2)
	assert.Equal(t, "Cataract", m.Samples[1].Label)
}

func TestRenderCmd_RandomRun(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "data.csv", []byte(dataset)))
	withStore(t, store)

	stdout, _, err := run(t, "render", "data.csv")
	require.NoError(t, err)
	assert.Regexp(t, `^galleries/[0-9a-f-]{36}/manifest\.json\n$`, stdout)
}

func TestDecodeCmd_Errors(t *testing.T) {
	withStore(t, blobstore.NewMemoryStore())

	_, _, err := run(t, "decode", "missing.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	_, _, err = run(t, "decode", "data.csv", "--format", "gif")
	assert.ErrorContains(t, err, "gif")

	_, _, err = run(t, "decode")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pixvec dev\n", stdout)
}

func TestDecodeCmd_Pretty(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "data.csv", []byte(dataset)))
	withStore(t, store)

	stdout, _, err := run(t, "decode", "data.csv", "--pretty")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "[\n  {\n    \"id\": 0,"))

	var records []gallery.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	assert.Len(t, records, 2)
}

func TestDecodeCmd_FlagOverridesInvalidConfig(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "data.csv", []byte(dataset)))
	withStore(t, store)

	cfgPath := filepath.Join(t.TempDir(), "pixvec.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scale: 100\n"), 0o600))

	_, _, err := run(t, "decode", "data.csv", "--config", cfgPath)
	assert.ErrorContains(t, err, "scale 100")

	stdout, _, err := run(t, "decode", "data.csv", "--config", cfgPath, "--scale", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "["))
}
