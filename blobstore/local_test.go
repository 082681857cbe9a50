package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	vfs "github.com/hupe1980/pixvec/internal/fs"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Put a blob
	blobName := "datasets/cataract.csv"
	data := []byte("hello world, this is a test blob for pixvec")

	require.NoError(t, store.Put(ctx, blobName, data))

	// Verify file exists on disk
	_, err := os.Stat(filepath.Join(tmpDir, "datasets", "cataract.csv"))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. ReadRange
	rangeReader, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	defer rangeReader.Close()

	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.Equal(t, "this", string(rangeContent))

	// 4. List
	require.NoError(t, store.Put(ctx, "datasets/bone-age.csv", nil))
	require.NoError(t, store.Put(ctx, "gallery/0000.png", []byte{1}))

	names, err := store.List(ctx, "datasets/")
	require.NoError(t, err)
	require.Equal(t, []string{"datasets/bone-age.csv", blobName}, names)

	// 5. Delete
	require.NoError(t, store.Delete(ctx, "datasets/bone-age.csv"))
	require.NoError(t, store.Delete(ctx, "datasets/missing.csv"))

	names, err = store.List(ctx, "datasets/")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, names)
}

func TestLocalBlobStore_OpenMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Open(context.Background(), "nope.csv")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	// Case 1: Read full range
	r, err := blob.ReadRange(ctx, 0, 10)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	require.True(t, bytes.Equal(data, content))

	// Case 2: Read past end
	r, err = blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))
	r.Close()

	// Case 3: Offset past EOF
	_, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	data := []byte("header\n\"1,2,3,4\",A\n")

	local := NewLocalStore(t.TempDir())
	mem := NewMemoryStore()

	for name, store := range map[string]BlobStore{"local": local, "memory": mem} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "d.csv", data))
			require.NoError(t, store.Put(ctx, "empty.csv", nil))

			blob, err := store.Open(ctx, "d.csv")
			require.NoError(t, err)
			defer blob.Close()

			got, err := ReadAll(ctx, blob)
			require.NoError(t, err)
			require.Equal(t, data, got)

			seq, err := io.ReadAll(NewReader(ctx, blob))
			require.NoError(t, err)
			require.Equal(t, data, seq)

			empty, err := store.Open(ctx, "empty.csv")
			require.NoError(t, err)
			defer empty.Close()

			got, err = ReadAll(ctx, empty)
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestLocalBlobStore_PutFailureLeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ffs := vfs.NewFaultyFS(nil)
	ffs.AddRule("0000.png", vfs.Fault{FailAfterBytes: 2})
	ffs.AddRule("0001.png", vfs.Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("manifest.json", vfs.Fault{FailAfterBytes: -1, FailOnRename: true})

	store := NewLocalStore(dir, WithFileSystem(ffs))

	for _, name := range []string{"g/0000.png", "g/0001.png", "g/manifest.json"} {
		err := store.Put(ctx, name, []byte("payload"))
		require.ErrorIs(t, err, vfs.ErrInjected, name)
	}
	require.Len(t, ffs.Removed(), 3)

	entries, err := os.ReadDir(filepath.Join(dir, "g"))
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, store.Put(ctx, "g/0002.png", []byte("ok")))
	names, err := store.List(ctx, "g/")
	require.NoError(t, err)
	require.Equal(t, []string{"g/0002.png"}, names)
}
