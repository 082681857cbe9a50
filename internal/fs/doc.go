// Package fs abstracts the file operations of the local blob store write path.
//
// Production code uses fs.Default ([LocalFS]). Tests wrap it in a [FaultyFS] to
// make writes, syncs, closes or renames fail for selected files:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("manifest.json", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// The package takes no context.Context: local file operations cannot be
// interrupted at the syscall level.
package fs
