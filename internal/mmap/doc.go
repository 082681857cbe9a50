// Package mmap provides read-only memory-mapped file access.
//
// Dataset files can hold tens of thousands of pixel vectors; mapping them avoids
// copying the whole file through a read buffer before parsing.
//
//	m, err := mmap.Open("cataract.csv")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping/MapViewOfFile
// and ignores access hints.
//
// Close is idempotent. Callers must not use Bytes() after Close() returns.
package mmap
