// Package source loads raw quasi-CSV blobs from a blob store, decompressing them by
// name suffix.
package source

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/pixvec/blobstore"
	"github.com/hupe1980/pixvec/resource"
)

// DefaultMaxBytes bounds the decompressed size of a loaded blob.
const DefaultMaxBytes = 1 << 30

var (
	// ErrTooLarge is returned when the decompressed blob exceeds Options.MaxBytes.
	ErrTooLarge = errors.New("source: blob exceeds size limit")
	// ErrNoCSVEntry is returned for an archive without a .csv entry.
	ErrNoCSVEntry = errors.New("source: archive has no .csv entry")
)

// Compression identifies how a blob is stored.
type Compression int

const (
	None Compression = iota
	Gzip
	TarGzip
	Zstd
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case TarGzip:
		return "tar+gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// Detect infers the compression from a blob name.
func Detect(name string) Compression {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return TarGzip
	case strings.HasSuffix(lower, ".gz"):
		return Gzip
	case strings.HasSuffix(lower, ".zst"):
		return Zstd
	case strings.HasSuffix(lower, ".lz4"):
		return LZ4
	default:
		return None
	}
}

// Options configures Load.
type Options struct {
	// Controller throttles blob reads with its IO limit. Nil means unthrottled.
	Controller *resource.Controller
	// MaxBytes bounds the decompressed size. Values <= 0 mean DefaultMaxBytes.
	MaxBytes int64
	// Compression overrides suffix detection when set with ForceCompression.
	Compression      Compression
	ForceCompression bool
}

// Load reads the named blob and returns its decompressed contents.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *Options)) ([]byte, error) {
	opts := Options{MaxBytes: DefaultMaxBytes}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if !opts.ForceCompression {
		opts.Compression = Detect(name)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", name, err)
	}
	defer blob.Close()

	var r io.Reader = blobstore.NewReader(ctx, blob)
	if opts.Controller != nil {
		r = resource.NewRateLimitedReader(ctx, r, opts.Controller)
	}

	data, err := Decompress(r, opts.Compression, opts.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	return data, nil
}

// Decompress reads r fully, undoing compression c. At most maxBytes decompressed
// bytes are accepted.
func Decompress(r io.Reader, c Compression, maxBytes int64) ([]byte, error) {
	switch c {
	case None:
		return readLimited(r, maxBytes)
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return readLimited(zr, maxBytes)
	case TarGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return firstCSV(tar.NewReader(zr), maxBytes)
	case Zstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return readLimited(dec, maxBytes)
	case LZ4:
		return readLimited(lz4.NewReader(r), maxBytes)
	default:
		return nil, fmt.Errorf("source: unknown compression %s", c)
	}
}

func firstCSV(tr *tar.Reader, maxBytes int64) ([]byte, error) {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, ErrNoCSVEntry
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if strings.EqualFold(path.Ext(hdr.Name), ".csv") {
			return readLimited(tr, maxBytes)
		}
	}
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > maxBytes {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), nil
}

var zstdDecoderPool sync.Pool

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	// Drop the reference to the source reader.
	_ = dec.Reset(nil)
	zstdDecoderPool.Put(dec)
}
