package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/tuplet/lang/diag"
)

// ErrReadSource is returned when program text cannot be read.
var ErrReadSource = diag.NewError("failed to read source")

// globalCache stores compiled programs keyed by source hash.
var globalCache sync.Map

// entry is one cached compilation. The source is kept so hash collisions
// never return a foreign program.
type entry struct {
	once   sync.Once
	source string
	prog   *Program
	err    error
}

// CompileReader reads a whole program from r and compiles it.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	src, err := ReadSource(ctx, r, opts...)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, src, opts...)
}

// ReadSource reads all of r as program text.
func ReadSource(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	o := applyOptions(opts...)

	// Pre-fetch while the previous chunk is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	o.logger.TraceContext(ctx, "read source",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return string(data), nil
}

func compileCached(ctx context.Context, src string, o options) (*Program, error) {
	hash := xxh3.HashString(src)
	key := strconv.FormatUint(hash, 36)

	value, hit := globalCache.LoadOrStore(key, &entry{source: src})

	e, _ := value.(*entry)
	if e == nil || e.source != src {
		o.logger.TraceContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(hash, 16)))

		return compile(ctx, src, o)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.prog, e.err = compile(ctx, src, o)

		// Interrupted compilations are not results.
		if e.err != nil && ctx.Err() != nil {
			globalCache.Delete(key)
		}
	})

	return e.prog, e.err
}

// ClearCache removes all cached compilations.
func ClearCache() {
	globalCache.Clear()
}
