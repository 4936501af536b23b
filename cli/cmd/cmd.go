package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
	"github.com/ardnew/tuplet/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	searchPathKey struct{}
	optionsKey    struct{}
)

// WithSearchPath returns a new context.Context holding the directories
// searched for program files that are not found as given.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// WithOptions returns a new context.Context holding the interpreter options
// used by every command.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// optionsFrom returns the interpreter options stored in ctx with a logger
// prepended, so stored options may override it.
func optionsFrom(ctx context.Context, logger log.Logger) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return append([]lang.Option{lang.WithLogger(logger)}, opts...)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// resolve returns the path of the program file named name. A name that is not
// an existing file is looked up in each search path directory, with and
// without [pkg.SourceExt].
func resolve(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		return name, nil
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+pkg.SourceExt)
	}

	for _, c := range candidates {
		if isFile(c) {
			return c, nil
		}
	}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPathFrom(ctx) {
			for _, c := range candidates {
				if path := filepath.Join(dir, c); isFile(path) {
					log.TraceContext(ctx, "resolved source",
						slog.String("name", name),
						slog.String("path", path),
					)

					return path, nil
				}
			}
		}
	}

	return "", ErrSourceNotFound.With(slog.String("name", name))
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// open resolves name and opens it for reading. The returned name is the
// resolved path, or "<stdin>".
func open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	path, err := resolve(ctx, name)
	if err != nil {
		return nil, "", err
	}

	if path == stdinSource {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}

	return file, path, nil
}

// readSource reads the whole program named name.
func readSource(ctx context.Context, name string, opts ...lang.Option) (src, path string, err error) {
	r, path, err := open(ctx, name)
	if err != nil {
		return "", "", err
	}
	defer r.Close()

	src, err = lang.ReadSource(ctx, r, opts...)

	return src, path, err
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and absolute/relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources resolves every name and drops those that refer to a file
// already listed. Stdin is kept at most once, in its first position.
func uniqueSources(ctx context.Context, names []string) ([]string, error) {
	seen := make(map[fileKey]struct{})
	paths := make([]string, 0, len(names))

	var stdin bool

	for _, name := range names {
		path, err := resolve(ctx, name)
		if err != nil {
			return nil, err
		}

		if path == stdinSource {
			if !stdin {
				paths = append(paths, path)
			}

			stdin = true

			continue
		}

		if key, ok := keyOf(path); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// keyOf returns the fileKey of path after resolving symlinks.
func keyOf(path string) (fileKey, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}
