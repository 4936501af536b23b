package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// SourceExt is the file extension of program sources.
const SourceExt = ".tpl"

// Executable names rewritten by [Prefix].
//
//nolint:gochecknoglobals
var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d+$`), Name}, // dlv build output
	{regexp.MustCompile(`^\.+`), ""},
}

// Prefix returns the name that roots the configuration and cache directories
// and prefixes environment variables. It is the executable's base name without
// extension, except that a dlv debug binary is called [Name] and leading dots
// are dropped.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, rule := range prefixRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	return id
})

// EnvVar returns the environment variable name for setting, such as
// TUPLET_PATH for "path".
func EnvVar(setting string) string {
	return strings.ToUpper(Prefix() + "_" + setting)
}

// ConfigDir returns the directory holding config.yaml.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins [Prefix] to the directory reported by lookup. If lookup fails
// it falls back to hidden under the home directory, then to the working
// directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
