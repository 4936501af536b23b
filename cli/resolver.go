package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML, "/path/to/config.yaml")
//
// The document must be a mapping from flag names to values. Flag names with
// hyphens (e.g., "log-level") may use underscores instead:
//
//	log_level: debug
//	log_format: json
//	max_depth: 500
//	path: [./lib, ~/tuplet]
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug --log-format=json --max-depth=500 --path=./lib,~/tuplet
//
// Command-line flags override config file values. An empty file configures
// nothing.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg := make(config, len(values))
	for k, v := range values {
		cfg[strings.ReplaceAll(k, "_", "-")] = normalize(v)
	}

	return cfg, nil
}

// config implements [kong.Resolver] for flat YAML configs keyed by flag
// name.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// normalize converts decoded YAML scalars to the forms kong parses: numbers
// become strings and sequences become comma-separated lists.
func normalize(v any) any {
	switch v := v.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(v)

	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(normalize(item))
		}

		return strings.Join(items, ",")
	}

	return v
}
