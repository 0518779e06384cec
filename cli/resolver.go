package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The file is a single mapping from flag names to values:
//
//	log-level: debug
//	log_format: json
//	log-pretty: false
//	max-depth: 128
//
// Flag names may use underscores in place of hyphens. Sequences are joined
// with commas. An empty file is an empty configuration. Command-line flags
// override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var m map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &m)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		cfg := make(config, len(m))
		for key, val := range m {
			cfg[key] = configString(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
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

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}

// configString converts a decoded YAML value to the string form kong parses
// flag values from.
func configString(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(configString(e))
		}

		return strings.Join(parts, ",")

	default:
		return fmt.Sprint(v)
	}
}
