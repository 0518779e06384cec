//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the quill module embedded at build time.
// It is printed by the CLI when users pass --version.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version with surrounding whitespace
// removed.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "quill"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Minimal scripting language interpreter"
	// Extension is the conventional file extension of quill source files.
	Extension = ".ql"
)
