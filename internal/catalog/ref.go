// Package catalog reads and writes hub plugin definition records.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidPluginPath is returned when a path does not name a plugin as
// <type>/<name>/<variant>.
var ErrInvalidPluginPath = errors.New("invalid plugin path")

// PluginTypes are the directories a hub keeps definitions under.
var PluginTypes = []string{
	"extractors",
	"loaders",
	"transformers",
	"utilities",
	"orchestrators",
	"transforms",
	"mappers",
	"files",
}

// PluginRef identifies one plugin variant in the hub.
type PluginRef struct {
	Type    string
	Name    string
	Variant string
}

// String returns the <type>/<name>/<variant> form.
func (r PluginRef) String() string {
	return r.Type + "/" + r.Name + "/" + r.Variant
}

// ParsePluginRef parses "extractors/tap-csv/meltanolabs". Leading
// directories and a .yml/.yaml extension are ignored, so record file paths
// are accepted as well.
func ParsePluginRef(path string) (PluginRef, error) {
	clean := filepath.ToSlash(strings.TrimSpace(path))
	clean = strings.TrimSuffix(strings.TrimSuffix(clean, ".yml"), ".yaml")
	clean = strings.Trim(clean, "/")

	parts := strings.Split(clean, "/")
	if len(parts) < 3 {
		return PluginRef{}, fmt.Errorf("%w: %q", ErrInvalidPluginPath, path)
	}
	parts = parts[len(parts)-3:]

	ref := PluginRef{Type: parts[0], Name: parts[1], Variant: parts[2]}
	if !validType(ref.Type) || ref.Name == "" || ref.Variant == "" {
		return PluginRef{}, fmt.Errorf("%w: %q", ErrInvalidPluginPath, path)
	}
	return ref, nil
}

func validType(t string) bool {
	for _, known := range PluginTypes {
		if t == known {
			return true
		}
	}
	return false
}
