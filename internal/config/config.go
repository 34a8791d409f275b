// Package config provides editor and editable settings.
//
// Settings come from three layers: built-in defaults, an optional TOML
// or YAML settings file, and environment overrides. Per-editable
// settings supplied on attach are merged over the editor's settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "ALOHA_"

// Settings holds the tunable editor behavior.
type Settings struct {
	// DefaultBlockNodeName is the element name used when splitting
	// blocks (e.g. on Enter).
	DefaultBlockNodeName string `toml:"default_block_node_name" yaml:"default_block_node_name"`

	// UndoDepth is the undo history depth per editable.
	UndoDepth int `toml:"undo_depth" yaml:"undo_depth"`

	// AllowedElements is the element whitelist paste sanitation keeps.
	AllowedElements []string `toml:"allowed_elements" yaml:"allowed_elements"`

	// RouteSelectionChange routes host selection-change notifications
	// through the edit pipeline. Off by default.
	RouteSelectionChange bool `toml:"route_selection_change" yaml:"route_selection_change"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		DefaultBlockNodeName: "div",
		UndoDepth:            1000,
		AllowedElements: []string{
			"a", "b", "br", "div", "em", "i", "li", "ol", "p",
			"span", "strong", "u", "ul",
		},
		LogLevel: "info",
	}
}

// Merge returns s with non-zero fields of override applied on top.
// RouteSelectionChange is ORed: an override can enable but not disable
// the routing chosen by the editor.
func (s Settings) Merge(override Settings) Settings {
	out := s
	if override.DefaultBlockNodeName != "" {
		out.DefaultBlockNodeName = override.DefaultBlockNodeName
	}
	if override.UndoDepth > 0 {
		out.UndoDepth = override.UndoDepth
	}
	if override.AllowedElements != nil {
		out.AllowedElements = override.AllowedElements
	}
	if override.RouteSelectionChange {
		out.RouteSelectionChange = true
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	return out
}

// Allows reports whether the element name is on the paste whitelist.
func (s Settings) Allows(name string) bool {
	for _, allowed := range s.AllowedElements {
		if allowed == name {
			return true
		}
	}
	return false
}

// Load reads a settings file over the defaults. The format is chosen
// by extension: .toml, .yaml or .yml. A missing file is not an error;
// the defaults are returned.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return Default(), fmt.Errorf("parsing TOML settings %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Default(), fmt.Errorf("parsing YAML settings %s: %w", path, err)
		}
	default:
		return Default(), fmt.Errorf("unsupported settings format: %s", path)
	}
	return s, nil
}

// FromEnv applies ALOHA_-prefixed environment overrides to s.
func FromEnv(s Settings) Settings {
	if v, ok := os.LookupEnv(EnvPrefix + "DEFAULT_BLOCK_NODE_NAME"); ok && v != "" {
		s.DefaultBlockNodeName = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "UNDO_DEPTH"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.UndoDepth = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ROUTE_SELECTION_CHANGE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.RouteSelectionChange = b
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		s.LogLevel = v
	}
	return s
}
