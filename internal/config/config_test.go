package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	s := Default()
	if s.DefaultBlockNodeName != "div" {
		t.Errorf("DefaultBlockNodeName = %q", s.DefaultBlockNodeName)
	}
	if s.UndoDepth != 1000 {
		t.Errorf("UndoDepth = %d", s.UndoDepth)
	}
	if !s.Allows("p") || s.Allows("script") {
		t.Error("default whitelist wrong")
	}
	if s.RouteSelectionChange {
		t.Error("selection-change routing should default off")
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Settings{
		DefaultBlockNodeName: "p",
		UndoDepth:            50,
	})
	if merged.DefaultBlockNodeName != "p" || merged.UndoDepth != 50 {
		t.Errorf("override fields not applied: %+v", merged)
	}
	if merged.LogLevel != base.LogLevel {
		t.Error("zero fields must inherit")
	}

	// Zero override changes nothing.
	if got := base.Merge(Settings{}); got.DefaultBlockNodeName != "div" || got.UndoDepth != 1000 {
		t.Errorf("empty override changed settings: %+v", got)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	data := []byte("default_block_node_name = \"p\"\nundo_depth = 25\nlog_level = \"debug\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultBlockNodeName != "p" || s.UndoDepth != 25 || s.LogLevel != "debug" {
		t.Errorf("loaded settings wrong: %+v", s)
	}
	// Unset keys keep their defaults.
	if !s.Allows("p") {
		t.Error("whitelist default lost on load")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := []byte("default_block_node_name: section\nroute_selection_change: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultBlockNodeName != "section" || !s.RouteSelectionChange {
		t.Errorf("loaded settings wrong: %+v", s)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if s.DefaultBlockNodeName != "div" {
		t.Errorf("missing file should load defaults: %+v", s)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unsupported format should error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ALOHA_DEFAULT_BLOCK_NODE_NAME", "p")
	t.Setenv("ALOHA_UNDO_DEPTH", "7")
	t.Setenv("ALOHA_ROUTE_SELECTION_CHANGE", "true")
	t.Setenv("ALOHA_LOG_LEVEL", "warn")

	s := FromEnv(Default())
	if s.DefaultBlockNodeName != "p" || s.UndoDepth != 7 || !s.RouteSelectionChange || s.LogLevel != "warn" {
		t.Errorf("env overrides not applied: %+v", s)
	}

	t.Setenv("ALOHA_UNDO_DEPTH", "not-a-number")
	s = FromEnv(Default())
	if s.UndoDepth != 1000 {
		t.Error("bad numeric override must be ignored")
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("undo_depth = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan Settings, 1)
	w, err := Watch(path, func(s Settings) {
		select {
		case reloaded <- s:
		default:
		}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("undo_depth = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-reloaded:
		if s.UndoDepth != 42 {
			t.Errorf("reloaded UndoDepth = %d, want 42", s.UndoDepth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path, func(Settings) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != ErrWatcherClosed {
		t.Errorf("second Close = %v, want ErrWatcherClosed", err)
	}
}
