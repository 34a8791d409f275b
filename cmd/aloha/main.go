// Package main is a demonstration driver for the editing core.
//
// It builds a small document, attaches an editable region, replays a
// scripted sequence of input notifications through the pipeline, and
// prints the resulting document alongside the undo history so the
// whole chain can be exercised without a host UI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/config"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editor"
	"github.com/najor/Aloha-Editor/internal/event"
	"github.com/najor/Aloha-Editor/internal/log"
	"github.com/najor/Aloha-Editor/internal/overlay"
	"github.com/najor/Aloha-Editor/internal/plugin"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		pluginPath  string
		logLevel    string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to a settings file (.toml or .yaml)")
	flag.StringVar(&pluginPath, "plugin", "", "path to a Lua plugin to load")
	flag.StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("aloha %s (%s)\n", version, commit)
		return 0
	}

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading settings: %v\n", err)
		return 1
	}
	settings = config.FromEnv(settings)
	if logLevel != "" {
		settings.LogLevel = logLevel
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(settings.LogLevel),
		Output: os.Stderr,
		Prefix: "aloha",
	})

	opts := []editor.Option{
		editor.WithSettings(settings),
		editor.WithLogger(logger),
	}

	// The host must exist before the editor so it can ride along as a
	// dispatch hook; the editor binds back afterwards.
	var host *plugin.Host
	if pluginPath != "" {
		host = plugin.NewHost(logger)
		defer host.Close()
		opts = append(opts, editor.WithHook(host))
	}

	ed := editor.New(opts...)

	if host != nil {
		host.BindEditor(ed)
		host.WirePicker(overlay.New(nil))
		if err := host.LoadFile(pluginPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := demo(ed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// demo replays a typing session against a fresh document.
func demo(ed *editor.Editor) error {
	text := dom.NewText("Hello")
	host := dom.NewElement("div", dom.NewElement("p", text))

	region, err := ed.Attach(host, config.Settings{})
	if err != nil {
		return fmt.Errorf("attaching region: %w", err)
	}
	fmt.Printf("attached: %s\n", host)

	// Type ", world", then bold-toggle and type one more character.
	caret := text.TextLen()
	for _, r := range ", world" {
		ev := event.NewKeyPress(r)
		at := boundary.Collapsed(boundary.At(text, caret))
		ev.Range = &at
		if _, err := ed.Dispatch(ev); err != nil {
			return err
		}
		caret++
	}
	bold := event.NewKeyDown(event.KeyRune, 'b', event.ModCtrl)
	boldAt := boundary.Collapsed(boundary.At(text, caret))
	bold.Range = &boldAt
	if _, err := ed.Dispatch(bold); err != nil {
		return err
	}
	ev := event.NewKeyPress('!')
	at := boundary.Collapsed(boundary.At(text, caret))
	ev.Range = &at
	if _, err := ed.Dispatch(ev); err != nil {
		return err
	}

	fmt.Printf("after typing: %s\n", host)
	fmt.Printf("undo steps: %d\n", region.UndoContext.UndoCount())

	// Roll the whole session back.
	for region.UndoContext.CanUndo() {
		if err := region.UndoContext.Undo(); err != nil {
			return err
		}
	}
	fmt.Printf("after undo: %s\n", host)

	if err := ed.Detach(host); err != nil {
		return fmt.Errorf("detaching region: %w", err)
	}
	fmt.Println("detached")
	return nil
}
