// Package plugin hosts Lua extension scripts.
//
// Scripts see a single `aloha` module with editing primitives (insert
// at caret, undo, redo, read content) and an on_dispatch hook that
// observes pipeline dispatches and may cancel them. The host also
// wires the value picker to scripts so a selection can be inserted at
// the caret.
//
// gopher-lua's LState is not goroutine safe; all host methods must be
// called from the editor's dispatch goroutine.
package plugin

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/editable"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/edits"
	"github.com/najor/Aloha-Editor/internal/log"
	"github.com/najor/Aloha-Editor/internal/overlay"
)

// Editor is the editor surface the host drives.
type Editor interface {
	editctx.Editor
}

// Host runs Lua extension scripts against an editor.
type Host struct {
	mu         sync.Mutex
	state      *lua.LState
	editor     Editor
	logger     *log.Logger
	picker     *overlay.Picker
	onDispatch []*lua.LFunction
	closed     bool
}

// NewHost creates a plugin host. The editor is bound afterward with
// BindEditor so the host can be handed to the editor as a dispatch
// hook at construction.
func NewHost(logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Nop()
	}
	h := &Host{
		state:  lua.NewState(),
		logger: logger.WithComponent("plugin"),
	}
	h.register()
	return h
}

// BindEditor attaches the editor the scripts act on.
func (h *Host) BindEditor(ed Editor) {
	h.editor = ed
}

// WirePicker exposes the picker to scripts and inserts chosen values
// at the caret.
func (h *Host) WirePicker(p *overlay.Picker) {
	h.picker = p
	p.OnSelect(func(value string) {
		if !h.insertAtCaret(value) {
			h.logger.Warn("picker value dropped, no caret in an editable")
		}
	})
}

// Load runs a script from source. The name appears in Lua stack
// traces.
func (h *Host) Load(name, source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("plugin host closed")
	}
	fn, err := h.state.Load(strings.NewReader(source), name)
	if err != nil {
		return fmt.Errorf("loading plugin %s: %w", name, err)
	}
	h.state.Push(fn)
	if err := h.state.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("running plugin %s: %w", name, err)
	}
	return nil
}

// LoadFile runs a script from disk.
func (h *Host) LoadFile(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("plugin host closed")
	}
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("running plugin file %s: %w", path, err)
	}
	return nil
}

// Close shuts the Lua state down. The host must not be used after.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}

// register installs the aloha module.
func (h *Host) register() {
	L := h.state
	mod := L.NewTable()
	L.SetField(mod, "insert", L.NewFunction(h.luaInsert))
	L.SetField(mod, "undo", L.NewFunction(h.luaUndo))
	L.SetField(mod, "redo", L.NewFunction(h.luaRedo))
	L.SetField(mod, "text", L.NewFunction(h.luaText))
	L.SetField(mod, "on_dispatch", L.NewFunction(h.luaOnDispatch))
	L.SetField(mod, "show_picker", L.NewFunction(h.luaShowPicker))
	L.SetField(mod, "hide_picker", L.NewFunction(h.luaHidePicker))
	L.SetGlobal("aloha", mod)
}

func (h *Host) luaInsert(L *lua.LState) int {
	text := L.CheckString(1)
	L.Push(lua.LBool(h.insertAtCaret(text)))
	return 1
}

func (h *Host) luaUndo(L *lua.LState) int {
	ed := h.caretEditable()
	if ed == nil {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(ed.UndoContext.Undo() == nil))
	return 1
}

func (h *Host) luaRedo(L *lua.LState) int {
	ed := h.caretEditable()
	if ed == nil {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(ed.UndoContext.Redo() == nil))
	return 1
}

func (h *Host) luaText(L *lua.LState) int {
	ed := h.caretEditable()
	if ed == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ed.Element.PlainText()))
	return 1
}

func (h *Host) luaOnDispatch(L *lua.LState) int {
	fn := L.CheckFunction(1)
	h.onDispatch = append(h.onDispatch, fn)
	return 0
}

func (h *Host) luaShowPicker(L *lua.LState) int {
	p, ed := h.picker, h.editor
	if p == nil || ed == nil {
		L.Push(lua.LFalse)
		return 1
	}
	r, ok := ed.Selection().Get()
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	p.Show(r.Normalize().Collapse(true).Start)
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) luaHidePicker(L *lua.LState) int {
	if p := h.picker; p != nil {
		p.Hide()
	}
	return 0
}

// PreDispatch implements pipeline.Hook: every registered on_dispatch
// callback sees the occurrence and any of them may cancel it by
// returning false.
func (h *Host) PreDispatch(ctx *editctx.Context) bool {
	if h.closed || len(h.onDispatch) == 0 {
		return true
	}
	callbacks := append([]*lua.LFunction(nil), h.onDispatch...)

	occ := h.state.NewTable()
	h.state.SetField(occ, "kind", lua.LString(ctx.Kind))
	if ctx.SourceEvent != nil {
		h.state.SetField(occ, "event_type", lua.LString(ctx.SourceEvent.Type.String()))
		if ctx.SourceEvent.Type.IsKey() {
			h.state.SetField(occ, "rune", lua.LString(string(ctx.SourceEvent.Rune)))
		}
	}

	for _, fn := range callbacks {
		if err := h.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, occ); err != nil {
			h.logger.Error("on_dispatch callback failed", "error", err.Error())
			continue
		}
		ret := h.state.Get(-1)
		h.state.Pop(1)
		if ret == lua.LFalse {
			return false
		}
	}
	return true
}

// PostDispatch implements pipeline.Hook.
func (h *Host) PostDispatch(ctx *editctx.Context) {}

// caretEditable resolves the editable containing the current
// selection.
func (h *Host) caretEditable() *editable.Editable {
	ed := h.editor
	if ed == nil {
		return nil
	}
	r, ok := ed.Selection().Get()
	if !ok {
		return nil
	}
	anchor := r.CommonAncestor()
	if anchor == nil {
		return nil
	}
	return ed.LookupEditable(anchor)
}

// insertAtCaret inserts text at the collapsed selection start as one
// undo step and advances the selection past it.
func (h *Host) insertAtCaret(text string) bool {
	ed := h.editor
	if ed == nil || text == "" {
		return false
	}
	r, ok := ed.Selection().Get()
	if !ok {
		return false
	}
	at := r.Normalize().Collapse(true).Start
	target := ed.LookupEditable(at.Container)
	if target == nil || !at.Container.IsText() {
		return false
	}
	if err := target.UndoContext.Execute(edits.NewInsertText(at.Container, at.Offset, text)); err != nil {
		h.logger.Error("plugin insert failed", "error", err.Error())
		return false
	}
	end := at.Offset + len([]rune(text))
	ed.Selection().Set(boundary.Collapsed(boundary.At(at.Container, end)))
	return true
}
