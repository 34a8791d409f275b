// Package mouse classifies pointer notifications.
//
// Single clicks collapse the host-resolved range to a caret. Double
// clicks widen a caret inside a text node to the surrounding word.
// Pointer movement passes through untouched.
package mouse

import (
	"unicode"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
)

// Stage is the pointer-interpretation stage.
type Stage struct{}

// New creates the stage.
func New() *Stage { return &Stage{} }

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "mouse" }

// Handle interprets pointer notifications against ctx.Range.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	ev := ctx.SourceEvent
	if ev == nil || !ev.Type.IsMouse() || ctx.Range == nil {
		return ctx
	}

	switch ev.Type {
	case event.TypeMouseDown:
		ctx.SetRange(ctx.Range.Collapse(true))
	case event.TypeDoubleClick:
		ctx.SetRange(wordAt(ctx.Range.Collapse(true).Start))
	}
	return ctx
}

// wordAt widens a caret in a text node to the run of word characters
// around it. Anything else is returned as a collapsed range.
func wordAt(b boundary.Boundary) boundary.Range {
	if b.Container == nil || !b.Container.IsText() {
		return boundary.Collapsed(b)
	}
	runes := []rune(b.Container.Text())
	off := b.Offset
	if off < 0 {
		off = 0
	}
	if off > len(runes) {
		off = len(runes)
	}

	start := off
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := off
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return boundary.NewRange(
		boundary.At(b.Container, start),
		boundary.At(b.Container, end),
	)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
