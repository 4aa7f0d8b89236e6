package ui

import "github.com/piwi3910/TileAtlas/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the sprite list and atlas settings at a point in time.
type Snapshot struct {
	Sprites  []model.Sprite
	Settings model.AtlasSettings
	Label    string // e.g. "Add Sprite"
}

// stack is a bounded LIFO of snapshots.
type stack []Snapshot

func (s *stack) push(snap Snapshot, limit int) {
	*s = append(*s, snap)
	if limit > 0 && len(*s) > limit {
		*s = (*s)[len(*s)-limit:]
	}
}

func (s *stack) pop() (Snapshot, bool) {
	n := len(*s)
	if n == 0 {
		return Snapshot{}, false
	}
	top := (*s)[n-1]
	*s = (*s)[:n-1]
	return top, true
}

func (s stack) peekLabel() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1].Label
}

// History keeps undo and redo snapshots of the sprite list and settings.
type History struct {
	undo     stack
	redo     stack
	maxDepth int
}

// NewHistory keeps at most 50 undo steps.
func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before a change and drops any redo steps.
func (h *History) Push(s Snapshot) {
	h.undo.push(s, h.maxDepth)
	h.redo = nil
}

// Undo returns the state to restore and remembers current for Redo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	prev, ok := h.undo.pop()
	if ok {
		h.redo.push(current, h.maxDepth)
	}
	return prev, ok
}

// Redo reverses the last Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	next, ok := h.redo.pop()
	if ok {
		h.undo.push(current, h.maxDepth)
	}
	return next, ok
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLabel names the change Undo would revert, or "".
func (h *History) UndoLabel() string { return h.undo.peekLabel() }

// RedoLabel names the change Redo would reapply, or "".
func (h *History) RedoLabel() string { return h.redo.peekLabel() }

func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}

// MakeSnapshot copies the current project state into a labelled snapshot.
func MakeSnapshot(sprites []model.Sprite, settings model.AtlasSettings, label string) Snapshot {
	var cp []model.Sprite
	if sprites != nil {
		cp = append(make([]model.Sprite, 0, len(sprites)), sprites...)
	}
	return Snapshot{Sprites: cp, Settings: settings, Label: label}
}
