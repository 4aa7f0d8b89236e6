package ui

import (
	"testing"

	"github.com/piwi3910/TileAtlas/internal/model"
)

func sprites(n int) []model.Sprite {
	out := make([]model.Sprite, n)
	for i := range out {
		out[i] = model.Sprite{ID: string(rune('a' + i)), Label: "S", Width: 16 * (i + 1), Height: 16, Quantity: 1}
	}
	return out
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultSettings()

	h.Push(MakeSnapshot(nil, settings, "empty"))
	h.Push(MakeSnapshot(sprites(1), settings, "Add Sprite"))

	if got := h.UndoLabel(); got != "Add Sprite" {
		t.Errorf("UndoLabel() = %q, want %q", got, "Add Sprite")
	}

	current := MakeSnapshot(sprites(2), settings, "two sprites")
	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("first undo should succeed")
	}
	if len(restored.Sprites) != 1 {
		t.Errorf("expected 1 sprite, got %d", len(restored.Sprites))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Sprites) != 2 {
		t.Errorf("expected 2 sprites after redo, got %d", len(redone.Sprites))
	}
}

func TestUndoRestoresSettings(t *testing.T) {
	h := NewHistory()
	before := model.DefaultSettings()
	h.Push(MakeSnapshot(nil, before, "Change Settings"))

	after := before
	after.PageWidth = 2048
	restored, ok := h.Undo(MakeSnapshot(nil, after, "current"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if restored.Settings.PageWidth != 1024 {
		t.Errorf("expected page width 1024 after undo, got %d", restored.Settings.PageWidth)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultSettings()

	h.Push(MakeSnapshot(nil, settings, "empty"))
	if _, ok := h.Undo(MakeSnapshot(sprites(1), settings, "one sprite")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(nil, settings, "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}

	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(sprites(i), model.AtlasSettings{}, ""))
	}

	if len(h.undo) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undo))
	}
	// The oldest entries are dropped
	if len(h.undo[0].Sprites) != 2 {
		t.Errorf("expected oldest kept snapshot to have 2 sprites, got %d", len(h.undo[0].Sprites))
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(nil, model.AtlasSettings{}, "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
	if h.UndoLabel() != "" {
		t.Error("empty history should have no undo label")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, model.AtlasSettings{}, "a"))
	h.Push(MakeSnapshot(nil, model.AtlasSettings{}, "b"))
	h.Undo(MakeSnapshot(nil, model.AtlasSettings{}, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotCopiesSprites(t *testing.T) {
	original := sprites(1)
	snap := MakeSnapshot(original, model.AtlasSettings{}, "test")

	original[0].Label = "Modified"

	if snap.Sprites[0].Label != "S" {
		t.Error("snapshot should be independent of original slice")
	}
}

func TestSnapshotNilSprites(t *testing.T) {
	snap := MakeSnapshot(nil, model.AtlasSettings{}, "nil test")
	if snap.Sprites != nil {
		t.Error("nil sprites should stay nil")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultSettings()

	h.Push(MakeSnapshot(nil, settings, "empty"))
	h.Push(MakeSnapshot(sprites(1), settings, "1 sprite"))
	h.Push(MakeSnapshot(sprites(2), settings, "2 sprites"))
	current := MakeSnapshot(sprites(3), settings, "3 sprites")

	s, ok := h.Undo(current)
	if !ok || len(s.Sprites) != 2 {
		t.Fatalf("first undo: expected 2 sprites, got %d", len(s.Sprites))
	}
	s, ok = h.Undo(s)
	if !ok || len(s.Sprites) != 1 {
		t.Fatalf("second undo: expected 1 sprite, got %d", len(s.Sprites))
	}
	s, ok = h.Undo(s)
	if !ok || len(s.Sprites) != 0 {
		t.Fatalf("third undo: expected 0 sprites, got %d", len(s.Sprites))
	}
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	for want := 1; want <= 3; want++ {
		s, ok = h.Redo(s)
		if !ok || len(s.Sprites) != want {
			t.Fatalf("redo: expected %d sprites, got %d", want, len(s.Sprites))
		}
	}
	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}

func TestHistoryRedoLabel(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultSettings()
	h.Push(MakeSnapshot(nil, settings, "Add Sprite"))

	if got := h.RedoLabel(); got != "" {
		t.Errorf("RedoLabel() before undo = %q, want empty", got)
	}

	label := h.UndoLabel()
	if _, ok := h.Undo(MakeSnapshot(sprites(1), settings, label)); !ok {
		t.Fatal("undo failed")
	}
	if got := h.RedoLabel(); got != "Add Sprite" {
		t.Errorf("RedoLabel() = %q, want %q", got, "Add Sprite")
	}

	h.Push(MakeSnapshot(nil, settings, "Clear Sprites"))
	if h.CanRedo() {
		t.Error("push should drop redo steps")
	}
}
