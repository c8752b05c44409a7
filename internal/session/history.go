package session

import (
	"maps"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

const defaultMaxDepth = 50

// State captures a closet configuration at a point in time.
type State struct {
	Design model.Design
	Label  string // what the edit did, e.g. "width 1.6"
}

// History manages undo/redo stacks of closet states.
type History struct {
	undoStack []State
	redoStack []State
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a state onto the undo stack and clears the redo stack.
// It is called with the state from before the edit.
func (h *History) Push(s State) {
	s.Design = s.Design.Clone()
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent state from the undo stack and pushes current
// onto the redo stack. Returns false if there is nothing to undo.
func (h *History) Undo(current State) (State, bool) {
	if len(h.undoStack) == 0 {
		return State{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	current.Design = current.Design.Clone()
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent state from the redo stack and pushes current
// onto the undo stack. Returns false if there is nothing to redo.
func (h *History) Redo(current State) (State, bool) {
	if len(h.redoStack) == 0 {
		return State{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	current.Design = current.Design.Clone()
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one state to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one state to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// sameConfiguration reports whether a and b describe the same closet,
// ignoring identity and timestamps.
func sameConfiguration(a, b model.Design) bool {
	return a.Family == b.Family &&
		a.Layout == b.Layout &&
		a.Width == b.Width &&
		a.Height == b.Height &&
		a.Depth == b.Depth &&
		a.InnerWalls == b.InnerWalls &&
		a.TopOpen == b.TopOpen &&
		a.BottomOpen == b.BottomOpen &&
		maps.Equal(a.TopLeftDoors, b.TopLeftDoors) &&
		maps.Equal(a.BottomLeftDoors, b.BottomLeftDoors) &&
		maps.Equal(a.TopOpenDoors, b.TopOpenDoors) &&
		maps.Equal(a.BottomOpenDoors, b.BottomOpenDoors)
}
