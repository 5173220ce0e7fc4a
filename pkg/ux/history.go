package ux

// editor applies commands to the model. apply returns the command as
// applied; revert undoes a command returned by apply.
type editor interface {
	apply(c Command) Command
	revert(c Command)
}

// History is a linear undo log: a slice of applied commands and a cursor.
// Commands before the cursor are undoable, those at or after it redoable.
type History struct {
	cmds     []Command
	cursor   int
	limit    int
	coalesce bool
}

// NewHistory creates an empty log. A positive limit bounds its length by
// dropping the oldest command. With coalesce set, area and move commands of
// the same gesture merge into one entry.
func NewHistory(limit int, coalesce bool) *History {
	return &History{limit: limit, coalesce: coalesce}
}

// Do applies c, discards the redo suffix and records the result. It returns
// c as applied.
func (h *History) Do(e editor, c Command) Command {
	h.cmds = h.cmds[:h.cursor]

	if top := h.mergeTarget(c); top != nil {
		switch c.Verb {
		case VerbSelectArea:
			e.revert(*top)
			rec := e.apply(c)
			*top = rec
			return rec
		case VerbMoveSelection:
			rec := e.apply(c)
			top.NewCenter = rec.NewCenter
			top.Snap = rec.Snap
			return rec
		}
	}

	rec := e.apply(c)
	h.cmds = append(h.cmds, rec)
	h.cursor++
	if h.limit > 0 && len(h.cmds) > h.limit {
		h.cmds = h.cmds[len(h.cmds)-h.limit:]
		h.cursor = len(h.cmds)
	}
	return rec
}

func (h *History) mergeTarget(c Command) *Command {
	if !h.coalesce || h.cursor == 0 {
		return nil
	}
	if c.Verb != VerbSelectArea && c.Verb != VerbMoveSelection {
		return nil
	}
	top := &h.cmds[h.cursor-1]
	if top.Verb != c.Verb || top.Gesture != c.Gesture || c.Gesture == 0 {
		return nil
	}
	return top
}

// Undo reverts the command before the cursor. It reports false at the head.
func (h *History) Undo(e editor) bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	e.revert(h.cmds[h.cursor])
	return true
}

// Redo re-applies the command at the cursor. It reports false at the tail.
func (h *History) Redo(e editor) bool {
	if h.cursor == len(h.cmds) {
		return false
	}
	h.cmds[h.cursor] = e.apply(h.cmds[h.cursor])
	h.cursor++
	return true
}

// CanUndo reports whether a command precedes the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether an undone command follows the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.cmds) }

// Len returns the number of recorded commands, including undone ones.
func (h *History) Len() int { return len(h.cmds) }

// Cursor returns the number of commands currently applied.
func (h *History) Cursor() int { return h.cursor }

// Commands returns the recorded commands. The slice must not be modified.
func (h *History) Commands() []Command {
	return h.cmds
}
