// Package history sequences command execution over undo and redo stacks.
package history

import (
	"github.com/golang/glog"

	"github.com/komsit37/qre/pkg/qre/command"
	"github.com/komsit37/qre/pkg/qre/view"
)

// Callbacks are invoked by the Manager on every history transition.
// Nil callbacks are skipped.
type Callbacks struct {
	OnHistoryEvent        func(message string)
	OnDirtyChanged        func(dirty bool)
	OnHistoryStateChanged func()
}

// Manager owns the undo and redo stacks. A command lives in at most one of
// them; executing a new command discards the whole redo branch.
type Manager struct {
	undo      []command.Command
	redo      []command.Command
	cb        Callbacks
	refresher view.Refresher
}

// Option configures a Manager.
type Option func(*Manager)

// WithRefresher makes the Manager refresh the view regions a command reports
// after every execute, undo and redo.
func WithRefresher(r view.Refresher) Option {
	return func(m *Manager) { m.refresher = r }
}

func NewManager(cb Callbacks, opts ...Option) *Manager {
	m := &Manager{cb: cb}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Execute runs cmd and records it. It returns cmd.
func (m *Manager) Execute(cmd command.Command) command.Command {
	cmd.Execute()
	m.undo = append(m.undo, cmd)
	m.redo = nil
	m.transition("Executed", cmd)
	return cmd
}

// Undo reverses the most recent command. It returns nil, and fires no
// callbacks, when there is nothing to undo.
func (m *Manager) Undo() command.Command {
	if len(m.undo) == 0 {
		return nil
	}
	cmd := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	cmd.Unexecute()
	m.redo = append(m.redo, cmd)
	m.transition("Undone", cmd)
	return cmd
}

// Redo re-executes the most recently undone command, or returns nil.
func (m *Manager) Redo() command.Command {
	if len(m.redo) == 0 {
		return nil
	}
	cmd := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	cmd.Execute()
	m.undo = append(m.undo, cmd)
	m.transition("Redone", cmd)
	return cmd
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoDepth and RedoDepth report the stack sizes.
func (m *Manager) UndoDepth() int { return len(m.undo) }
func (m *Manager) RedoDepth() int { return len(m.redo) }

// PeekUndo returns the command Undo would reverse, or nil.
func (m *Manager) PeekUndo() command.Command {
	if len(m.undo) == 0 {
		return nil
	}
	return m.undo[len(m.undo)-1]
}

// PeekRedo returns the command Redo would replay, or nil.
func (m *Manager) PeekRedo() command.Command {
	if len(m.redo) == 0 {
		return nil
	}
	return m.redo[len(m.redo)-1]
}

// ClearStacks empties both stacks. Only OnHistoryStateChanged fires.
func (m *Manager) ClearStacks() {
	m.undo = nil
	m.redo = nil
	if m.cb.OnHistoryStateChanged != nil {
		m.cb.OnHistoryStateChanged()
	}
}

func (m *Manager) transition(verb string, cmd command.Command) {
	msg := verb + ": " + cmd.Describe()
	glog.V(1).Infof("[history] %s (undo=%d redo=%d)", msg, len(m.undo), len(m.redo))
	if m.cb.OnHistoryEvent != nil {
		m.cb.OnHistoryEvent(msg)
	}
	if m.cb.OnDirtyChanged != nil {
		m.cb.OnDirtyChanged(true)
	}
	if m.cb.OnHistoryStateChanged != nil {
		m.cb.OnHistoryStateChanged()
	}
	if m.refresher == nil {
		return
	}
	if r, ok := cmd.(command.Regions); ok {
		for _, id := range r.AffectedViewRegions() {
			m.refresher.RefreshRegion(id)
		}
	}
}
