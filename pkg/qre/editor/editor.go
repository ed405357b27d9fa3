// Package editor turns raw input events into commands and runs them through
// the history manager.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/komsit37/qre/pkg/qre/command"
	"github.com/komsit37/qre/pkg/qre/history"
	"github.com/komsit37/qre/pkg/qre/types"
	"github.com/komsit37/qre/pkg/qre/view"
)

// Options configures an Editor.
type Options struct {
	// Companies is the fixed company list used to seed new EPS years and
	// the default company of new report events.
	Companies []string
	MaxEvents int
	// Views are extra widgets kept in sync with the panel.
	Views []view.Adapter
	Now   func() time.Time
}

// Editor owns the document, the record panel and the command history.
type Editor struct {
	doc   *types.Document
	panel *view.Panel
	views view.Group
	mgr   *history.Manager
	log   *history.Log
	opts  Options

	selected string
	dirty    bool
	canUndo  bool
	canRedo  bool
	notices  []error
	pending  error
}

// New returns an editor over doc, displaying its first record if any.
func New(doc *types.Document, opts Options) *Editor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if doc == nil {
		doc = types.NewDocument(types.DefaultWorkingDate(opts.Now()))
	}
	e := &Editor{
		doc:   doc,
		panel: view.NewPanel(opts.MaxEvents),
		log:   history.NewLog(),
		opts:  opts,
	}
	e.panel.OnEdit = e.onEdit
	e.views = append(view.Group{e.panel}, opts.Views...)
	e.mgr = history.NewManager(history.Callbacks{
		OnHistoryEvent:        e.log.Append,
		OnDirtyChanged:        func(d bool) { e.dirty = d },
		OnHistoryStateChanged: e.onStateChanged,
	}, history.WithRefresher(e.views))
	e.display(firstKey(doc))
	return e
}

func (e *Editor) env() command.Env {
	return command.Env{Doc: e.doc, View: e.views, Report: e.notice}
}

func (e *Editor) notice(err error) {
	glog.Warningf("[editor] %v", err)
	e.notices = append(e.notices, err)
}

func (e *Editor) onStateChanged() {
	e.canUndo = e.mgr.CanUndo()
	e.canRedo = e.mgr.CanRedo()
	if _, ok := e.doc.Record(e.selected); !ok {
		e.selected = ""
	}
}

func (e *Editor) execute(cmd command.Command) command.Command {
	return e.mgr.Execute(cmd)
}

// Document returns the edited document.
func (e *Editor) Document() *types.Document { return e.doc }

// Panel returns the record panel.
func (e *Editor) Panel() *view.Panel { return e.panel }

// Selected is the key of the displayed record.
func (e *Editor) Selected() string { return e.selected }

func (e *Editor) Dirty() bool   { return e.dirty }
func (e *Editor) CanUndo() bool { return e.canUndo }
func (e *Editor) CanRedo() bool { return e.canRedo }

// History returns the history messages in order.
func (e *Editor) History() []string { return e.log.Messages() }

// Log returns the history log.
func (e *Editor) Log() *history.Log { return e.log }

// Manager exposes the history manager.
func (e *Editor) Manager() *history.Manager { return e.mgr }

// Notices returns the non-fatal problems raised so far and forgets them.
func (e *Editor) Notices() []error {
	out := e.notices
	e.notices = nil
	return out
}

// Companies is the configured fixed company list.
func (e *Editor) Companies() []string { return e.opts.Companies }

func (e *Editor) Undo() command.Command { return e.mgr.Undo() }
func (e *Editor) Redo() command.Command { return e.mgr.Redo() }

// Load replaces the document, clears history and marks the editor clean.
func (e *Editor) Load(doc *types.Document) {
	e.doc = doc
	e.mgr.ClearStacks()
	e.log.Reset()
	e.dirty = false
	e.display(firstKey(doc))
}

// MarkSaved clears the dirty flag and, when clearHistory is set, both stacks.
func (e *Editor) MarkSaved(clearHistory bool) {
	e.dirty = false
	if clearHistory {
		e.mgr.ClearStacks()
	}
}

// Select displays the record key. Selecting is not an edit and is not recorded.
func (e *Editor) Select(key string) error {
	if key == "" {
		return invalid(types.RecordsPath(), key, "enter a quote name to select")
	}
	if _, ok := e.doc.Record(key); !ok {
		return invalid(types.RecordsPath(), key, "quote not found")
	}
	e.display(key)
	return nil
}

func (e *Editor) display(key string) {
	e.selected = key
	e.panel.Load(e.doc, key)
}

// Edit is a committed change to the control at path, as a user would make
// it. The control reports it back as a user edit, which becomes at most one
// command.
func (e *Editor) Edit(path types.Path, value string) error {
	if path.Section != types.SectionDate {
		if e.selected == "" {
			return invalid(path, value, "no quote is displayed")
		}
		if path.Record == "" {
			path = path.WithRecord(e.selected)
		}
		if path.Record != e.selected {
			return invalid(path, value, fmt.Sprintf("quote %q is not displayed", path.Record))
		}
	}
	e.pending = nil
	e.panel.SetFieldValue(path, value, false)
	err := e.pending
	e.pending = nil
	return err
}

func (e *Editor) onEdit(path types.Path, _, raw string) {
	value := strings.TrimSpace(raw)
	if err := e.handleEdit(path, value); err != nil {
		e.pending = err
		return
	}
	// Rewrite the control only while it still shows the untrimmed text.
	if v, ok := e.panel.Value(path); !ok || v != raw || v == value {
		return
	}
	if path.Section == types.SectionDetails && path.Field == types.FieldName {
		e.panel.SetFieldValue(types.NamePath(e.selected), e.selected, true)
		return
	}
	e.panel.SetFieldValue(path, value, true)
}

func (e *Editor) handleEdit(p types.Path, value string) error {
	env := e.env()
	switch p.Section {
	case types.SectionDate:
		old := e.doc.GlobalDate
		if _, err := types.ParseDate(value); err != nil {
			return e.reject(p, old, value, "date must be MM/dd/yyyy")
		}
		if old != value {
			e.execute(command.NewFieldEdit(env, command.GlobalDate{}, old, value))
		}
		return nil
	case types.SectionDetails:
		if p.Field == types.FieldName {
			return e.rename(p, value)
		}
		return e.editField(p, command.Price{Key: p.Record}, value)
	case types.SectionEPrice, types.SectionPE:
		return e.editLeaf(p, command.SeriesValue{Key: p.Record, Kind: types.SeriesKind(p.Section), Company: p.Item}, value)
	case types.SectionEPS:
		return e.editLeaf(p, command.YearCompany{Key: p.Record, Year: p.Year, Company: p.Item, Field: p.Field}, value)
	case types.SectionSectors:
		if r, ok := e.doc.Record(p.Record); ok && r.FindSector(p.Item) == nil {
			if err := e.addSector(r, p.Item, value); err != nil {
				e.panel.Forget(p)
				return err
			}
			return nil
		}
		f := command.SectorType{Key: p.Record, Sector: p.Item}
		if !types.SectorType(value).Valid() {
			old, err := f.Get(e.doc)
			if err != nil {
				return e.drop(p, value, err)
			}
			return e.reject(p, old, value, "sector type must be main or sub")
		}
		return e.editField(p, f, value)
	case types.SectionEvents:
		r, _ := e.doc.Record(p.Record)
		if r == nil || p.Index < 0 || p.Index >= len(r.Events) {
			e.panel.Forget(p)
			return invalid(p, value, "no such report entry")
		}
		f := command.EventField{Key: p.Record, Event: r.Events[p.Index], Name: p.Field, Index: p.Index}
		if p.Field == types.FieldDate {
			if _, err := types.ParseDate(value); err != nil {
				old, _ := f.Get(e.doc)
				return e.reject(p, old, value, "date must be MM/dd/yyyy")
			}
		}
		if p.Field == types.FieldColor && value == "" {
			if err := e.editField(p, f, types.DefaultEventColor); err != nil {
				return err
			}
			e.panel.SetFieldValue(p, types.DefaultEventColor, true)
			return nil
		}
		return e.editField(p, f, value)
	}
	return invalid(p, value, "not an editable field")
}

func (e *Editor) editField(p types.Path, f command.Field, value string) error {
	old, err := f.Get(e.doc)
	if err != nil {
		return e.drop(p, value, err)
	}
	if old != value {
		e.execute(command.NewFieldEdit(e.env(), f, old, value))
	}
	return nil
}

func (e *Editor) editLeaf(p types.Path, l command.Leaf, value string) error {
	old, err := l.Get(e.doc)
	if err != nil {
		return e.drop(p, value, err)
	}
	if old != value {
		e.execute(command.NewCreateOrUpdate(e.env(), l, old, value))
	}
	return nil
}

func (e *Editor) rename(p types.Path, name string) error {
	old := p.Record
	switch {
	case name == "":
		return e.reject(p, old, name, "quote name cannot be empty")
	case name == old:
		return nil
	}
	if _, taken := e.doc.Record(name); taken {
		return e.reject(p, old, name, "a quote with that name already exists")
	}
	e.execute(command.NewKeyedRename(e.env(), old, name, e.track))
	return nil
}

func (e *Editor) track(from, to string) {
	if e.selected == from {
		e.selected = to
	}
}

// reject puts the control back to the document value without creating a command.
func (e *Editor) reject(p types.Path, old, value, reason string) error {
	e.panel.SetFieldValue(p, old, true)
	return invalid(p, value, reason)
}

// drop removes a control whose target no longer resolves.
func (e *Editor) drop(p types.Path, value string, err error) error {
	e.panel.Forget(p)
	reason := err.Error()
	var stale *command.StaleRefError
	if errors.As(err, &stale) {
		reason = stale.Reason
	}
	return invalid(p, value, reason)
}

func invalid(p types.Path, value, reason string) error {
	return &command.ValidationError{Path: p, Value: value, Reason: reason}
}

func firstKey(doc *types.Document) string {
	keys := doc.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
