package view

import "github.com/komsit37/qre/pkg/qre/types"

// Adapter is what a bound widget exposes to commands.
//
// Every write coming from a command passes suppressEcho=true; a widget must
// not report such a write back as a user edit.
type Adapter interface {
	SetFieldValue(field types.Path, value string, suppressEcho bool)
	RefreshList(list types.Path, items any)
	SetSelection(id types.SelectionID, items []string)
}

// Refresher re-renders a whole view region from the document.
type Refresher interface {
	RefreshRegion(id types.RegionID)
}

// Group fans adapter calls out to several synchronized widgets.
type Group []Adapter

func (g Group) SetFieldValue(field types.Path, value string, suppressEcho bool) {
	for _, a := range g {
		a.SetFieldValue(field, value, suppressEcho)
	}
}

func (g Group) RefreshList(list types.Path, items any) {
	for _, a := range g {
		a.RefreshList(list, items)
	}
}

func (g Group) SetSelection(id types.SelectionID, items []string) {
	for _, a := range g {
		a.SetSelection(id, items)
	}
}

// RefreshRegion forwards to the members that can refresh regions.
func (g Group) RefreshRegion(id types.RegionID) {
	for _, a := range g {
		if r, ok := a.(Refresher); ok {
			r.RefreshRegion(id)
		}
	}
}

// Nop discards every call.
type Nop struct{}

func (Nop) SetFieldValue(types.Path, string, bool)    {}
func (Nop) RefreshList(types.Path, any)               {}
func (Nop) SetSelection(types.SelectionID, []string) {}
