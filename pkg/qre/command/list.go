package command

import (
	"fmt"

	"github.com/komsit37/qre/pkg/qre/types"
)

// Append as an insert index places the item at the end of the list.
const Append = -1

// List describes a list inside a record whose items are held by identity.
type List[T comparable] interface {
	Path() types.Path
	Items(doc *types.Document) (*[]T, error)
}

// Events is the report event list of a record.
type Events struct{ Key string }

func (l Events) Path() types.Path { return types.ListPath(l.Key, types.SectionEvents) }

func (l Events) Items(doc *types.Document) (*[]*types.ReportEvent, error) {
	r, err := record(doc, "list", l.Path())
	if err != nil {
		return nil, err
	}
	return &r.Events, nil
}

// Years is the EPS year group list of a record.
type Years struct{ Key string }

func (l Years) Path() types.Path { return types.ListPath(l.Key, types.SectionEPS) }

func (l Years) Items(doc *types.Document) (*[]*types.YearGroup, error) {
	r, err := record(doc, "list", l.Path())
	if err != nil {
		return nil, err
	}
	return &r.EPS, nil
}

// Sectors is the sector tag list of a record.
type Sectors struct{ Key string }

func (l Sectors) Path() types.Path { return types.ListPath(l.Key, types.SectionSectors) }

func (l Sectors) Items(doc *types.Document) (*[]*types.SectorTag, error) {
	r, err := record(doc, "list", l.Path())
	if err != nil {
		return nil, err
	}
	return &r.Sectors, nil
}

// ListAdd inserts Item at Index. Undo removes exactly that item.
type ListAdd[T comparable] struct {
	env   Env
	list  List[T]
	Item  T
	Index int
	label string
}

func NewListAdd[T comparable](env Env, list List[T], item T, index int, label string) *ListAdd[T] {
	return &ListAdd[T]{env: env, list: list, Item: item, Index: index, label: label}
}

func (c *ListAdd[T]) Execute() {
	items, err := c.list.Items(c.env.Doc)
	if err != nil {
		c.env.report(err)
		return
	}
	if indexOf(*items, c.Item) < 0 {
		*items = insertAt(*items, c.Index, c.Item)
	}
	c.env.view().RefreshList(c.list.Path(), *items)
}

func (c *ListAdd[T]) Unexecute() {
	items, err := c.list.Items(c.env.Doc)
	if err != nil {
		c.env.report(err)
		return
	}
	if i := indexOf(*items, c.Item); i >= 0 {
		*items = removeAt(*items, i)
	}
	c.env.view().RefreshList(c.list.Path(), *items)
}

func (c *ListAdd[T]) Describe() string {
	return fmt.Sprintf("Add %s to '%s'", c.label, c.list.Path().Record)
}

func (c *ListAdd[T]) AffectedViewRegions() []types.RegionID {
	return listRegions(c.list.Path())
}

// ListRemove removes Item; undo puts it back at the index it had when the
// command was built, clamped to the list's current bounds.
type ListRemove[T comparable] struct {
	env   Env
	list  List[T]
	Item  T
	Index int
	label string
}

func NewListRemove[T comparable](env Env, list List[T], item T, index int, label string) *ListRemove[T] {
	return &ListRemove[T]{env: env, list: list, Item: item, Index: index, label: label}
}

func (c *ListRemove[T]) Execute() {
	items, err := c.list.Items(c.env.Doc)
	if err != nil {
		c.env.report(err)
		return
	}
	if i := indexOf(*items, c.Item); i >= 0 {
		*items = removeAt(*items, i)
	}
	c.env.view().RefreshList(c.list.Path(), *items)
}

func (c *ListRemove[T]) Unexecute() {
	items, err := c.list.Items(c.env.Doc)
	if err != nil {
		c.env.report(err)
		return
	}
	if indexOf(*items, c.Item) < 0 {
		*items = insertAt(*items, c.Index, c.Item)
	}
	c.env.view().RefreshList(c.list.Path(), *items)
}

func (c *ListRemove[T]) Describe() string {
	return fmt.Sprintf("Remove %s from '%s'", c.label, c.list.Path().Record)
}

func (c *ListRemove[T]) AffectedViewRegions() []types.RegionID {
	return listRegions(c.list.Path())
}

func listRegions(p types.Path) []types.RegionID {
	if p.Section == types.SectionEPS {
		return []types.RegionID{types.RegionEPS, types.RegionChart}
	}
	return []types.RegionID{p.Region()}
}

// EventLabel describes an event the way history entries show it.
func EventLabel(e *types.ReportEvent) string {
	return fmt.Sprintf("Record Report (%s on %s)", e.Company, e.Date)
}

// YearLabel describes an EPS year group.
func YearLabel(y *types.YearGroup) string {
	return fmt.Sprintf("EPS Year '%s'", y.Name)
}

// SectorLabel describes a sector tag.
func SectorLabel(s *types.SectorTag) string {
	return fmt.Sprintf("Sector '%s' (%s)", s.Name, s.Type)
}

func indexOf[T comparable](items []T, item T) int {
	for i, v := range items {
		if v == item {
			return i
		}
	}
	return -1
}

func insertAt[T any](items []T, index int, item T) []T {
	if index < 0 || index > len(items) {
		index = len(items)
	}
	items = append(items, item)
	copy(items[index+1:], items[index:])
	items[index] = item
	return items
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
