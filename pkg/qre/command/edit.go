package command

import (
	"fmt"

	"github.com/komsit37/qre/pkg/qre/types"
)

// FieldEdit sets one scalar leaf from Old to New.
type FieldEdit struct {
	env   Env
	field Field
	Old   string
	New   string
}

// NewFieldEdit captures an edit of field. old must be read from the document
// and new from the control.
func NewFieldEdit(env Env, field Field, old, new string) *FieldEdit {
	return &FieldEdit{env: env, field: field, Old: old, New: new}
}

func (c *FieldEdit) Execute()   { c.apply(c.New) }
func (c *FieldEdit) Unexecute() { c.apply(c.Old) }

func (c *FieldEdit) apply(value string) {
	at, err := c.field.Set(c.env.Doc, value)
	if err != nil {
		c.env.report(err)
		return
	}
	c.env.view().SetFieldValue(at, value, true)
}

func (c *FieldEdit) Describe() string {
	p := c.field.Path()
	if p.Section == types.SectionDate {
		return fmt.Sprintf("Change Global Date from %s to %s", c.Old, c.New)
	}
	return fmt.Sprintf("Change %s from '%s' to '%s'", describePath(p), c.Old, c.New)
}

func (c *FieldEdit) AffectedViewRegions() []types.RegionID {
	return []types.RegionID{c.field.Path().Region()}
}

// CreateOrUpdate writes a leaf inside lazily created containers. Undoing it
// restores the old leaf value; containers created on the way are kept.
type CreateOrUpdate struct {
	env  Env
	leaf Leaf
	Old  string
	New  string
}

func NewCreateOrUpdate(env Env, leaf Leaf, old, new string) *CreateOrUpdate {
	return &CreateOrUpdate{env: env, leaf: leaf, Old: old, New: new}
}

func (c *CreateOrUpdate) Execute()   { c.apply(c.New) }
func (c *CreateOrUpdate) Unexecute() { c.apply(c.Old) }

func (c *CreateOrUpdate) apply(value string) {
	ptr, err := c.leaf.Ensure(c.env.Doc)
	if err != nil {
		c.env.report(err)
		return
	}
	*ptr = value
	c.env.view().SetFieldValue(c.leaf.Path(), value, true)
}

func (c *CreateOrUpdate) Describe() string {
	return fmt.Sprintf("Change %s from '%s' to '%s'", describePath(c.leaf.Path()), c.Old, c.New)
}

func (c *CreateOrUpdate) AffectedViewRegions() []types.RegionID {
	p := c.leaf.Path()
	if p.Section == types.SectionEPS && p.Field == types.FieldGrowth {
		return []types.RegionID{types.RegionEPS, types.RegionChart}
	}
	return []types.RegionID{p.Region()}
}

func describePath(p types.Path) string {
	switch p.Section {
	case types.SectionDetails:
		return fmt.Sprintf("%s's %s", p.Record, p.Field)
	case types.SectionEPrice:
		return fmt.Sprintf("%s's E-Price for %s", p.Record, p.Item)
	case types.SectionPE:
		return fmt.Sprintf("%s's PE for %s", p.Record, p.Item)
	case types.SectionEPS:
		return fmt.Sprintf("%s's EPS %s for %s %s", p.Record, p.Year, p.Item, p.Field)
	case types.SectionSectors:
		return fmt.Sprintf("%s's sector %s %s", p.Record, p.Item, p.Field)
	case types.SectionEvents:
		return fmt.Sprintf("Record Report %s for '%s'", p.Field, p.Record)
	}
	return p.String()
}
