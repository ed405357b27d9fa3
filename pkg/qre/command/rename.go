package command

import (
	"fmt"

	"github.com/komsit37/qre/pkg/qre/types"
)

// KeyedRename renames a record: it changes the document's key set and the
// record's Name together.
type KeyedRename struct {
	env    Env
	OldKey string
	NewKey string
	// Track is told about every applied rename so the caller can keep its
	// own notion of the displayed key in step, on undo as well.
	Track func(from, to string)
}

func NewKeyedRename(env Env, oldKey, newKey string, track func(from, to string)) *KeyedRename {
	return &KeyedRename{env: env, OldKey: oldKey, NewKey: newKey, Track: track}
}

func (c *KeyedRename) Execute()   { c.apply(c.OldKey, c.NewKey) }
func (c *KeyedRename) Unexecute() { c.apply(c.NewKey, c.OldKey) }

func (c *KeyedRename) apply(from, to string) {
	doc := c.env.Doc
	_, hasFrom := doc.Record(from)
	_, hasTo := doc.Record(to)
	switch {
	case !hasFrom && hasTo:
		// already applied
	case !hasFrom:
		c.env.report(stale("rename", types.NamePath(from), "record %q not found", from))
		return
	default:
		if err := doc.Rename(from, to); err != nil {
			c.env.report(stale("rename", types.NamePath(from), "%v", err))
			return
		}
	}
	v := c.env.view()
	v.SetFieldValue(types.NamePath(from), to, true)
	v.RefreshList(types.RecordsPath(), doc.Keys())
	if c.Track != nil {
		c.Track(from, to)
	}
}

func (c *KeyedRename) Describe() string {
	return fmt.Sprintf("Change %s's name from '%s' to '%s'", c.OldKey, c.OldKey, c.NewKey)
}

func (c *KeyedRename) AffectedViewRegions() []types.RegionID {
	return []types.RegionID{types.RegionRecords, types.RegionDetails}
}
