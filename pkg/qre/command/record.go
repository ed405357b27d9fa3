package command

import (
	"fmt"

	"github.com/komsit37/qre/pkg/qre/types"
)

// AddRecord inserts a new record under Key.
type AddRecord struct {
	env    Env
	Key    string
	Record *types.Record
}

func NewAddRecord(env Env, rec *types.Record) *AddRecord {
	return &AddRecord{env: env, Key: rec.Name, Record: rec}
}

func (c *AddRecord) Execute() {
	switch cur, ok := c.env.Doc.Record(c.Key); {
	case !ok:
		c.env.Doc.Records[c.Key] = c.Record
	case cur != c.Record:
		c.env.report(stale("add", types.NamePath(c.Key), "key already holds another record"))
		return
	}
	c.env.view().RefreshList(types.RecordsPath(), c.env.Doc.Keys())
}

func (c *AddRecord) Unexecute() {
	if cur, ok := c.env.Doc.Record(c.Key); ok && cur == c.Record {
		delete(c.env.Doc.Records, c.Key)
	}
	c.env.view().RefreshList(types.RecordsPath(), c.env.Doc.Keys())
}

func (c *AddRecord) Describe() string { return fmt.Sprintf("Add quote '%s'", c.Key) }

func (c *AddRecord) AffectedViewRegions() []types.RegionID {
	return []types.RegionID{types.RegionRecords}
}

// RemoveRecord deletes the record under Key and keeps it for undo.
type RemoveRecord struct {
	env    Env
	Key    string
	Record *types.Record
}

func NewRemoveRecord(env Env, key string, rec *types.Record) *RemoveRecord {
	return &RemoveRecord{env: env, Key: key, Record: rec}
}

func (c *RemoveRecord) Execute() {
	if cur, ok := c.env.Doc.Record(c.Key); ok && cur == c.Record {
		delete(c.env.Doc.Records, c.Key)
	}
	c.env.view().RefreshList(types.RecordsPath(), c.env.Doc.Keys())
}

func (c *RemoveRecord) Unexecute() {
	switch cur, ok := c.env.Doc.Record(c.Key); {
	case !ok:
		c.env.Doc.Records[c.Key] = c.Record
	case cur != c.Record:
		c.env.report(stale("restore", types.NamePath(c.Key), "key already holds another record"))
		return
	}
	c.env.view().RefreshList(types.RecordsPath(), c.env.Doc.Keys())
}

func (c *RemoveRecord) Describe() string { return fmt.Sprintf("Remove quote '%s'", c.Key) }

func (c *RemoveRecord) AffectedViewRegions() []types.RegionID {
	return []types.RegionID{types.RegionRecords}
}
