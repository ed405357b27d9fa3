package command

import (
	"fmt"
	"strings"

	"github.com/komsit37/qre/pkg/qre/types"
)

// Selection swaps a view-only selection between two captured lists. The
// document is never touched, but the change still goes through history.
type Selection struct {
	env    Env
	ID     types.SelectionID
	Old    []string
	New    []string
	region types.RegionID
}

func NewSelection(env Env, id types.SelectionID, old, new []string) *Selection {
	region := types.RegionEPS
	if id == types.SelectionSectors {
		region = types.RegionSectors
	}
	return &Selection{
		env:    env,
		ID:     id,
		Old:    append([]string(nil), old...),
		New:    append([]string(nil), new...),
		region: region,
	}
}

func (c *Selection) Execute()   { c.env.view().SetSelection(c.ID, append([]string(nil), c.New...)) }
func (c *Selection) Unexecute() { c.env.view().SetSelection(c.ID, append([]string(nil), c.Old...)) }

func (c *Selection) Describe() string {
	switch {
	case c.ID == types.SelectionYears:
		return fmt.Sprintf("Change displayed EPS years from [%s] to [%s]", strings.Join(c.Old, ", "), strings.Join(c.New, ", "))
	case c.ID == types.SelectionSectors:
		return fmt.Sprintf("Change displayed sectors from [%s] to [%s]", strings.Join(c.Old, ", "), strings.Join(c.New, ", "))
	case strings.HasPrefix(string(c.ID), "eps.") && strings.HasSuffix(string(c.ID), ".companies"):
		year := strings.TrimSuffix(strings.TrimPrefix(string(c.ID), "eps."), ".companies")
		return fmt.Sprintf("Change displayed companies for EPS year '%s'", year)
	}
	return fmt.Sprintf("Change displayed %s", c.ID)
}

func (c *Selection) AffectedViewRegions() []types.RegionID {
	return []types.RegionID{c.region}
}

// FixedCompanies swaps the fixed company list through apply. The list seeds
// new quotes and EPS years, so every series region is redrawn.
type FixedCompanies struct {
	apply func([]string)
	Old   []string
	New   []string
}

func NewFixedCompanies(apply func([]string), old, new []string) *FixedCompanies {
	return &FixedCompanies{
		apply: apply,
		Old:   append([]string(nil), old...),
		New:   append([]string(nil), new...),
	}
}

func (c *FixedCompanies) Execute()   { c.apply(append([]string(nil), c.New...)) }
func (c *FixedCompanies) Unexecute() { c.apply(append([]string(nil), c.Old...)) }

func (c *FixedCompanies) Describe() string {
	return fmt.Sprintf("Change E-Price fixed companies from [%s] to [%s]", strings.Join(c.Old, ", "), strings.Join(c.New, ", "))
}

func (c *FixedCompanies) AffectedViewRegions() []types.RegionID {
	return []types.RegionID{types.RegionEPrice, types.RegionPE, types.RegionEPS}
}
