package editor

import (
	"fmt"
	"strings"

	"github.com/komsit37/qre/pkg/qre/command"
	"github.com/komsit37/qre/pkg/qre/types"
)

// RenameRecord renames the displayed record, as if typed into its name field.
func (e *Editor) RenameRecord(oldKey, newKey string) error {
	if err := e.Select(oldKey); err != nil {
		return err
	}
	return e.Edit(types.NamePath(oldKey), newKey)
}

// AddRecord creates a record with an empty E-Price and PE row per fixed
// company and displays it.
func (e *Editor) AddRecord(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(types.RecordsPath(), name, "quote name cannot be empty")
	}
	if _, ok := e.doc.Record(name); ok {
		return invalid(types.RecordsPath(), name, "a quote with that name already exists")
	}
	r := types.NewRecord(name)
	for _, c := range e.opts.Companies {
		r.EPrice = append(r.EPrice, &types.ValueEntry{Name: c})
		r.PE = append(r.PE, &types.ValueEntry{Name: c})
	}
	e.execute(command.NewAddRecord(e.env(), r))
	e.display(name)
	return nil
}

// RemoveRecord deletes the record key. When it was displayed the panel is cleared.
func (e *Editor) RemoveRecord(key string) error {
	r, ok := e.doc.Record(key)
	if !ok {
		return invalid(types.RecordsPath(), key, "quote not found")
	}
	e.execute(command.NewRemoveRecord(e.env(), key, r))
	return nil
}

// AddYear adds an EPS year to the displayed record at its sorted position,
// seeded with an empty row per fixed company.
func (e *Editor) AddYear(year string) error {
	year = strings.TrimSpace(year)
	r, err := e.displayed(types.ListPath("", types.SectionEPS))
	if err != nil {
		return err
	}
	p := types.ListPath(r.Name, types.SectionEPS)
	if year == "" {
		return invalid(p, year, "year cannot be empty")
	}
	if r.FindYear(year) != nil {
		return invalid(p, year, fmt.Sprintf("year %s already exists", year))
	}
	g := &types.YearGroup{Name: year}
	for _, c := range e.opts.Companies {
		g.Companies = append(g.Companies, &types.CompanyYearEntry{Name: c})
	}
	e.execute(command.NewListAdd[*types.YearGroup](e.env(), command.Years{Key: r.Name}, g, types.YearInsertIndex(r.EPS, year), command.YearLabel(g)))
	return nil
}

// RemoveYear removes an EPS year from the displayed record.
func (e *Editor) RemoveYear(year string) error {
	r, err := e.displayed(types.ListPath("", types.SectionEPS))
	if err != nil {
		return err
	}
	for i, g := range r.EPS {
		if g.Name == year {
			e.execute(command.NewListRemove[*types.YearGroup](e.env(), command.Years{Key: r.Name}, g, i, command.YearLabel(g)))
			return nil
		}
	}
	return invalid(types.ListPath(r.Name, types.SectionEPS), year, "no such year")
}

// AddEvent prepends a report event to the displayed record. Empty arguments
// fall back to the first fixed company, the working date and the default color.
func (e *Editor) AddEvent(company, date, color string) error {
	r, err := e.displayed(types.ListPath("", types.SectionEvents))
	if err != nil {
		return err
	}
	if company == "" && len(e.opts.Companies) > 0 {
		company = e.opts.Companies[0]
	}
	if date == "" {
		date = types.DefaultWorkingDate(e.opts.Now())
	}
	if color == "" {
		color = types.DefaultEventColor
	}
	p := types.ListPath(r.Name, types.SectionEvents)
	if _, err := types.ParseDate(date); err != nil {
		return invalid(p, date, "date must be MM/dd/yyyy")
	}
	ev := &types.ReportEvent{Company: company, Date: date, Color: color}
	e.execute(command.NewListAdd[*types.ReportEvent](e.env(), command.Events{Key: r.Name}, ev, 0, command.EventLabel(ev)))
	return nil
}

// RemoveEvent removes the event at index, in document order.
func (e *Editor) RemoveEvent(index int) error {
	r, err := e.displayed(types.ListPath("", types.SectionEvents))
	if err != nil {
		return err
	}
	if index < 0 || index >= len(r.Events) {
		return invalid(types.ListPath(r.Name, types.SectionEvents), fmt.Sprint(index), "no such report entry")
	}
	ev := r.Events[index]
	e.execute(command.NewListRemove[*types.ReportEvent](e.env(), command.Events{Key: r.Name}, ev, index, command.EventLabel(ev)))
	return nil
}

// AddSector tags the displayed record with a new sector at the end of its
// list. An empty type means main.
func (e *Editor) AddSector(name, typ string) error {
	r, err := e.displayed(types.ListPath("", types.SectionSectors))
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if typ == "" {
		typ = string(types.SectorMain)
	}
	if r.FindSector(name) != nil {
		return invalid(types.SectorPath(r.Name, name), typ, fmt.Sprintf("sector %s already exists", name))
	}
	return e.addSector(r, name, typ)
}

func (e *Editor) addSector(r *types.Record, name, typ string) error {
	p := types.SectorPath(r.Name, name)
	switch {
	case name == "":
		return invalid(p, typ, "sector name cannot be empty")
	case !types.SectorType(typ).Valid():
		return invalid(p, typ, "sector type must be main or sub")
	}
	tag := &types.SectorTag{Name: name, Type: types.SectorType(typ)}
	e.execute(command.NewListAdd[*types.SectorTag](e.env(), command.Sectors{Key: r.Name}, tag, command.Append, command.SectorLabel(tag)))
	return nil
}

// RemoveSector drops a sector tag from the displayed record.
func (e *Editor) RemoveSector(name string) error {
	r, err := e.displayed(types.ListPath("", types.SectionSectors))
	if err != nil {
		return err
	}
	for i, s := range r.Sectors {
		if s.Name == name {
			e.execute(command.NewListRemove[*types.SectorTag](e.env(), command.Sectors{Key: r.Name}, s, i, command.SectorLabel(s)))
			return nil
		}
	}
	return invalid(types.ListPath(r.Name, types.SectionSectors), name, "no such sector")
}

// SetCompanies replaces the fixed company list. Blank and repeated names are
// dropped. The change is undoable and does not touch existing records.
func (e *Editor) SetCompanies(names []string) error {
	var list []string
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		list = append(list, n)
	}
	if len(list) == 0 {
		return invalid(types.ListPath("", types.SectionEPrice), strings.Join(names, ","), "company list cannot be empty")
	}
	if equalStrings(list, e.opts.Companies) {
		return nil
	}
	e.execute(command.NewFixedCompanies(e.setCompanies, e.opts.Companies, list))
	return nil
}

func (e *Editor) setCompanies(names []string) { e.opts.Companies = names }

// SelectYears changes which EPS years are displayed.
func (e *Editor) SelectYears(years []string) error {
	r, err := e.displayed(types.ListPath("", types.SectionEPS))
	if err != nil {
		return err
	}
	for _, y := range years {
		if r.FindYear(y) == nil {
			return invalid(types.ListPath(r.Name, types.SectionEPS), y, "no such year")
		}
	}
	old := e.panel.VisibleYears()
	return e.selectList(types.SelectionYears, old, years)
}

// SelectCompanies changes which companies are displayed for an EPS year.
func (e *Editor) SelectCompanies(year string, companies []string) error {
	r, err := e.displayed(types.ListPath("", types.SectionEPS))
	if err != nil {
		return err
	}
	g := r.FindYear(year)
	if g == nil {
		return invalid(types.ListPath(r.Name, types.SectionEPS), year, "no such year")
	}
	for _, c := range companies {
		if g.FindCompany(c) == nil {
			return invalid(types.EPSPath(r.Name, year, c, ""), c, "no such company")
		}
	}
	return e.selectList(types.CompaniesSelection(year), e.panel.VisibleCompanies(year), companies)
}

// SelectSectors changes which sectors are displayed.
func (e *Editor) SelectSectors(names []string) error {
	r, err := e.displayed(types.ListPath("", types.SectionSectors))
	if err != nil {
		return err
	}
	for _, n := range names {
		if r.FindSector(n) == nil {
			return invalid(types.ListPath(r.Name, types.SectionSectors), n, "no such sector")
		}
	}
	return e.selectList(types.SelectionSectors, e.panel.VisibleSectors(), names)
}

func (e *Editor) selectList(id types.SelectionID, old, new []string) error {
	if equalStrings(old, new) {
		return nil
	}
	e.execute(command.NewSelection(e.env(), id, old, new))
	return nil
}

func (e *Editor) displayed(p types.Path) (*types.Record, error) {
	r, ok := e.doc.Record(e.selected)
	if !ok {
		return nil, invalid(p, "", "no quote is displayed")
	}
	return r, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
