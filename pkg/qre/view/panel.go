package view

import (
	"github.com/komsit37/qre/pkg/qre/types"
)

// EditFunc receives a user edit reported by a widget: the control at path
// changed from old to new.
type EditFunc func(path types.Path, old, new string)

// Default display limits.
const (
	DefaultMaxEvents = 6
	DefaultMaxYears  = 2
)

// Panel is the widget model of the record editor. It mirrors the displayed
// record's controls, holds the view-only selections, and reports
// non-suppressed writes to OnEdit.
type Panel struct {
	MaxEvents int
	MaxYears  int
	OnEdit    EditFunc

	doc        *types.Document
	record     string
	fields     map[string]string
	events     []*types.ReportEvent
	years      []*types.YearGroup
	records    []string
	selections map[types.SelectionID][]string
	refreshes  map[types.RegionID]int
}

// NewPanel returns an empty panel that renders at most maxEvents events.
func NewPanel(maxEvents int) *Panel {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	p := &Panel{MaxEvents: maxEvents, MaxYears: DefaultMaxYears}
	p.reset()
	return p
}

func (p *Panel) reset() {
	p.fields = map[string]string{}
	p.events = nil
	p.years = nil
	p.selections = map[types.SelectionID][]string{}
	if p.refreshes == nil {
		p.refreshes = map[types.RegionID]int{}
	}
}

// Load binds the panel to doc and displays the record key. Loading is
// programmatic and never reports edits.
func (p *Panel) Load(doc *types.Document, key string) {
	p.reset()
	p.doc = doc
	p.record = key
	for _, id := range []types.RegionID{
		types.RegionDate, types.RegionRecords, types.RegionDetails, types.RegionEPrice,
		types.RegionPE, types.RegionEPS, types.RegionEvents, types.RegionSectors,
	} {
		p.sync(id)
	}
}

// Document is the document the panel is bound to.
func (p *Panel) Document() *types.Document { return p.doc }

// Record is the key of the displayed record, empty when none is shown.
func (p *Panel) Record() string { return p.record }

// Value returns the control value shown for path.
func (p *Panel) Value(path types.Path) (string, bool) {
	v, ok := p.fields[fieldKey(path)]
	return v, ok
}

func (p *Panel) SetFieldValue(field types.Path, value string, suppressEcho bool) {
	if !p.shows(field) {
		return
	}
	at := field
	if at.Section != types.SectionDate && at.Record == "" {
		at.Record = p.record
	}
	k := fieldKey(field)
	old := p.fields[k]
	p.fields[k] = value
	if suppressEcho {
		if field.Section == types.SectionDetails && field.Field == types.FieldName {
			p.record = value
		}
		return
	}
	if old != value && p.OnEdit != nil {
		p.OnEdit(at, old, value)
	}
}

// Forget drops the control at path, as when its row no longer exists.
func (p *Panel) Forget(path types.Path) {
	if p.shows(path) {
		delete(p.fields, fieldKey(path))
	}
}

func (p *Panel) RefreshList(list types.Path, items any) {
	switch v := items.(type) {
	case []string:
		if list.Section == types.SectionRecords {
			p.records = append([]string(nil), v...)
		}
		return
	}
	if !p.shows(list) {
		return
	}
	switch v := items.(type) {
	case []*types.ReportEvent:
		p.setEvents(v)
	case []*types.YearGroup:
		p.setYears(v)
	case []*types.SectorTag:
		p.setSectors(v)
	}
}

func (p *Panel) SetSelection(id types.SelectionID, items []string) {
	p.selections[id] = append([]string(nil), items...)
}

// Selection returns the selection stored under id.
func (p *Panel) Selection(id types.SelectionID) ([]string, bool) {
	s, ok := p.selections[id]
	return s, ok
}

// RefreshRegion re-reads region id from the bound document.
func (p *Panel) RefreshRegion(id types.RegionID) {
	p.refreshes[id]++
	p.sync(id)
}

// Refreshes reports how many times region id was refreshed.
func (p *Panel) Refreshes(id types.RegionID) int { return p.refreshes[id] }

// Records is the record list as last refreshed.
func (p *Panel) Records() []string { return p.records }

// AllEvents returns every event of the displayed record in document order.
func (p *Panel) AllEvents() []*types.ReportEvent { return p.events }

// Events returns the events to render: latest first, capped to MaxEvents.
// The document keeps every event regardless of the cap.
func (p *Panel) Events() []*types.ReportEvent {
	out := types.EventsRecentFirst(p.events)
	if p.MaxEvents > 0 && len(out) > p.MaxEvents {
		out = out[:p.MaxEvents]
	}
	return out
}

// Years returns the EPS year groups of the displayed record.
func (p *Panel) Years() []*types.YearGroup { return p.years }

// VisibleYears returns up to MaxYears year names: selected years that exist
// first, topped up with the earliest remaining years.
func (p *Panel) VisibleYears() []string {
	limit := p.MaxYears
	if limit <= 0 {
		limit = DefaultMaxYears
	}
	exists := map[string]bool{}
	for _, y := range p.years {
		exists[y.Name] = true
	}
	var out []string
	seen := map[string]bool{}
	for _, name := range p.selections[types.SelectionYears] {
		if len(out) >= limit {
			break
		}
		if exists[name] && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	for _, y := range p.years {
		if len(out) >= limit {
			break
		}
		if !seen[y.Name] {
			out = append(out, y.Name)
			seen[y.Name] = true
		}
	}
	return out
}

// VisibleCompanies returns the companies shown for year: the stored selection
// restricted to companies present in the year, or all of them when unset.
func (p *Panel) VisibleCompanies(year string) []string {
	var group *types.YearGroup
	for _, y := range p.years {
		if y.Name == year {
			group = y
			break
		}
	}
	if group == nil {
		return nil
	}
	sel, ok := p.selections[types.CompaniesSelection(year)]
	var out []string
	if !ok {
		for _, c := range group.Companies {
			out = append(out, c.Name)
		}
		return out
	}
	for _, name := range sel {
		if group.FindCompany(name) != nil {
			out = append(out, name)
		}
	}
	return out
}

// VisibleSectors returns the sector names to render.
func (p *Panel) VisibleSectors() []string {
	r, ok := p.doc.Record(p.record)
	if !ok {
		return nil
	}
	sel, has := p.selections[types.SelectionSectors]
	var out []string
	for _, s := range r.Sectors {
		if !has || containsString(sel, s.Name) {
			out = append(out, s.Name)
		}
	}
	return out
}

func (p *Panel) shows(path types.Path) bool {
	switch path.Section {
	case types.SectionDate, types.SectionRecords:
		return true
	}
	return path.Record == "" || path.Record == p.record
}

func (p *Panel) setEvents(events []*types.ReportEvent) {
	for k := range p.fields {
		if hasSection(k, types.SectionEvents) {
			delete(p.fields, k)
		}
	}
	p.events = append([]*types.ReportEvent(nil), events...)
	for i, e := range p.events {
		p.fields[fieldKey(types.EventPath("", i, types.FieldCompany))] = e.Company
		p.fields[fieldKey(types.EventPath("", i, types.FieldDate))] = e.Date
		p.fields[fieldKey(types.EventPath("", i, types.FieldColor))] = e.Color
	}
}

func (p *Panel) setYears(years []*types.YearGroup) {
	p.years = append([]*types.YearGroup(nil), years...)
	for _, y := range p.years {
		for _, c := range y.Companies {
			p.fields[fieldKey(types.EPSPath("", y.Name, c.Name, types.FieldValue))] = c.Value
			p.fields[fieldKey(types.EPSPath("", y.Name, c.Name, types.FieldGrowth))] = c.Growth
		}
	}
}

func (p *Panel) setSectors(sectors []*types.SectorTag) {
	for k := range p.fields {
		if hasSection(k, types.SectionSectors) {
			delete(p.fields, k)
		}
	}
	for _, s := range sectors {
		p.fields[fieldKey(types.SectorPath("", s.Name))] = string(s.Type)
	}
}

func (p *Panel) sync(id types.RegionID) {
	if p.doc == nil {
		return
	}
	switch id {
	case types.RegionDate:
		p.fields[fieldKey(types.DatePath())] = p.doc.GlobalDate
		return
	case types.RegionRecords:
		p.records = p.doc.Keys()
		if _, ok := p.doc.Record(p.record); !ok && p.record != "" {
			doc := p.doc
			p.reset()
			p.doc = doc
			p.record = ""
			p.records = doc.Keys()
		}
		return
	}
	r, ok := p.doc.Record(p.record)
	if !ok {
		return
	}
	switch id {
	case types.RegionDetails:
		p.fields[fieldKey(types.NamePath(""))] = r.Name
		p.fields[fieldKey(types.PricePath(""))] = r.Price
	case types.RegionEPrice, types.RegionPE:
		kind := types.SeriesKind(id)
		series, _ := r.Series(kind)
		for _, e := range *series {
			p.fields[fieldKey(types.SeriesPath("", kind, e.Name))] = e.Value
		}
	case types.RegionEPS, types.RegionChart:
		p.setYears(r.EPS)
	case types.RegionEvents:
		p.setEvents(r.Events)
	case types.RegionSectors:
		p.setSectors(r.Sectors)
	}
}

func fieldKey(path types.Path) string {
	path.Record = ""
	return path.String()
}

func hasSection(k string, s types.Section) bool {
	prefix := "." + string(s) + "."
	return len(k) > len(prefix) && k[:len(prefix)] == prefix
}

func containsString(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
