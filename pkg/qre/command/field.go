package command

import (
	"github.com/komsit37/qre/pkg/qre/types"
)

// Field is a strict accessor for one scalar leaf: every container on the way
// must already exist.
type Field interface {
	Path() types.Path
	Get(doc *types.Document) (string, error)
	// Set writes value and returns the path the leaf currently lives at.
	Set(doc *types.Document, value string) (types.Path, error)
}

// Leaf is an accessor that creates missing intermediate containers on write.
// Only the record itself must exist.
type Leaf interface {
	Path() types.Path
	// Get returns the current value, or "" when the containers do not exist yet.
	Get(doc *types.Document) (string, error)
	Ensure(doc *types.Document) (*string, error)
}

// GlobalDate addresses the document's report date.
type GlobalDate struct{}

func (GlobalDate) Path() types.Path { return types.DatePath() }

func (GlobalDate) Get(doc *types.Document) (string, error) { return doc.GlobalDate, nil }

func (GlobalDate) Set(doc *types.Document, value string) (types.Path, error) {
	doc.GlobalDate = value
	return types.DatePath(), nil
}

// Price addresses a record's price.
type Price struct{ Key string }

func (f Price) Path() types.Path { return types.PricePath(f.Key) }

func (f Price) Get(doc *types.Document) (string, error) {
	r, err := record(doc, "get", f.Path())
	if err != nil {
		return "", err
	}
	return r.Price, nil
}

func (f Price) Set(doc *types.Document, value string) (types.Path, error) {
	r, err := record(doc, "set", f.Path())
	if err != nil {
		return f.Path(), err
	}
	r.Price = value
	return f.Path(), nil
}

// SectorType addresses the type of one sector tag.
type SectorType struct {
	Key    string
	Sector string
}

func (f SectorType) Path() types.Path { return types.SectorPath(f.Key, f.Sector) }

func (f SectorType) tag(doc *types.Document, op string) (*types.SectorTag, error) {
	r, err := record(doc, op, f.Path())
	if err != nil {
		return nil, err
	}
	s := r.FindSector(f.Sector)
	if s == nil {
		return nil, stale(op, f.Path(), "sector %q not found", f.Sector)
	}
	return s, nil
}

func (f SectorType) Get(doc *types.Document) (string, error) {
	s, err := f.tag(doc, "get")
	if err != nil {
		return "", err
	}
	return string(s.Type), nil
}

func (f SectorType) Set(doc *types.Document, value string) (types.Path, error) {
	s, err := f.tag(doc, "set")
	if err != nil {
		return f.Path(), err
	}
	s.Type = types.SectorType(value)
	return f.Path(), nil
}

// EventField addresses one field of a specific report event. The event is
// held by identity, so the field follows it when the list is reordered.
type EventField struct {
	Key   string
	Event *types.ReportEvent
	Name  string
	// Index is the event's position when the accessor was built.
	Index int
}

func (f EventField) Path() types.Path { return types.EventPath(f.Key, f.Index, f.Name) }

func (f EventField) locate(doc *types.Document, op string) (int, error) {
	r, err := record(doc, op, f.Path())
	if err != nil {
		return -1, err
	}
	for i, e := range r.Events {
		if e == f.Event {
			return i, nil
		}
	}
	return -1, stale(op, f.Path(), "event no longer in record")
}

func (f EventField) Get(doc *types.Document) (string, error) {
	if _, err := f.locate(doc, "get"); err != nil {
		return "", err
	}
	return f.read(), nil
}

func (f EventField) read() string {
	switch f.Name {
	case types.FieldCompany:
		return f.Event.Company
	case types.FieldDate:
		return f.Event.Date
	default:
		return f.Event.Color
	}
}

func (f EventField) Set(doc *types.Document, value string) (types.Path, error) {
	i, err := f.locate(doc, "set")
	if err != nil {
		return f.Path(), err
	}
	switch f.Name {
	case types.FieldCompany:
		f.Event.Company = value
	case types.FieldDate:
		f.Event.Date = value
	default:
		f.Event.Color = value
	}
	return types.EventPath(f.Key, i, f.Name), nil
}

// SeriesValue addresses a company's value in the E-Price or PE series.
// Writing to an absent company appends a new entry.
type SeriesValue struct {
	Key     string
	Kind    types.SeriesKind
	Company string
}

func (l SeriesValue) Path() types.Path { return types.SeriesPath(l.Key, l.Kind, l.Company) }

func (l SeriesValue) Get(doc *types.Document) (string, error) {
	r, err := record(doc, "get", l.Path())
	if err != nil {
		return "", err
	}
	series, err := r.Series(l.Kind)
	if err != nil {
		return "", stale("get", l.Path(), "%v", err)
	}
	if e := types.FindValue(*series, l.Company); e != nil {
		return e.Value, nil
	}
	return "", nil
}

func (l SeriesValue) Ensure(doc *types.Document) (*string, error) {
	r, err := record(doc, "set", l.Path())
	if err != nil {
		return nil, err
	}
	series, err := r.Series(l.Kind)
	if err != nil {
		return nil, stale("set", l.Path(), "%v", err)
	}
	e := types.FindValue(*series, l.Company)
	if e == nil {
		e = &types.ValueEntry{Name: l.Company}
		*series = append(*series, e)
	}
	return &e.Value, nil
}

// YearCompany addresses the value or growth of a company in an EPS year.
// Writing creates the year group and the company entry on demand.
type YearCompany struct {
	Key     string
	Year    string
	Company string
	Field   string
}

func (l YearCompany) Path() types.Path {
	return types.EPSPath(l.Key, l.Year, l.Company, l.Field)
}

func (l YearCompany) Get(doc *types.Document) (string, error) {
	r, err := record(doc, "get", l.Path())
	if err != nil {
		return "", err
	}
	y := r.FindYear(l.Year)
	if y == nil {
		return "", nil
	}
	c := y.FindCompany(l.Company)
	if c == nil {
		return "", nil
	}
	if l.Field == types.FieldGrowth {
		return c.Growth, nil
	}
	return c.Value, nil
}

func (l YearCompany) Ensure(doc *types.Document) (*string, error) {
	r, err := record(doc, "set", l.Path())
	if err != nil {
		return nil, err
	}
	c := r.EnsureYearCompany(l.Year, l.Company)
	if l.Field == types.FieldGrowth {
		return &c.Growth, nil
	}
	return &c.Value, nil
}

func record(doc *types.Document, op string, p types.Path) (*types.Record, error) {
	r, ok := doc.Record(p.Record)
	if !ok {
		return nil, stale(op, p, "record %q not found", p.Record)
	}
	return r, nil
}
