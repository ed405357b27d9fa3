package types

import (
	"fmt"
	"sort"
	"strconv"
)

// Document is the full editable state: the global report date plus the named records.
// The date lives outside Records so no record name can collide with it.
type Document struct {
	GlobalDate string
	Records    map[string]*Record
}

// Record is one quote with its nested series, events and sector tags.
// Name always equals the record's key in Document.Records.
type Record struct {
	Name    string
	Price   string
	EPrice  []*ValueEntry
	EPS     []*YearGroup
	PE      []*ValueEntry
	Events  []*ReportEvent
	Sectors []*SectorTag
}

// ValueEntry is a company-or-series label with a free-text value.
type ValueEntry struct {
	Name  string
	Value string
}

// YearGroup holds the per-company EPS entries of one fiscal year.
type YearGroup struct {
	Name      string
	Companies []*CompanyYearEntry
}

// CompanyYearEntry is one company's EPS value and growth for a year.
type CompanyYearEntry struct {
	Name   string
	Value  string
	Growth string
}

// ReportEvent is a dated report marker for a company.
type ReportEvent struct {
	Company string
	Date    string
	Color   string
}

// SectorType is either main or sub.
type SectorType string

const (
	SectorMain SectorType = "main"
	SectorSub  SectorType = "sub"
)

// Valid reports whether t is one of the known sector types.
func (t SectorType) Valid() bool { return t == SectorMain || t == SectorSub }

// SectorTag tags a record with a sector.
type SectorTag struct {
	Name string
	Type SectorType
}

// DefaultEventColor is the color of events that have none set.
const DefaultEventColor = "default"

// NewDocument returns an empty document dated date.
func NewDocument(date string) *Document {
	return &Document{GlobalDate: date, Records: map[string]*Record{}}
}

// NewRecord returns a record with empty series.
func NewRecord(name string) *Record {
	return &Record{Name: name}
}

// Record returns the record stored under key.
func (d *Document) Record(key string) (*Record, bool) {
	if d == nil || d.Records == nil {
		return nil, false
	}
	r, ok := d.Records[key]
	return r, ok
}

// Keys returns the record keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.Records))
	for k := range d.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rename moves the record under oldKey to newKey and updates its Name.
// It fails without mutating anything if oldKey is absent or newKey is taken.
func (d *Document) Rename(oldKey, newKey string) error {
	r, ok := d.Record(oldKey)
	if !ok {
		return fmt.Errorf("record %q not found", oldKey)
	}
	if oldKey == newKey {
		return nil
	}
	if _, taken := d.Records[newKey]; taken {
		return fmt.Errorf("record %q already exists", newKey)
	}
	delete(d.Records, oldKey)
	r.Name = newKey
	d.Records[newKey] = r
	return nil
}

// CheckInvariants verifies that every record is stored under its own name.
func (d *Document) CheckInvariants() error {
	for k, r := range d.Records {
		if r == nil {
			return fmt.Errorf("record %q is nil", k)
		}
		if r.Name != k {
			return fmt.Errorf("record key %q holds name %q", k, r.Name)
		}
	}
	return nil
}

// SeriesKind selects one of a record's flat value series.
type SeriesKind string

const (
	SeriesEPrice SeriesKind = "e_price"
	SeriesPE     SeriesKind = "pe"
)

// Series returns a pointer to the series slice so callers can grow it.
func (r *Record) Series(kind SeriesKind) (*[]*ValueEntry, error) {
	switch kind {
	case SeriesEPrice:
		return &r.EPrice, nil
	case SeriesPE:
		return &r.PE, nil
	default:
		return nil, fmt.Errorf("unknown series %q", kind)
	}
}

// FindValue returns the entry named name, or nil.
func FindValue(entries []*ValueEntry, name string) *ValueEntry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindYear returns the year group named year, or nil.
func (r *Record) FindYear(year string) *YearGroup {
	for _, y := range r.EPS {
		if y.Name == year {
			return y
		}
	}
	return nil
}

// FindCompany returns the company entry named name, or nil.
func (y *YearGroup) FindCompany(name string) *CompanyYearEntry {
	for _, c := range y.Companies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindSector returns the sector tag named name, or nil.
func (r *Record) FindSector(name string) *SectorTag {
	for _, s := range r.Sectors {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// EnsureYearCompany returns the (year, company) entry, creating the year group
// and the company entry when they do not exist yet.
func (r *Record) EnsureYearCompany(year, company string) *CompanyYearEntry {
	y := r.FindYear(year)
	if y == nil {
		y = &YearGroup{Name: year}
		r.EPS = append(r.EPS, y)
	}
	c := y.FindCompany(company)
	if c == nil {
		c = &CompanyYearEntry{Name: company}
		y.Companies = append(y.Companies, c)
	}
	return c
}

// YearLess orders year names numerically first, then lexically.
func YearLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

// YearInsertIndex returns where year belongs in the ordered list years.
func YearInsertIndex(years []*YearGroup, year string) int {
	return sort.Search(len(years), func(i int) bool { return !YearLess(years[i].Name, year) })
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := NewDocument(d.GlobalDate)
	for k, r := range d.Records {
		out.Records[k] = r.Clone()
	}
	return out
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{Name: r.Name, Price: r.Price}
	for _, e := range r.EPrice {
		v := *e
		out.EPrice = append(out.EPrice, &v)
	}
	for _, e := range r.PE {
		v := *e
		out.PE = append(out.PE, &v)
	}
	for _, y := range r.EPS {
		ny := &YearGroup{Name: y.Name}
		for _, c := range y.Companies {
			v := *c
			ny.Companies = append(ny.Companies, &v)
		}
		out.EPS = append(out.EPS, ny)
	}
	for _, ev := range r.Events {
		v := *ev
		out.Events = append(out.Events, &v)
	}
	for _, s := range r.Sectors {
		v := *s
		out.Sectors = append(out.Sectors, &v)
	}
	return out
}
