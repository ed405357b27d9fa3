package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Section names a region of a record (or the document) a Path points into.
type Section string

const (
	SectionDate    Section = "date"
	SectionRecords Section = "records"
	SectionDetails Section = "details"
	SectionEPrice  Section = "e_price"
	SectionPE      Section = "pe"
	SectionEPS     Section = "eps"
	SectionEvents  Section = "record"
	SectionSectors Section = "sectors"
)

// Field names used inside Path.Field.
const (
	FieldName    = "name"
	FieldPrice   = "price"
	FieldValue   = "value"
	FieldGrowth  = "growth"
	FieldType    = "type"
	FieldCompany = "company"
	FieldDate    = "date"
	FieldColor   = "color"
)

// Path addresses a scalar leaf or a list in the document.
//
// Textual forms:
//
//	date
//	records
//	K.name | K.price
//	K.e_price[.C] | K.pe[.C]
//	K.eps[.Y.C.value|growth]
//	K.sectors[.S.type]
//	K.record[.N.company|date|color]
type Path struct {
	Record  string
	Section Section
	Year    string
	Item    string
	Field   string
	Index   int
}

func DatePath() Path    { return Path{Section: SectionDate} }
func RecordsPath() Path { return Path{Section: SectionRecords} }

func NamePath(key string) Path {
	return Path{Record: key, Section: SectionDetails, Field: FieldName}
}

func PricePath(key string) Path {
	return Path{Record: key, Section: SectionDetails, Field: FieldPrice}
}

func SeriesPath(key string, kind SeriesKind, company string) Path {
	return Path{Record: key, Section: Section(kind), Item: company, Field: FieldValue}
}

func EPSPath(key, year, company, field string) Path {
	return Path{Record: key, Section: SectionEPS, Year: year, Item: company, Field: field}
}

func SectorPath(key, sector string) Path {
	return Path{Record: key, Section: SectionSectors, Item: sector, Field: FieldType}
}

func EventPath(key string, index int, field string) Path {
	return Path{Record: key, Section: SectionEvents, Index: index, Field: field}
}

// ListPath addresses a whole list section of a record.
func ListPath(key string, s Section) Path { return Path{Record: key, Section: s} }

// IsList reports whether p addresses a list rather than a leaf.
func (p Path) IsList() bool { return p.Field == "" }

// WithRecord returns a copy of p rooted at key.
func (p Path) WithRecord(key string) Path {
	p.Record = key
	return p
}

func (p Path) String() string {
	switch p.Section {
	case SectionDate, SectionRecords:
		return string(p.Section)
	case SectionDetails:
		return p.Record + "." + p.Field
	}
	parts := []string{p.Record, string(p.Section)}
	if p.IsList() {
		return strings.Join(parts, ".")
	}
	switch p.Section {
	case SectionEPrice, SectionPE:
		parts = append(parts, p.Item)
	case SectionEPS:
		parts = append(parts, p.Year, p.Item, p.Field)
	case SectionSectors:
		parts = append(parts, p.Item, p.Field)
	case SectionEvents:
		parts = append(parts, strconv.Itoa(p.Index), p.Field)
	}
	return strings.Join(parts, ".")
}

// ParsePath parses the textual form produced by Path.String.
// Record keys and item names may themselves contain dots.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return Path{}, fmt.Errorf("empty path")
	case string(SectionDate):
		return DatePath(), nil
	case string(SectionRecords):
		return RecordsPath(), nil
	}
	parts := strings.Split(s, ".")
	at := -1
	for i := 1; i < len(parts); i++ {
		if isSectionToken(parts[i]) {
			at = i
			break
		}
	}
	if at < 0 {
		return Path{}, fmt.Errorf("path %q: no section", s)
	}
	key := strings.Join(parts[:at], ".")
	tok, rest := parts[at], parts[at+1:]
	switch tok {
	case FieldName, FieldPrice:
		if len(rest) != 0 {
			return Path{}, fmt.Errorf("path %q: trailing elements after %s", s, tok)
		}
		return Path{Record: key, Section: SectionDetails, Field: tok}, nil
	case string(SectionEPrice), string(SectionPE):
		if len(rest) == 0 {
			return ListPath(key, Section(tok)), nil
		}
		return SeriesPath(key, SeriesKind(tok), strings.Join(rest, ".")), nil
	case string(SectionEPS):
		if len(rest) == 0 {
			return ListPath(key, SectionEPS), nil
		}
		if len(rest) < 3 {
			return Path{}, fmt.Errorf("path %q: want %s.eps.YEAR.COMPANY.FIELD", s, key)
		}
		f := rest[len(rest)-1]
		if f != FieldValue && f != FieldGrowth {
			return Path{}, fmt.Errorf("path %q: eps field must be value or growth", s)
		}
		return EPSPath(key, rest[0], strings.Join(rest[1:len(rest)-1], "."), f), nil
	case string(SectionSectors):
		if len(rest) == 0 {
			return ListPath(key, SectionSectors), nil
		}
		if len(rest) < 2 || rest[len(rest)-1] != FieldType {
			return Path{}, fmt.Errorf("path %q: want %s.sectors.SECTOR.type", s, key)
		}
		return SectorPath(key, strings.Join(rest[:len(rest)-1], ".")), nil
	case string(SectionEvents):
		if len(rest) == 0 {
			return ListPath(key, SectionEvents), nil
		}
		if len(rest) != 2 {
			return Path{}, fmt.Errorf("path %q: want %s.record.INDEX.FIELD", s, key)
		}
		idx, err := strconv.Atoi(rest[0])
		if err != nil || idx < 0 {
			return Path{}, fmt.Errorf("path %q: bad event index %q", s, rest[0])
		}
		switch rest[1] {
		case FieldCompany, FieldDate, FieldColor:
		default:
			return Path{}, fmt.Errorf("path %q: event field must be company, date or color", s)
		}
		return EventPath(key, idx, rest[1]), nil
	}
	return Path{}, fmt.Errorf("path %q: unsupported", s)
}

func isSectionToken(s string) bool {
	switch s {
	case FieldName, FieldPrice,
		string(SectionEPrice), string(SectionPE), string(SectionEPS),
		string(SectionSectors), string(SectionEvents):
		return true
	}
	return false
}

// SelectionID names a view-only selection set.
type SelectionID string

const (
	SelectionYears   SelectionID = "eps.years"
	SelectionSectors SelectionID = "sectors"
)

// CompaniesSelection is the selection of companies shown for one EPS year.
func CompaniesSelection(year string) SelectionID {
	return SelectionID("eps." + year + ".companies")
}

// RegionID names a view region that can be refreshed as a whole.
type RegionID string

const (
	RegionDate    RegionID = "date"
	RegionRecords RegionID = "records"
	RegionDetails RegionID = "details"
	RegionEPrice  RegionID = "e_price"
	RegionPE      RegionID = "pe"
	RegionEPS     RegionID = "eps"
	RegionEvents  RegionID = "record"
	RegionSectors RegionID = "sectors"
	RegionChart   RegionID = "chart"
)

// Region returns the view region that displays p.
func (p Path) Region() RegionID {
	switch p.Section {
	case SectionDetails:
		return RegionDetails
	case "":
		return ""
	}
	return RegionID(p.Section)
}
