package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathRoundTrip(t *testing.T) {
	paths := []Path{
		DatePath(),
		RecordsPath(),
		NamePath("AAPL"),
		PricePath("AAPL"),
		SeriesPath("AAPL", SeriesEPrice, "VCSC"),
		SeriesPath("AAPL", SeriesPE, "SSI"),
		EPSPath("AAPL", "2024", "FPT", FieldValue),
		EPSPath("AAPL", "2024", "FPT", FieldGrowth),
		SectorPath("AAPL", "Tech"),
		EventPath("AAPL", 3, FieldColor),
		ListPath("AAPL", SectionEvents),
		ListPath("AAPL", SectionEPS),
	}
	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			got, err := ParsePath(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestParsePathDottedKey(t *testing.T) {
	p, err := ParsePath("BRK.B.price")
	require.NoError(t, err)
	assert.Equal(t, PricePath("BRK.B"), p)

	p, err = ParsePath("VN.X.e_price.Co.Ltd")
	require.NoError(t, err)
	assert.Equal(t, SeriesPath("VN.X", SeriesEPrice, "Co.Ltd"), p)
}

func TestParsePathErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"AAPL",
		"AAPL.price.extra",
		"AAPL.eps.2024",
		"AAPL.eps.2024.VCSC.margin",
		"AAPL.record.x.date",
		"AAPL.record.0.size",
		"AAPL.sectors.Tech",
	} {
		_, err := ParsePath(s)
		assert.Error(t, err, s)
	}
}

func TestPathRegion(t *testing.T) {
	assert.Equal(t, RegionDetails, PricePath("A").Region())
	assert.Equal(t, RegionEvents, EventPath("A", 0, FieldDate).Region())
	assert.Equal(t, RegionEPS, EPSPath("A", "2024", "C", FieldValue).Region())
	assert.Equal(t, RegionDate, DatePath().Region())
}

func TestDocumentRename(t *testing.T) {
	doc := NewDocument("01/02/2026")
	doc.Records["A"] = NewRecord("A")
	doc.Records["C"] = NewRecord("C")

	require.NoError(t, doc.Rename("A", "B"))
	_, hasA := doc.Record("A")
	b, hasB := doc.Record("B")
	assert.False(t, hasA)
	require.True(t, hasB)
	assert.Equal(t, "B", b.Name)
	assert.NoError(t, doc.CheckInvariants())

	assert.Error(t, doc.Rename("missing", "X"))
	assert.Error(t, doc.Rename("B", "C"))
	assert.Equal(t, []string{"B", "C"}, doc.Keys())
	assert.NoError(t, doc.Rename("B", "B"))
}

func TestCheckInvariants(t *testing.T) {
	doc := NewDocument("")
	doc.Records["A"] = NewRecord("Z")
	assert.Error(t, doc.CheckInvariants())
}

func TestNilDocumentRecord(t *testing.T) {
	var doc *Document
	_, ok := doc.Record("A")
	assert.False(t, ok)
}

func TestYearOrdering(t *testing.T) {
	assert.True(t, YearLess("2023", "2024"))
	assert.True(t, YearLess("999", "2024"))
	assert.True(t, YearLess("2024", "TTM"))
	assert.False(t, YearLess("TTM", "2024"))

	years := []*YearGroup{{Name: "2022"}, {Name: "2024"}, {Name: "TTM"}}
	assert.Equal(t, 0, YearInsertIndex(years, "2021"))
	assert.Equal(t, 1, YearInsertIndex(years, "2023"))
	assert.Equal(t, 2, YearInsertIndex(years, "2025"))
	assert.Equal(t, 3, YearInsertIndex(years, "Z"))
}

func TestEnsureYearCompany(t *testing.T) {
	r := NewRecord("A")
	c := r.EnsureYearCompany("2024", "VCSC")
	c.Value = "5"
	require.Len(t, r.EPS, 1)
	assert.Same(t, c, r.EnsureYearCompany("2024", "VCSC"))
	r.EnsureYearCompany("2024", "SSI")
	assert.Len(t, r.FindYear("2024").Companies, 2)
}

func TestRecordSeries(t *testing.T) {
	r := NewRecord("A")
	s, err := r.Series(SeriesPE)
	require.NoError(t, err)
	*s = append(*s, &ValueEntry{Name: "VCSC", Value: "12"})
	assert.Equal(t, "12", FindValue(r.PE, "VCSC").Value)

	_, err = r.Series("eps")
	assert.Error(t, err)
}

func TestClone(t *testing.T) {
	doc := NewDocument("01/02/2026")
	r := NewRecord("A")
	r.Price = "10"
	r.EnsureYearCompany("2024", "VCSC").Value = "1"
	r.Events = []*ReportEvent{{Company: "SSI", Date: "01/01/2026", Color: DefaultEventColor}}
	r.Sectors = []*SectorTag{{Name: "Bank", Type: SectorMain}}
	doc.Records["A"] = r

	cp := doc.Clone()
	require.Equal(t, doc, cp)
	cp.Records["A"].EPS[0].Companies[0].Value = "2"
	cp.Records["A"].Events[0].Color = "red"
	assert.Equal(t, "1", r.EPS[0].Companies[0].Value)
	assert.Equal(t, DefaultEventColor, r.Events[0].Color)
}

func TestDefaultWorkingDate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, time.October, d, 9, 0, 0, 0, time.UTC) }
	assert.Equal(t, "10/15/2026", DefaultWorkingDate(day(15))) // Thursday
	assert.Equal(t, "10/16/2026", DefaultWorkingDate(day(17))) // Saturday
	assert.Equal(t, "10/16/2026", DefaultWorkingDate(day(18))) // Sunday
	assert.Equal(t, "10/19/2026", DefaultWorkingDate(day(19)))
}

func TestEventsRecentFirst(t *testing.T) {
	a := &ReportEvent{Company: "A", Date: "01/05/2026"}
	b := &ReportEvent{Company: "B", Date: "bad"}
	c := &ReportEvent{Company: "C", Date: "03/01/2026"}
	d := &ReportEvent{Company: "D", Date: "01/05/2026"}
	in := []*ReportEvent{a, b, c, d}

	got := EventsRecentFirst(in)
	assert.Equal(t, []*ReportEvent{c, a, d, b}, got)
	assert.Equal(t, []*ReportEvent{a, b, c, d}, in)
}

func TestSectorTypeValid(t *testing.T) {
	assert.True(t, SectorMain.Valid())
	assert.True(t, SectorSub.Valid())
	assert.False(t, SectorType("other").Valid())
}
