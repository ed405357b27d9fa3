package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/qre/pkg/qre/types"
)

type edit struct {
	path     types.Path
	old, new string
}

func testDoc() *types.Document {
	doc := types.NewDocument("10/15/2026")
	r := types.NewRecord("AAPL")
	r.Price = "170"
	r.EPrice = []*types.ValueEntry{{Name: "VCSC", Value: "200"}}
	r.EPS = []*types.YearGroup{
		{Name: "2023", Companies: []*types.CompanyYearEntry{{Name: "VCSC", Value: "5"}}},
		{Name: "2024", Companies: []*types.CompanyYearEntry{{Name: "VCSC", Value: "6"}, {Name: "SSI", Value: "7"}}},
		{Name: "2025", Companies: []*types.CompanyYearEntry{{Name: "VCSC"}}},
	}
	r.Sectors = []*types.SectorTag{{Name: "Tech", Type: types.SectorMain}, {Name: "Retail", Type: types.SectorSub}}
	doc.Records["AAPL"] = r
	doc.Records["MSFT"] = types.NewRecord("MSFT")
	return doc
}

func newTestPanel(doc *types.Document, key string) (*Panel, *[]edit) {
	var edits []edit
	p := NewPanel(0)
	p.OnEdit = func(path types.Path, old, new string) { edits = append(edits, edit{path, old, new}) }
	p.Load(doc, key)
	return p, &edits
}

func TestPanelLoadMirrorsRecord(t *testing.T) {
	p, edits := newTestPanel(testDoc(), "AAPL")
	assert.Equal(t, "AAPL", p.Record())
	v, ok := p.Value(types.PricePath(""))
	require.True(t, ok)
	assert.Equal(t, "170", v)
	v, _ = p.Value(types.SeriesPath("AAPL", types.SeriesEPrice, "VCSC"))
	assert.Equal(t, "200", v)
	v, _ = p.Value(types.DatePath())
	assert.Equal(t, "10/15/2026", v)
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.Records())
	assert.Empty(t, *edits)
}

func TestPanelSuppressedWriteDoesNotEcho(t *testing.T) {
	p, edits := newTestPanel(testDoc(), "AAPL")
	p.SetFieldValue(types.PricePath("AAPL"), "175", true)
	assert.Empty(t, *edits)
	v, _ := p.Value(types.PricePath("AAPL"))
	assert.Equal(t, "175", v)
}

func TestPanelUserWriteEchoesOnce(t *testing.T) {
	p, edits := newTestPanel(testDoc(), "AAPL")
	p.SetFieldValue(types.PricePath(""), "175", false)
	require.Len(t, *edits, 1)
	assert.Equal(t, edit{types.PricePath("AAPL"), "170", "175"}, (*edits)[0])

	// unchanged value is not an edit
	p.SetFieldValue(types.PricePath(""), "175", false)
	assert.Len(t, *edits, 1)
}

func TestPanelIgnoresOtherRecords(t *testing.T) {
	p, edits := newTestPanel(testDoc(), "AAPL")
	p.SetFieldValue(types.PricePath("MSFT"), "1", false)
	assert.Empty(t, *edits)
	v, _ := p.Value(types.PricePath(""))
	assert.Equal(t, "170", v)
}

func TestPanelSuppressedRenameFollowsRecord(t *testing.T) {
	p, _ := newTestPanel(testDoc(), "AAPL")
	p.SetFieldValue(types.NamePath("AAPL"), "APPLE", true)
	assert.Equal(t, "APPLE", p.Record())
}

func TestPanelEventsCapped(t *testing.T) {
	doc := testDoc()
	r := doc.Records["AAPL"]
	for i := 1; i <= 9; i++ {
		r.Events = append(r.Events, &types.ReportEvent{Company: "VCSC", Date: fmt.Sprintf("01/%02d/2026", i), Color: "default"})
	}
	p, _ := newTestPanel(doc, "AAPL")

	shown := p.Events()
	require.Len(t, shown, DefaultMaxEvents)
	assert.Equal(t, "01/09/2026", shown[0].Date)
	assert.Len(t, p.AllEvents(), 9)
	assert.Len(t, r.Events, 9)
	v, ok := p.Value(types.EventPath("", 8, types.FieldDate))
	require.True(t, ok)
	assert.Equal(t, "01/09/2026", v)
}

func TestPanelVisibleYears(t *testing.T) {
	p, _ := newTestPanel(testDoc(), "AAPL")
	assert.Equal(t, []string{"2023", "2024"}, p.VisibleYears())

	p.SetSelection(types.SelectionYears, []string{"2025", "gone"})
	assert.Equal(t, []string{"2025", "2023"}, p.VisibleYears())
}

func TestPanelVisibleCompaniesAndSectors(t *testing.T) {
	p, _ := newTestPanel(testDoc(), "AAPL")
	assert.Equal(t, []string{"VCSC", "SSI"}, p.VisibleCompanies("2024"))
	p.SetSelection(types.CompaniesSelection("2024"), []string{"SSI", "MBS"})
	assert.Equal(t, []string{"SSI"}, p.VisibleCompanies("2024"))
	assert.Nil(t, p.VisibleCompanies("1999"))

	assert.Equal(t, []string{"Tech", "Retail"}, p.VisibleSectors())
	p.SetSelection(types.SelectionSectors, []string{"Retail"})
	assert.Equal(t, []string{"Retail"}, p.VisibleSectors())
}

func TestPanelRefreshRegion(t *testing.T) {
	doc := testDoc()
	p, _ := newTestPanel(doc, "AAPL")
	doc.Records["AAPL"].Price = "180"
	p.RefreshRegion(types.RegionDetails)
	v, _ := p.Value(types.PricePath(""))
	assert.Equal(t, "180", v)
	assert.Equal(t, 1, p.Refreshes(types.RegionDetails))

	delete(doc.Records, "AAPL")
	p.RefreshRegion(types.RegionRecords)
	assert.Equal(t, "", p.Record())
	assert.Equal(t, []string{"MSFT"}, p.Records())
}

func TestPanelRefreshSectorList(t *testing.T) {
	doc := testDoc()
	p, edits := newTestPanel(doc, "AAPL")
	energy := &types.SectorTag{Name: "Energy", Type: types.SectorSub}
	p.RefreshList(types.ListPath("AAPL", types.SectionSectors), []*types.SectorTag{doc.Records["AAPL"].Sectors[0], energy})

	v, ok := p.Value(types.SectorPath("", "Energy"))
	assert.True(t, ok)
	assert.Equal(t, "sub", v)
	_, ok = p.Value(types.SectorPath("", "Retail"))
	assert.False(t, ok)
	assert.Empty(t, *edits)
}

func TestPanelForget(t *testing.T) {
	doc := testDoc()
	p, edits := newTestPanel(doc, "AAPL")
	p.Forget(types.PricePath("MSFT"))
	_, ok := p.Value(types.PricePath(""))
	assert.True(t, ok, "other records are not touched")

	p.Forget(types.PricePath("AAPL"))
	_, ok = p.Value(types.PricePath(""))
	assert.False(t, ok)
	assert.Empty(t, *edits)
}

func TestGroupFansOut(t *testing.T) {
	doc := testDoc()
	a, _ := newTestPanel(doc, "AAPL")
	b, _ := newTestPanel(doc, "AAPL")
	g := Group{a, b, Nop{}}

	g.SetFieldValue(types.PricePath("AAPL"), "1", true)
	g.SetSelection(types.SelectionSectors, []string{"Tech"})
	g.RefreshRegion(types.RegionSectors)
	for _, p := range []*Panel{a, b} {
		v, _ := p.Value(types.PricePath(""))
		assert.Equal(t, "1", v)
		assert.Equal(t, []string{"Tech"}, p.VisibleSectors())
		assert.Equal(t, 1, p.Refreshes(types.RegionSectors))
	}
}
