package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/qre/pkg/qre/types"
)

type write struct {
	path     types.Path
	value    string
	suppress bool
}

// recorder is an Adapter that remembers every call.
type recorder struct {
	writes     []write
	lists      map[types.Path]any
	selections map[types.SelectionID][]string
}

func newRecorder() *recorder {
	return &recorder{lists: map[types.Path]any{}, selections: map[types.SelectionID][]string{}}
}

func (r *recorder) SetFieldValue(p types.Path, v string, suppress bool) {
	r.writes = append(r.writes, write{p, v, suppress})
}
func (r *recorder) RefreshList(p types.Path, items any) { r.lists[p] = items }
func (r *recorder) SetSelection(id types.SelectionID, items []string) {
	r.selections[id] = items
}

func fixture() (*types.Document, *recorder, *[]error, Env) {
	doc := types.NewDocument("10/15/2026")
	r := types.NewRecord("AAPL")
	r.Price = "170"
	r.Events = []*types.ReportEvent{
		{Company: "VCSC", Date: "01/01/2026", Color: "default"},
		{Company: "SSI", Date: "02/01/2026", Color: "red"},
	}
	r.Sectors = []*types.SectorTag{{Name: "Tech", Type: types.SectorMain}}
	doc.Records["AAPL"] = r
	rec := newRecorder()
	var reported []error
	env := Env{Doc: doc, View: rec, Report: func(err error) { reported = append(reported, err) }}
	return doc, rec, &reported, env
}

func TestFieldEditSymmetry(t *testing.T) {
	doc, rec, reported, env := fixture()
	before := doc.Clone()

	c := NewFieldEdit(env, Price{Key: "AAPL"}, "170", "175")
	c.Execute()
	assert.Equal(t, "175", doc.Records["AAPL"].Price)
	after := doc.Clone()

	c.Unexecute()
	assert.Equal(t, before, doc)

	c.Execute()
	c.Execute()
	assert.Equal(t, after, doc)
	assert.Empty(t, *reported)

	for _, w := range rec.writes {
		assert.True(t, w.suppress, "command writes must suppress echo")
		assert.Equal(t, types.PricePath("AAPL"), w.path)
	}
	assert.Equal(t, "Change AAPL's price from '170' to '175'", c.Describe())
	assert.Equal(t, []types.RegionID{types.RegionDetails}, c.AffectedViewRegions())
}

func TestFieldEditGlobalDate(t *testing.T) {
	doc, _, _, env := fixture()
	c := NewFieldEdit(env, GlobalDate{}, "10/15/2026", "10/16/2026")
	c.Execute()
	assert.Equal(t, "10/16/2026", doc.GlobalDate)
	assert.Equal(t, "Change Global Date from 10/15/2026 to 10/16/2026", c.Describe())
	c.Unexecute()
	assert.Equal(t, "10/15/2026", doc.GlobalDate)
}

func TestFieldEditStaleRecord(t *testing.T) {
	doc, rec, reported, env := fixture()
	c := NewFieldEdit(env, Price{Key: "AAPL"}, "170", "175")
	delete(doc.Records, "AAPL")

	assert.NotPanics(t, c.Execute)
	require.Len(t, *reported, 1)
	assert.True(t, errors.Is((*reported)[0], ErrStaleReference))
	var se *StaleRefError
	require.True(t, errors.As((*reported)[0], &se))
	assert.Equal(t, "set", se.Op)
	assert.Empty(t, rec.writes)
}

func TestEventFieldFollowsIdentity(t *testing.T) {
	doc, rec, _, env := fixture()
	ev := doc.Records["AAPL"].Events[1]
	c := NewFieldEdit(env, EventField{Key: "AAPL", Event: ev, Name: types.FieldColor, Index: 1}, "red", "blue")

	// reorder so the event moves to index 0
	r := doc.Records["AAPL"]
	r.Events[0], r.Events[1] = r.Events[1], r.Events[0]

	c.Execute()
	assert.Equal(t, "blue", ev.Color)
	last := rec.writes[len(rec.writes)-1]
	assert.Equal(t, types.EventPath("AAPL", 0, types.FieldColor), last.path)

	r.Events = r.Events[1:]
	_, err := EventField{Key: "AAPL", Event: ev, Name: types.FieldColor}.Get(doc)
	assert.ErrorIs(t, err, ErrStaleReference)
}

func TestSectorTypeField(t *testing.T) {
	doc, _, reported, env := fixture()
	c := NewFieldEdit(env, SectorType{Key: "AAPL", Sector: "Tech"}, "main", "sub")
	c.Execute()
	assert.Equal(t, types.SectorSub, doc.Records["AAPL"].Sectors[0].Type)
	c.Unexecute()
	assert.Equal(t, types.SectorMain, doc.Records["AAPL"].Sectors[0].Type)

	NewFieldEdit(env, SectorType{Key: "AAPL", Sector: "Gone"}, "main", "sub").Execute()
	require.Len(t, *reported, 1)
	assert.ErrorIs(t, (*reported)[0], ErrStaleReference)
}

func TestKeyedRenameAtomicity(t *testing.T) {
	doc, rec, reported, env := fixture()
	var tracked [][2]string
	c := NewKeyedRename(env, "AAPL", "APPLE", func(from, to string) { tracked = append(tracked, [2]string{from, to}) })

	c.Execute()
	_, hasOld := doc.Record("AAPL")
	r, hasNew := doc.Record("APPLE")
	assert.False(t, hasOld)
	require.True(t, hasNew)
	assert.Equal(t, "APPLE", r.Name)
	assert.Equal(t, []string{"APPLE"}, rec.lists[types.RecordsPath()])

	// redo of an applied rename is a no-op
	c.Execute()
	assert.Equal(t, []string{"APPLE"}, doc.Keys())

	c.Unexecute()
	r, hasOld = doc.Record("AAPL")
	require.True(t, hasOld)
	assert.Equal(t, "AAPL", r.Name)
	assert.Equal(t, []string{"AAPL"}, doc.Keys())
	assert.Empty(t, *reported)
	assert.Equal(t, [][2]string{{"AAPL", "APPLE"}, {"AAPL", "APPLE"}, {"APPLE", "AAPL"}}, tracked)
	assert.Equal(t, "Change AAPL's name from 'AAPL' to 'APPLE'", c.Describe())
}

func TestKeyedRenameStaleKey(t *testing.T) {
	doc, _, reported, env := fixture()
	c := NewKeyedRename(env, "AAPL", "APPLE", nil)
	delete(doc.Records, "AAPL")

	assert.NotPanics(t, c.Execute)
	require.Len(t, *reported, 1)
	assert.ErrorIs(t, (*reported)[0], ErrStaleReference)
	assert.Empty(t, doc.Keys())
}

func TestKeyedRenameTargetTaken(t *testing.T) {
	doc, _, reported, env := fixture()
	doc.Records["MSFT"] = types.NewRecord("MSFT")
	c := NewKeyedRename(env, "AAPL", "MSFT", nil)
	c.Execute()
	require.Len(t, *reported, 1)
	assert.Equal(t, "AAPL", doc.Records["AAPL"].Name)
	assert.Equal(t, "MSFT", doc.Records["MSFT"].Name)
}

func TestListRemoveReinsertsAtCapturedIndex(t *testing.T) {
	doc, rec, _, env := fixture()
	r := doc.Records["AAPL"]
	first, second := r.Events[0], r.Events[1]

	c := NewListRemove[*types.ReportEvent](env, Events{Key: "AAPL"}, first, 0, EventLabel(first))
	c.Execute()
	assert.Equal(t, []*types.ReportEvent{second}, r.Events)

	c.Unexecute()
	assert.Equal(t, []*types.ReportEvent{first, second}, r.Events)
	assert.Equal(t, r.Events, rec.lists[types.ListPath("AAPL", types.SectionEvents)])
	assert.Equal(t, "Remove Record Report (VCSC on 01/01/2026) from 'AAPL'", c.Describe())
	assert.Equal(t, []types.RegionID{types.RegionEvents}, c.AffectedViewRegions())
}

func TestListRemoveUndoClampsIndex(t *testing.T) {
	doc, _, _, env := fixture()
	r := doc.Records["AAPL"]
	second := r.Events[1]
	c := NewListRemove[*types.ReportEvent](env, Events{Key: "AAPL"}, second, 1, EventLabel(second))
	c.Execute()
	r.Events = nil
	c.Unexecute()
	assert.Equal(t, []*types.ReportEvent{second}, r.Events)
}

func TestListAddRemovesByIdentity(t *testing.T) {
	doc, _, _, env := fixture()
	r := doc.Records["AAPL"]
	dup := &types.ReportEvent{Company: "VCSC", Date: "01/01/2026", Color: "default"}

	c := NewListAdd[*types.ReportEvent](env, Events{Key: "AAPL"}, dup, 0, EventLabel(dup))
	c.Execute()
	require.Len(t, r.Events, 3)
	assert.Same(t, dup, r.Events[0])

	c.Execute()
	assert.Len(t, r.Events, 3)

	c.Unexecute()
	require.Len(t, r.Events, 2)
	assert.NotSame(t, dup, r.Events[0])
	assert.Equal(t, "Add Record Report (VCSC on 01/01/2026) to 'AAPL'", c.Describe())
}

func TestListAddYearsAtIndex(t *testing.T) {
	doc, _, _, env := fixture()
	r := doc.Records["AAPL"]
	r.EPS = []*types.YearGroup{{Name: "2022"}, {Name: "2024"}}
	y := &types.YearGroup{Name: "2023"}

	c := NewListAdd[*types.YearGroup](env, Years{Key: "AAPL"}, y, types.YearInsertIndex(r.EPS, "2023"), YearLabel(y))
	c.Execute()
	assert.Equal(t, "2023", r.EPS[1].Name)
	assert.Equal(t, []types.RegionID{types.RegionEPS, types.RegionChart}, c.AffectedViewRegions())

	far := &types.YearGroup{Name: "2030"}
	NewListAdd[*types.YearGroup](env, Years{Key: "AAPL"}, far, 99, YearLabel(far)).Execute()
	assert.Same(t, far, r.EPS[len(r.EPS)-1])
}

func TestListAddSector(t *testing.T) {
	doc, rec, _, env := fixture()
	r := doc.Records["AAPL"]
	tag := &types.SectorTag{Name: "Energy", Type: types.SectorMain}

	c := NewListAdd[*types.SectorTag](env, Sectors{Key: "AAPL"}, tag, Append, SectorLabel(tag))
	c.Execute()
	require.Len(t, r.Sectors, 2)
	assert.Same(t, tag, r.Sectors[1])
	assert.Equal(t, r.Sectors, rec.lists[types.ListPath("AAPL", types.SectionSectors)])
	assert.Equal(t, []types.RegionID{types.RegionSectors}, c.AffectedViewRegions())
	assert.Equal(t, "Add Sector 'Energy' (main) to 'AAPL'", c.Describe())

	c.Unexecute()
	require.Len(t, r.Sectors, 1)
	assert.Equal(t, "Tech", r.Sectors[0].Name)
}

func TestListStaleRecord(t *testing.T) {
	doc, _, reported, env := fixture()
	ev := doc.Records["AAPL"].Events[0]
	c := NewListRemove[*types.ReportEvent](env, Events{Key: "AAPL"}, ev, 0, EventLabel(ev))
	delete(doc.Records, "AAPL")
	c.Execute()
	c.Unexecute()
	require.Len(t, *reported, 2)
	assert.ErrorIs(t, (*reported)[1], ErrStaleReference)
}

func TestCreateOrUpdateKeepsContainers(t *testing.T) {
	doc, rec, _, env := fixture()
	r := doc.Records["AAPL"]
	l := YearCompany{Key: "AAPL", Year: "2024", Company: "VCSC", Field: types.FieldGrowth}
	old, err := l.Get(doc)
	require.NoError(t, err)
	assert.Equal(t, "", old)

	c := NewCreateOrUpdate(env, l, old, "12%")
	c.Execute()
	require.NotNil(t, r.FindYear("2024"))
	assert.Equal(t, "12%", r.FindYear("2024").FindCompany("VCSC").Growth)

	c.Unexecute()
	require.NotNil(t, r.FindYear("2024"), "container survives undo")
	assert.Equal(t, "", r.FindYear("2024").FindCompany("VCSC").Growth)

	c.Execute()
	assert.Equal(t, "12%", r.FindYear("2024").FindCompany("VCSC").Growth)
	assert.Len(t, r.EPS, 1)
	assert.Equal(t, []types.RegionID{types.RegionEPS, types.RegionChart}, c.AffectedViewRegions())
	assert.Equal(t, "Change AAPL's EPS 2024 for VCSC growth from '' to '12%'", c.Describe())
	assert.True(t, rec.writes[len(rec.writes)-1].suppress)
}

func TestCreateOrUpdateSeries(t *testing.T) {
	doc, _, _, env := fixture()
	r := doc.Records["AAPL"]
	c := NewCreateOrUpdate(env, SeriesValue{Key: "AAPL", Kind: types.SeriesPE, Company: "SSI"}, "", "14")
	c.Execute()
	require.Len(t, r.PE, 1)
	assert.Equal(t, "14", r.PE[0].Value)
	c.Unexecute()
	require.Len(t, r.PE, 1)
	assert.Equal(t, "", r.PE[0].Value)
	assert.Equal(t, "Change AAPL's PE for SSI from '' to '14'", c.Describe())
}

func TestAddRemoveRecord(t *testing.T) {
	doc, rec, reported, env := fixture()
	msft := types.NewRecord("MSFT")
	add := NewAddRecord(env, msft)
	add.Execute()
	assert.Same(t, msft, doc.Records["MSFT"])
	assert.Equal(t, []string{"AAPL", "MSFT"}, rec.lists[types.RecordsPath()])
	add.Unexecute()
	_, ok := doc.Record("MSFT")
	assert.False(t, ok)

	aapl := doc.Records["AAPL"]
	rm := NewRemoveRecord(env, "AAPL", aapl)
	rm.Execute()
	assert.Empty(t, doc.Keys())
	rm.Unexecute()
	assert.Same(t, aapl, doc.Records["AAPL"])
	assert.Equal(t, "Remove quote 'AAPL'", rm.Describe())

	// a different record now holds the key
	rm.Execute()
	doc.Records["AAPL"] = types.NewRecord("AAPL")
	rm.Unexecute()
	require.Len(t, *reported, 1)
	assert.ErrorIs(t, (*reported)[0], ErrStaleReference)
	assert.NotSame(t, aapl, doc.Records["AAPL"])
}

func TestSelectionIsViewOnly(t *testing.T) {
	doc, rec, _, env := fixture()
	before := doc.Clone()
	c := NewSelection(env, types.SelectionYears, []string{"2023"}, []string{"2024", "2025"})
	c.Execute()
	assert.Equal(t, []string{"2024", "2025"}, rec.selections[types.SelectionYears])
	c.Unexecute()
	assert.Equal(t, []string{"2023"}, rec.selections[types.SelectionYears])
	assert.Equal(t, before, doc)
	assert.Equal(t, "Change displayed EPS years from [2023] to [2024, 2025]", c.Describe())

	cs := NewSelection(env, types.CompaniesSelection("2024"), nil, []string{"SSI"})
	assert.Equal(t, "Change displayed companies for EPS year '2024'", cs.Describe())
	assert.Equal(t, []types.RegionID{types.RegionEPS}, cs.AffectedViewRegions())
	ss := NewSelection(env, types.SelectionSectors, nil, []string{"Tech"})
	assert.Equal(t, []types.RegionID{types.RegionSectors}, ss.AffectedViewRegions())
}

func TestFixedCompanies(t *testing.T) {
	var current []string
	c := NewFixedCompanies(func(l []string) { current = l }, []string{"VCSC", "SSI"}, []string{"MBS"})
	c.Execute()
	assert.Equal(t, []string{"MBS"}, current)
	c.Unexecute()
	assert.Equal(t, []string{"VCSC", "SSI"}, current)
	assert.Equal(t, "Change E-Price fixed companies from [VCSC, SSI] to [MBS]", c.Describe())
	assert.Contains(t, c.AffectedViewRegions(), types.RegionEPrice)
}

func TestEnvDefaults(t *testing.T) {
	doc, _, _, _ := fixture()
	env := Env{Doc: doc}
	c := NewFieldEdit(env, Price{Key: "GONE"}, "", "1")
	assert.NotPanics(t, c.Execute)
	assert.NotPanics(t, NewFieldEdit(env, Price{Key: "AAPL"}, "170", "1").Execute)
	assert.Equal(t, "1", doc.Records["AAPL"].Price)
}
