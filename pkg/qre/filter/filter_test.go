package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/qre/pkg/qre/types"
)

var names = []string{"AAPL", "MSFT", "VNM", "VIC", "2023", "2024", "TTM"}

func TestExpand(t *testing.T) {
	cases := []struct {
		expr string
		want []string
	}{
		{"", names},
		{"*", names},
		{"=VNM", []string{"VNM"}},
		{"=vnm", nil},
		{"V*", []string{"VNM", "VIC"}},
		{"/^20[0-9]{2}$/", []string{"2023", "2024"}},
		{"2024, 2023,NOPE", []string{"2024", "2023"}},
		{"ms", []string{"MSFT"}},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			got, err := Expand(c.expr, names)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("/([/")
	assert.Error(t, err)
	_, err = Parse("V[")
	assert.Error(t, err)
}

func TestFilterKinds(t *testing.T) {
	f, err := Parse("V?M")
	require.NoError(t, err)
	assert.IsType(t, Glob{}, f)
	assert.Equal(t, "glob:V?M", f.(Glob).String())

	f, err = Parse("aap")
	require.NoError(t, err)
	assert.True(t, f.Match("AAPL"))
	assert.Equal(t, "substr-ci:aap", f.(SubstrCI).String())

	assert.False(t, Always(false).Match("x"))
}

func TestWithSector(t *testing.T) {
	doc := types.NewDocument("10/15/2026")
	tag := func(key string, sectors ...string) {
		r := types.NewRecord(key)
		for _, s := range sectors {
			r.Sectors = append(r.Sectors, &types.SectorTag{Name: s, Type: types.SectorSub})
		}
		doc.Records[key] = r
	}
	tag("VNM", "Dairy", "Consumer")
	tag("MSN", "Consumer")
	tag("FPT", "Tech")
	tag("HPG")

	f, err := Parse("=Consumer")
	require.NoError(t, err)
	assert.Equal(t, []string{"MSN", "VNM"}, WithSector(f, doc, doc.Keys()))
	assert.Equal(t, []string{"VNM"}, WithSector(f, doc, []string{"VNM", "GONE"}))

	f, err = Parse("=consumer")
	require.NoError(t, err)
	assert.Empty(t, WithSector(f, doc, doc.Keys()))
	assert.Equal(t, []string{"FPT", "MSN", "VNM"}, WithSector(Always(true), doc, doc.Keys()))
}
