package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `,name,region,count_cn,count_neuro
ZA,South Africa,Africa,12,900
USA,United States,North America,800,40000
KE,Kenya,Africa,3,120
`

func TestReadCSV_IndexHeader(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, tab.Len())
	require.Equal(t, Row{Code: "ZA", Name: "South Africa", Region: "Africa", CountCN: 12, CountNeuro: 900}, tab.Row(0))
	require.Equal(t, 800.0, tab.MaxCN())
	require.Equal(t, 40000.0, tab.MaxNeuro())
}

func TestReadCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"missing column": "code,name,region,count_cn\nZA,South Africa,Africa,1\n",
		"negative":       "code,name,region,count_cn,count_neuro\nZA,South Africa,Africa,-1,2\n",
		"fraction":       "code,name,region,count_cn,count_neuro\nZA,South Africa,Africa,1.5,2\n",
		"not a number":   "code,name,region,count_cn,count_neuro\nZA,South Africa,Africa,x,2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(in))
			require.Error(t, err)
		})
	}
}

func TestReadCSV_FloatCounts(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader("Code,Name,Region,Count_CN,Count_Neuro\nKE,Kenya,Africa,3.0,120\n"))
	require.NoError(t, err)
	require.Equal(t, 3, tab.Row(0).CountCN)
}

func TestLoad_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "rows.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(`
- {code: KE, name: Kenya, region: Africa, count_cn: 3, count_neuro: 120}
- {code: FR, name: France, region: Europe, count_cn: 300, count_neuro: 9000}
`), 0o644))
	tab, err := Load(yml)
	require.NoError(t, err)
	require.Equal(t, 2, tab.Len())
	require.Equal(t, "France", tab.Row(1).Name)

	js := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(js, []byte(`[{"code":"KE","name":"Kenya","region":"Africa","count_cn":3,"count_neuro":120}]`), 0o644))
	tab, err = Load(js)
	require.NoError(t, err)
	require.Equal(t, 120, tab.Row(0).CountNeuro)

	_, err = Load(filepath.Join(dir, "rows.txt"))
	require.Error(t, err)
}

func TestLookups(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	i, err := tab.IndexOfName("Kenya")
	require.NoError(t, err)
	require.Equal(t, 2, i)

	i, err = tab.IndexOfCode("usa")
	require.NoError(t, err)
	require.Equal(t, 1, i)

	_, err = tab.IndexOfName("Atlantis")
	require.True(t, errors.Is(err, ErrRowNotFound))
}

func TestSortedBy(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	sorted, err := tab.SortedBy("count_neuro")
	require.NoError(t, err)
	require.Equal(t, []string{"KE", "ZA", "USA"}, codes(sorted))
	// input untouched
	require.Equal(t, []string{"ZA", "USA", "KE"}, codes(tab))

	_, err = tab.SortedBy("population")
	require.Error(t, err)
}

func TestMaxOfEmptyTable(t *testing.T) {
	tab := New(nil)
	if tab.MaxCN() != 0 || tab.MaxNeuro() != 0 {
		t.Fatalf("empty table maxima should be 0")
	}
}

func codes(t *Table) []string {
	var out []string
	for _, r := range t.Rows() {
		out = append(out, r.Code)
	}
	return out
}
