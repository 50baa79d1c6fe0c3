package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--eruptions", "testdata/eruptions.csv",
		"--boundaries", "testdata/countries.geojson",
		"--skip-rows", "1",
		"--workers", "2",
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestEnrichPrintsStats(t *testing.T) {
	out, err := execute(t, "enrich", "--audit")
	require.NoError(t, err)

	assert.Contains(t, out, "rows: 7")
	assert.Contains(t, out, "Spatial join")
	assert.Contains(t, out, "missing_coordinates")
	assert.Contains(t, out, "Continent resolution")
	assert.Contains(t, out, "Somaliland")
}

func TestEnrichWritesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")

	_, err := execute(t, "enrich", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var table domain.EnrichedTable
	require.NoError(t, json.Unmarshal(data, &table))
	require.Len(t, table.Rows, 7)

	want := []struct {
		name      string
		country   *string
		continent domain.Continent
	}{
		{"Tenerife", ptr("Spain"), domain.Europe},
		{"Hekla", ptr("Iceland"), domain.Europe},
		{"Krakatau", ptr("Indonesia"), domain.Asia},
		{"Tambora", ptr("Indonesia"), domain.Asia},
		{"Mid-Atlantic Ridge", nil, domain.Unknown},
		{"Somaliland Field", ptr("Somaliland"), domain.Africa},
		{"Unlocated", nil, domain.Unknown},
	}
	for i, w := range want {
		row := table.Rows[i]
		assert.Equal(t, w.name, row.VolcanoName)
		assert.Equal(t, w.country, row.Country, w.name)
		assert.Equal(t, w.continent, row.Continent, w.name)
	}
	assert.Equal(t, domain.OutcomeResolved, table.Rows[5].ContinentOutcome)
	assert.Equal(t, domain.GeoMissingCoordinates, table.Rows[6].GeoStatus)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default view excludes unknown vei", nil, "4 of 7 eruptions match"},
		{"unknown vei included", []string{"--unknown-vei"}, "7 of 7 eruptions match"},
		{"explicit vei", []string{"--vei", "4,6"}, "2 of 7 eruptions match"},
		{"year floor", []string{"--year-min", "1900"}, "2 of 7 eruptions match"},
		{"inverted years", []string{"--year-min", "2000", "--year-max", "1000"}, "0 of 7 eruptions match"},
		{"category", []string{"--category", "uncertain", "--unknown-vei"}, "1 of 7 eruptions match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"summary"}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSummaryGroups(t *testing.T) {
	out, err := execute(t, "summary", "--min-per-country", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "By continent")
	assert.Contains(t, out, "Indonesia")
	assert.Contains(t, out, "Other")
	assert.NotContains(t, out, "Iceland")
}

func TestSummaryMinPerCountryDefault(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{"unset", "", "20"},
		{"from environment", "3", "3"},
		{"zero disables folding", "0", "0"},
		{"malformed", "many", "20"},
		{"negative", "-1", "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIN_ERUPTIONS_PER_COUNTRY", tt.env)
			cmd, _, err := NewRootCmd().Find([]string{"summary"})
			require.NoError(t, err)

			flag := cmd.Flags().Lookup("min-per-country")
			require.NotNil(t, flag)
			assert.Equal(t, tt.want, flag.DefValue)
		})
	}
}

func TestSummaryFoldsSmallCountriesByDefault(t *testing.T) {
	t.Setenv("MIN_ERUPTIONS_PER_COUNTRY", "")
	out, err := execute(t, "summary", "--unknown-vei")
	require.NoError(t, err)

	assert.Contains(t, out, "Other")
	assert.NotContains(t, out, "Indonesia")
	assert.NotContains(t, out, "Iceland")
}

func TestSummaryRejectsUnknownCategory(t *testing.T) {
	_, err := execute(t, "summary", "--category", "rumoured")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "rumoured"`)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "unmatched points")
	assert.Contains(t, out, "warn")

	_, err = execute(t, "validate", "--strict")
	require.ErrorIs(t, err, errValidation)
}

func TestMissingInput(t *testing.T) {
	_, err := execute(t, "enrich", "--eruptions", "testdata/nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load eruptions")
}

func ptr[T any](v T) *T { return &v }
