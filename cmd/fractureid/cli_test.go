package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractureid/internal/content"
	"fractureid/internal/domain"
)

// execute runs the CLI with a private config and log file
func execute(t *testing.T, configBody string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := executeTo(t, &out, configBody, args...)
	return out.String(), err
}

// executeTo runs the CLI with a private config and log file, writing to w
func executeTo(t *testing.T, w io.Writer, configBody string, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if configBody != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(configBody), 0644))
	}

	a := &app{}
	defer a.shutdown()
	cmd := newRootCmd(a)
	cmd.SetOut(w)
	cmd.SetErr(w)
	cmd.SetArgs(append([]string{"--config", configPath, "--log-file", filepath.Join(dir, "test.log")}, args...))

	return cmd.Execute()
}

// failingWriter accepts limit bytes, then fails every write
type failingWriter struct {
	limit int
}

var errWriteFailed = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		n := w.limit
		w.limit = 0
		return n, errWriteFailed
	}
	w.limit -= len(p)
	return len(p), nil
}

func TestSearchText(t *testing.T) {
	out, err := execute(t, "", "search", "talus")
	require.NoError(t, err)
	assert.Contains(t, out, "Talus Fracture")
	assert.Contains(t, out, "Ankle & Foot Fractures")
	assert.Contains(t, out, "1 fractures, 0 quick references")
}

func TestSearchJoinsArgs(t *testing.T) {
	out, err := execute(t, "", "search", "tibial", "plateau")
	require.NoError(t, err)
	assert.Contains(t, out, "Tibial Plateau Fracture")
}

func TestSearchJSON(t *testing.T) {
	out, err := execute(t, "", "search", "--json", "compartment")
	require.NoError(t, err)

	var hits []searchHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"fracture", "fracture", "quickref"}, []string{hits[0].Kind, hits[1].Kind, hits[2].Kind})
	assert.Equal(t, "Tibial Plateau Fracture", hits[0].Title)
	assert.Equal(t, "knee", hits[0].Region)
	assert.Equal(t, "Compartment Syndrome", hits[2].Title)
	assert.Equal(t, 1, hits[2].Index)
}

func TestSearchNoResults(t *testing.T) {
	out, err := execute(t, "", "search", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "No results for \"zzz\"\n", out)

	out, err = execute(t, "", "search", "--json", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestSearchNeedsQuery(t *testing.T) {
	_, err := execute(t, "", "search")
	assert.Error(t, err)
}

func TestRegions(t *testing.T) {
	out, err := execute(t, "", "regions")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "shoulder"))
	assert.Contains(t, out, "ankle")
	assert.Contains(t, out, "11 regions")
}

func TestRegionsFromContentFile(t *testing.T) {
	out, err := execute(t, "", "--content", "../../internal/content/testdata/small.yaml", "regions")
	require.NoError(t, err)
	assert.Contains(t, out, "wrist")
	assert.Contains(t, out, "1 regions, 1 fractures")
	assert.NotContains(t, out, "ankle")
}

func TestShowRegion(t *testing.T) {
	out, err := execute(t, "", "show", "ankle")
	require.NoError(t, err)
	assert.Contains(t, out, "Ankle & Foot Fractures")
	assert.Contains(t, out, " 2. Talus Fracture")
}

func TestListingsReportWriteErrors(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		args  []string
	}{
		{name: "show region heading", limit: 0, args: []string{"show", "ankle"}},
		{name: "show region rows", limit: 64, args: []string{"show", "ankle"}},
		{name: "regions rows", limit: 0, args: []string{"regions"}},
		{name: "regions mid-listing", limit: 100, args: []string{"regions"}},
		{name: "config", limit: 0, args: []string{"config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executeTo(t, &failingWriter{limit: tt.limit}, "", tt.args...)
			assert.ErrorIs(t, err, errWriteFailed)
		})
	}
}

func TestShowFractureRaw(t *testing.T) {
	out, err := execute(t, "", "show", "--raw", "ankle", "talus")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Talus Fracture\n"))
	assert.Contains(t, out, "## Management")
}

func TestShowFractureRendered(t *testing.T) {
	cfg := "[ui]\nglamour_style = \"notty\"\n"
	out, err := execute(t, cfg, "show", "knee", "Tibial Plateau Fracture")
	require.NoError(t, err)
	assert.Contains(t, out, "Tibial Plateau Fracture")
	assert.Contains(t, out, "Schatzker")
}

func TestShowUnknown(t *testing.T) {
	_, err := execute(t, "", "show", "hip")
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = execute(t, "", "show", "ankle", "femoral")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestMatchFracture(t *testing.T) {
	records := []domain.FractureRecord{
		{Name: "Femoral Neck Fracture"},
		{Name: "Femoral Shaft Fracture"},
		{Name: "Patellar Fracture"},
	}

	f, err := matchFracture(records, "x", "patellar")
	require.NoError(t, err)
	assert.Equal(t, "Patellar Fracture", f.Name)

	f, err = matchFracture(records, "x", "FEMORAL NECK FRACTURE")
	require.NoError(t, err)
	assert.Equal(t, "Femoral Neck Fracture", f.Name)

	_, err = matchFracture(records, "x", "femoral")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
	assert.NotErrorIs(t, err, content.ErrNotFound)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fractureid", "config.toml")
	args := []string{"--config", path, "--log-file", filepath.Join(dir, "test.log")}

	require.NoError(t, run(append(args, "config", "init")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "start_tab = 'identify'")

	err = run(append(args, "config", "init"))
	assert.ErrorContains(t, err, "already exists")

	assert.NoError(t, run(append(args, "config", "init", "--force")))
}

func TestConfigPrint(t *testing.T) {
	out, err := execute(t, "[ui]\nstart_tab = \"reference\"\n", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "start_tab = 'reference'")
	assert.Contains(t, out, "word_wrap = 80")
}

func TestBadConfigFails(t *testing.T) {
	_, err := execute(t, "[ui]\nstart_tab = \"elsewhere\"\n", "regions")
	assert.ErrorContains(t, err, "invalid config")

	_, err = execute(t, "[ui\n", "regions")
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestBadContentFails(t *testing.T) {
	_, err := execute(t, "", "--content", filepath.Join(t.TempDir(), "missing.yaml"), "regions")
	assert.ErrorContains(t, err, "failed to load content")
}
