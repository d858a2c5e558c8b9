package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/overlay"
)

const (
	postalCSV = "Zip,Lat,Lon\n6211AB,50.8510,5.6900\n6229HX,50.8300,5.7200\n"

	amenityJSON = `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5.6905,50.8512]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5.6950,50.8520]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5.7205,50.8301]},"properties":{}}
	]}`
	shopJSON = `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5.6901,50.8511]},"properties":{}}
	]}`
	emptyJSON = `{"type":"FeatureCollection","features":[]}`
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCountThenScore(t *testing.T) {
	dir := t.TempDir()
	postalPath := writeTemp(t, dir, "postal.csv", postalCSV)
	amenity := writeTemp(t, dir, "amenity.geojson", amenityJSON)
	shop := writeTemp(t, dir, "shop.geojson", shopJSON)
	tourism := writeTemp(t, dir, "tourism.geojson", emptyJSON)
	countsPath := filepath.Join(dir, "counts.csv")
	scoresPath := filepath.Join(dir, "scores.csv")

	root := newRootCmd(zap.NewNop())
	root.SetArgs([]string{"count",
		"--postal", postalPath,
		"--amenity", amenity,
		"--shop", shop,
		"--tourism", tourism,
		"--out", countsPath,
	})
	require.NoError(t, root.Execute())

	f, err := os.Open(countsPath)
	require.NoError(t, err)
	counts, err := overlay.ReadCounts(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, overlay.Counts{Zip: "6211AB", Amenity: 2, Shop: 1}, counts[0])
	assert.Equal(t, overlay.Counts{Zip: "6229HX", Amenity: 1}, counts[1])

	root = newRootCmd(zap.NewNop())
	root.SetArgs([]string{"score", "--counts", countsPath, "--postal", postalPath, "--out", scoresPath})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(scoresPath)
	require.NoError(t, err)
	entries, err := overlay.ParseEntries(strings.NewReader(string(data)), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.InDelta(t, 1.6, entries[0].Score, 1e-9)
	assert.InDelta(t, 0.7, entries[1].Score, 1e-9)
}

func TestCount_RequiresFlags(t *testing.T) {
	root := newRootCmd(zap.NewNop())
	root.SetArgs([]string{"count", "--postal", "postal.csv"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestScore_MissingCounts(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd(zap.NewNop())
	root.SetArgs([]string{"score",
		"--counts", filepath.Join(dir, "missing.csv"),
		"--postal", writeTemp(t, dir, "postal.csv", postalCSV),
		"--out", filepath.Join(dir, "out.csv"),
	})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open counts")
}
