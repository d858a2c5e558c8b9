package overlay

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	overlayDomain "github.com/route-planner/service-planner/internal/domain/overlay"
	"github.com/route-planner/service-planner/internal/postal"
)

const seaiCSV = `Lat,Lon,SEAI
50.85,5.69,12.3
,5.70,40
50.86,5.71,
50.87,5.72,650
`

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(strings.NewReader(seaiCSV), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, overlayDomain.Entry{Lat: 50.85, Lon: 5.69, Score: 12.3}, entries[0])
	assert.True(t, math.IsNaN(entries[1].Score))
	assert.Equal(t, "grey", entries[1].Color())
	assert.Equal(t, "black", entries[2].Color())
}

func TestParseEntries_MissingColumn(t *testing.T) {
	_, err := ParseEntries(strings.NewReader("Lat,Lon\n1,2\n"), zap.NewNop())
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, NewSource("https://example.org/seai.csv", time.Second, zap.NewNop()))
	assert.IsType(t, &FileSource{}, NewSource("postalAccUpdated.csv", time.Second, zap.NewNop()))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seai.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(seaiCSV))
	}))
	defer srv.Close()

	entries, err := NewHTTPSource(srv.URL+"/seai.csv", time.Second, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = NewHTTPSource(srv.URL+"/missing.csv", time.Second, zap.NewNop()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seai.csv")
	require.NoError(t, os.WriteFile(path, []byte(seaiCSV), 0o600))

	entries, err := NewFileSource(path, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func TestReadFeaturePoints(t *testing.T) {
	input := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5.69,50.85]},"properties":{"amenity":"cafe"}},
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[5.0,50.0],[5.2,50.0],[5.2,50.2],[5.0,50.2],[5.0,50.0]]]},"properties":{}}
	]}`

	points, err := ReadFeaturePoints(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, orb.Point{5.69, 50.85}, points[0])
	assert.InDelta(t, 5.1, points[1].Lon(), 1e-9)
	assert.InDelta(t, 50.1, points[1].Lat(), 1e-9)

	_, err = ReadFeaturePoints(strings.NewReader(`{"type":`))
	assert.Error(t, err)
}

func TestCountNearby(t *testing.T) {
	codes := []postal.Code{
		{Zip: "6229HX", Lat: 50.8326, Lon: 5.7120},
		{Zip: "6211AB", Lat: 50.8503, Lon: 5.6909},
	}
	near := orb.Point{5.6910, 50.8505}
	far := orb.Point{5.9, 51.0}

	counts := CountNearby(codes, []orb.Point{near, far}, []orb.Point{near}, nil)
	require.Len(t, counts, 2)

	assert.Equal(t, "6211AB", counts[0].Zip)
	assert.Equal(t, 1, counts[0].Amenity)
	assert.Equal(t, 1, counts[0].Shop)
	assert.Equal(t, 0, counts[0].Tourism)

	assert.Equal(t, "6229HX", counts[1].Zip)
	assert.Equal(t, 0, counts[1].Amenity)
}

func TestCountsRoundTripAndScore(t *testing.T) {
	counts := []Counts{{Zip: "6211AB", Amenity: 10, Shop: 5, Tourism: 2}, {Zip: "9999ZZ", Amenity: 1}}

	var buf bytes.Buffer
	require.NoError(t, WriteCounts(&buf, counts))
	assert.True(t, strings.HasPrefix(buf.String(), "Postal Code,Amenity Count,Shop Count,Tourism Count\n"))

	read, err := ReadCounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, counts, read)

	assert.InDelta(t, 8.2, counts[0].Score(), 1e-9)

	entries := Score(read, []postal.Code{{Zip: "6211 AB", Lat: 50.85, Lon: 5.69}}, zap.NewNop())
	require.Len(t, entries, 1)
	assert.InDelta(t, 8.2, entries[0].Score, 1e-9)

	var out bytes.Buffer
	require.NoError(t, WriteEntries(&out, entries))
	parsed, err := ParseEntries(&out, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.InDelta(t, 8.2, parsed[0].Score, 1e-9)
}

func TestReadCounts_LegacySpacing(t *testing.T) {
	input := "Postal Code, Amenity Count, Shop Count, Tourism Count\n6211AB, 3, 2, 1\n"
	counts, err := ReadCounts(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Counts{{Zip: "6211AB", Amenity: 3, Shop: 2, Tourism: 1}}, counts)
}
