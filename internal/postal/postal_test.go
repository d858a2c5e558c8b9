package postal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/platform/domain"
)

const sampleCSV = `Zip,Lat,Lon
6211AB,50.8503,5.6909
6229 HX,50.8326,5.7120
6200XX,not-a-number,5.7
`

func TestReadCSV(t *testing.T) {
	codes, err := ReadCSV(strings.NewReader(sampleCSV), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, Code{Zip: "6211AB", Lat: 50.8503, Lon: 5.6909}, codes[0])
	assert.Equal(t, "6229HX", codes[1].Zip)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Zip,Lat\n6211AB,50.8\n"), zap.NewNop())
	assert.Error(t, err)
}

func TestMemoryDirectory_Lookup(t *testing.T) {
	codes, err := ReadCSV(strings.NewReader(sampleCSV), zap.NewNop())
	require.NoError(t, err)
	dir := NewMemoryDirectory(codes)
	assert.Equal(t, 2, dir.Len())

	c, err := dir.Lookup(context.Background(), "6229 hx")
	require.NoError(t, err)
	assert.Equal(t, 50.8326, c.Lat)

	_, err = dir.Lookup(context.Background(), "0000AA")
	assert.True(t, domain.IsNotFound(err))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "6211AB", Normalize(" 6211 ab "))
	assert.Equal(t, "", Normalize("   "))
}
