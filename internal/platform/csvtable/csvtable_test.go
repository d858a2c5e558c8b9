package csvtable

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ResolvesColumnsByName(t *testing.T) {
	input := "\ufeffLon, Lat ,SEAI\n5.69, 50.85,12.5\n5.70,50.86\n"

	tbl, err := Open(strings.NewReader(input), "lat", "LON")
	require.NoError(t, err)

	rec, err := tbl.Next()
	require.NoError(t, err)
	assert.Equal(t, "50.85", rec.Get("Lat"))
	assert.Equal(t, "5.69", rec.Get("Lon"))
	assert.Equal(t, "12.5", rec.Get("seai"))
	assert.Equal(t, 2, rec.Line)

	rec, err = tbl.Next()
	require.NoError(t, err)
	assert.Equal(t, "", rec.Get("SEAI"))
	assert.Equal(t, "", rec.Get("unknown"))

	_, err = tbl.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Open(strings.NewReader("Lat,Lon\n"), "SEAI")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEAI")
}
