// Package postal resolves postal codes to coordinates.
package postal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/platform/csvtable"
	"github.com/route-planner/service-planner/internal/platform/domain"
)

// Code is a postal code and its centroid.
type Code struct {
	Zip string  `json:"zip"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Directory looks up postal codes. A missing code is reported as a not-found domain error.
type Directory interface {
	Lookup(ctx context.Context, zip string) (*Code, error)
}

// Normalize upper-cases zip and strips whitespace, so "6211 ab" matches "6211AB".
func Normalize(zip string) string {
	return strings.ToUpper(strings.Join(strings.Fields(zip), ""))
}

// ReadCSV parses a Zip,Lat,Lon file. Rows with unparsable coordinates are skipped and logged.
func ReadCSV(r io.Reader, logger *zap.Logger) ([]Code, error) {
	tbl, err := csvtable.Open(r, "Zip", "Lat", "Lon")
	if err != nil {
		return nil, fmt.Errorf("invalid postal code file: %w", err)
	}

	var codes []Code
	for {
		rec, err := tbl.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read postal code file: %w", err)
		}

		zip := Normalize(rec.Get("Zip"))
		lat, latErr := strconv.ParseFloat(rec.Get("Lat"), 64)
		lon, lonErr := strconv.ParseFloat(rec.Get("Lon"), 64)
		if zip == "" || latErr != nil || lonErr != nil {
			logger.Warn("skipping postal code row", zap.Int("line", rec.Line), zap.String("zip", zip))
			continue
		}
		codes = append(codes, Code{Zip: zip, Lat: lat, Lon: lon})
	}
	return codes, nil
}

// MemoryDirectory is a read-only Directory held in memory.
type MemoryDirectory struct {
	codes map[string]Code
}

// NewMemoryDirectory indexes codes by normalized zip. Later duplicates win.
func NewMemoryDirectory(codes []Code) *MemoryDirectory {
	d := &MemoryDirectory{codes: make(map[string]Code, len(codes))}
	for _, c := range codes {
		c.Zip = Normalize(c.Zip)
		d.codes[c.Zip] = c
	}
	return d
}

// Lookup implements Directory.
func (d *MemoryDirectory) Lookup(_ context.Context, zip string) (*Code, error) {
	c, ok := d.codes[Normalize(zip)]
	if !ok {
		return nil, domain.NewNotFoundError("Postal code", zip)
	}
	return &c, nil
}

// Len returns the number of known codes.
func (d *MemoryDirectory) Len() int {
	return len(d.codes)
}
