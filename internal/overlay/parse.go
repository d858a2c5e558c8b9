package overlay

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"go.uber.org/zap"

	overlayDomain "github.com/route-planner/service-planner/internal/domain/overlay"
	"github.com/route-planner/service-planner/internal/platform/csvtable"
)

// ParseEntries reads a Lat,Lon,SEAI table. Rows without a usable position are
// skipped and logged; a missing or non-numeric score is kept as NaN.
func ParseEntries(r io.Reader, logger *zap.Logger) ([]overlayDomain.Entry, error) {
	tbl, err := csvtable.Open(r, "Lat", "Lon", "SEAI")
	if err != nil {
		return nil, fmt.Errorf("invalid accessibility data: %w", err)
	}

	var (
		entries []overlayDomain.Entry
		skipped int
	)
	for {
		rec, err := tbl.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid accessibility data: %w", err)
		}

		lat, latErr := strconv.ParseFloat(rec.Get("Lat"), 64)
		lon, lonErr := strconv.ParseFloat(rec.Get("Lon"), 64)
		if latErr != nil || lonErr != nil {
			skipped++
			logger.Debug("skipping accessibility row without position", zap.Int("line", rec.Line))
			continue
		}

		score, err := strconv.ParseFloat(rec.Get("SEAI"), 64)
		if err != nil {
			score = math.NaN()
		}
		entries = append(entries, overlayDomain.Entry{Lat: lat, Lon: lon, Score: score})
	}

	if skipped > 0 {
		logger.Warn("skipped accessibility rows without position", zap.Int("skipped", skipped))
	}
	return entries, nil
}
