package overlay

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	overlayDomain "github.com/route-planner/service-planner/internal/domain/overlay"
	"github.com/route-planner/service-planner/internal/platform/csvtable"
	"github.com/route-planner/service-planner/internal/postal"
)

// NearbyRadiusMeters is how far a point of interest may be from a postal code centroid to count.
const NearbyRadiusMeters = 1200.0

// SEAI weights.
const (
	amenityWeight = 0.7
	shopWeight    = 0.2
	tourismWeight = 0.1
)

var countsHeader = []string{"Postal Code", "Amenity Count", "Shop Count", "Tourism Count"}

// Counts is the number of points of interest of each kind near one postal code.
type Counts struct {
	Zip     string
	Amenity int
	Shop    int
	Tourism int
}

// Score is the weighted accessibility index.
func (c Counts) Score() float64 {
	return amenityWeight*float64(c.Amenity) + shopWeight*float64(c.Shop) + tourismWeight*float64(c.Tourism)
}

// ReadFeaturePoints returns one point per GeoJSON feature. Non-point
// geometries contribute the center of their bounding box.
func ReadFeaturePoints(r io.Reader) ([]orb.Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	points := make([]orb.Point, 0, len(fc.Features))
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case nil:
			continue
		case orb.Point:
			points = append(points, g)
		default:
			points = append(points, g.Bound().Center())
		}
	}
	return points, nil
}

// CountNearby counts amenity, shop and tourism points within NearbyRadiusMeters
// of every postal code. The result is sorted by zip.
func CountNearby(codes []postal.Code, amenity, shop, tourism []orb.Point) []Counts {
	out := make([]Counts, 0, len(codes))
	for _, c := range codes {
		center := orb.Point{c.Lon, c.Lat}
		out = append(out, Counts{
			Zip:     c.Zip,
			Amenity: countWithin(center, amenity),
			Shop:    countWithin(center, shop),
			Tourism: countWithin(center, tourism),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zip < out[j].Zip })
	return out
}

func countWithin(center orb.Point, points []orb.Point) int {
	n := 0
	for _, p := range points {
		if geo.DistanceHaversine(center, p) <= NearbyRadiusMeters {
			n++
		}
	}
	return n
}

// WriteCounts writes the counts table.
func WriteCounts(w io.Writer, counts []Counts) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(countsHeader); err != nil {
		return err
	}
	for _, c := range counts {
		row := []string{c.Zip, strconv.Itoa(c.Amenity), strconv.Itoa(c.Shop), strconv.Itoa(c.Tourism)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCounts reads a table written by WriteCounts.
func ReadCounts(r io.Reader) ([]Counts, error) {
	tbl, err := csvtable.Open(r, countsHeader...)
	if err != nil {
		return nil, fmt.Errorf("invalid counts file: %w", err)
	}

	var out []Counts
	for {
		rec, err := tbl.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid counts file: %w", err)
		}

		c := Counts{Zip: postal.Normalize(rec.Get("Postal Code"))}
		if c.Amenity, err = strconv.Atoi(rec.Get("Amenity Count")); err != nil {
			return nil, fmt.Errorf("line %d: invalid amenity count: %w", rec.Line, err)
		}
		if c.Shop, err = strconv.Atoi(rec.Get("Shop Count")); err != nil {
			return nil, fmt.Errorf("line %d: invalid shop count: %w", rec.Line, err)
		}
		if c.Tourism, err = strconv.Atoi(rec.Get("Tourism Count")); err != nil {
			return nil, fmt.Errorf("line %d: invalid tourism count: %w", rec.Line, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Score joins counts with postal code coordinates. Codes without coordinates
// are skipped with a warning.
func Score(counts []Counts, codes []postal.Code, logger *zap.Logger) []overlayDomain.Entry {
	byZip := make(map[string]postal.Code, len(codes))
	for _, c := range codes {
		byZip[postal.Normalize(c.Zip)] = c
	}

	entries := make([]overlayDomain.Entry, 0, len(counts))
	for _, c := range counts {
		code, ok := byZip[c.Zip]
		if !ok {
			logger.Warn("no coordinates for postal code", zap.String("zip", c.Zip))
			continue
		}
		entries = append(entries, overlayDomain.Entry{Lat: code.Lat, Lon: code.Lon, Score: c.Score()})
	}
	return entries
}

// WriteEntries writes a Lat,Lon,SEAI table readable by ParseEntries.
func WriteEntries(w io.Writer, entries []overlayDomain.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Lat", "Lon", "SEAI"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.FormatFloat(e.Lat, 'f', -1, 64),
			strconv.FormatFloat(e.Lon, 'f', -1, 64),
			strconv.FormatFloat(e.Score, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
