package route

import (
	"encoding/json"
	"fmt"
	"math"
)

// SegmentType tags the kind of leg a coordinate belongs to.
// The backend emits 0 for walking legs and non-zero codes for ridden legs.
type SegmentType int

const SegmentWalk SegmentType = 0

// Coordinate is one point of a route path.
type Coordinate struct {
	Lat  float64
	Lon  float64
	Type SegmentType
}

// UnmarshalJSON accepts [lat, lon] and [lat, lon, type].
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("coordinate must be a numeric array: %w", err)
	}
	switch len(values) {
	case 2:
		*c = Coordinate{Lat: values[0], Lon: values[1]}
	case 3:
		code := values[2]
		if code != math.Trunc(code) || math.Abs(code) > math.MaxInt32 {
			return fmt.Errorf("segment type must be an integer, got %v", code)
		}
		*c = Coordinate{Lat: values[0], Lon: values[1], Type: SegmentType(code)}
	default:
		return fmt.Errorf("coordinate must have 2 or 3 elements, got %d", len(values))
	}
	return nil
}

// MarshalJSON writes the coordinate as a triple.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.Lat, c.Lon, float64(c.Type)})
}

// Validate checks that the coordinate is a finite WGS84 position.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("coordinate is not finite")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range", c.Lon)
	}
	return nil
}

// Run is a maximal sequence of consecutive coordinates sharing one segment type.
type Run struct {
	Type   SegmentType
	Points []Coordinate
}

// Partition splits coords into maximal runs of equal segment type, preserving order.
func Partition(coords []Coordinate) []Run {
	if len(coords) == 0 {
		return nil
	}

	runs := []Run{{Type: coords[0].Type}}
	for i, c := range coords {
		current := &runs[len(runs)-1]
		if i > 0 && c.Type != current.Type {
			runs = append(runs, Run{Type: c.Type})
			current = &runs[len(runs)-1]
		}
		current.Points = append(current.Points, c)
	}
	return runs
}

// Stop is a boarding point on a bus route.
type Stop struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Transfer is one line taken on a transit route.
type Transfer struct {
	Line string `json:"line"`
	Name string `json:"name"`
}
