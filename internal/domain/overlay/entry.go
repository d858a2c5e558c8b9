package overlay

import "math"

// Entry is one row of the accessibility dataset: a postal-code centroid and its SEAI score.
type Entry struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Score float64 `json:"seai"`
}

// HasScore returns true if the score can be bucketed into a range.
func (e Entry) HasScore() bool {
	return !math.IsNaN(e.Score) && e.Score >= 0
}

// Color returns the marker color for the entry's score.
func (e Entry) Color() string {
	return ColorFor(e.Score)
}
