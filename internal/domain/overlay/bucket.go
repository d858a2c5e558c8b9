package overlay

import (
	"math"
	"strings"
)

// UnscoredColor is used for scores that fall outside every range.
const UnscoredColor = "grey"

// Range is one of the ten fixed score buckets. Lo is exclusive except for the
// first range; Hi is inclusive; the last range is open-ended.
type Range struct {
	Label string
	Color string
	Lo    float64
	Hi    float64
}

var ranges = []Range{
	{Label: "0-20", Color: "red", Lo: 0, Hi: 20},
	{Label: "21-50", Color: "orange", Lo: 20, Hi: 50},
	{Label: "51-100", Color: "yellow", Lo: 50, Hi: 100},
	{Label: "101-150", Color: "lightgreen", Lo: 100, Hi: 150},
	{Label: "151-200", Color: "green", Lo: 150, Hi: 200},
	{Label: "201-300", Color: "lightblue", Lo: 200, Hi: 300},
	{Label: "301-400", Color: "blue", Lo: 300, Hi: 400},
	{Label: "401-500", Color: "purple", Lo: 400, Hi: 500},
	{Label: "501-600", Color: "magenta", Lo: 500, Hi: 600},
	{Label: "601+", Color: "black", Lo: 600, Hi: math.Inf(1)},
}

// Ranges returns the score buckets in ascending order.
func Ranges() []Range {
	return append([]Range(nil), ranges...)
}

// Contains reports whether score belongs to the range.
func (r Range) Contains(score float64) bool {
	if r.Lo == 0 {
		return score >= 0 && score <= r.Hi
	}
	return score > r.Lo && score <= r.Hi
}

// CSSClass returns the chart segment class, e.g. "segment-601-plus".
func (r Range) CSSClass() string {
	return "segment-" + strings.Replace(r.Label, "+", "-plus", 1)
}

// Classify returns the range holding score. ok is false for negative or NaN scores.
func Classify(score float64) (Range, bool) {
	if math.IsNaN(score) {
		return Range{}, false
	}
	for _, r := range ranges {
		if r.Contains(score) {
			return r, true
		}
	}
	return Range{}, false
}

// ColorFor returns the marker color for score.
func ColorFor(score float64) string {
	r, ok := Classify(score)
	if !ok {
		return UnscoredColor
	}
	return r.Color
}
