package overlay

// Distribution counts entries per range, in range order.
type Distribution struct {
	Counts   []RangeCount `json:"counts"`
	Total    int          `json:"total"`
	Unscored int          `json:"unscored"`
}

// RangeCount is the number of entries in one range.
type RangeCount struct {
	Range string `json:"range"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// ChartSegment is one slice of the proportional chart.
type ChartSegment struct {
	Range      string  `json:"range"`
	Class      string  `json:"class"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Angle      float64 `json:"angle"`
	Rotation   float64 `json:"rotation"`
}

// NewDistribution buckets every entry. Entries without a valid score are
// counted as unscored and left out of the totals.
func NewDistribution(entries []Entry) Distribution {
	d := Distribution{Counts: make([]RangeCount, len(ranges))}
	for i, r := range ranges {
		d.Counts[i] = RangeCount{Range: r.Label, Color: r.Color}
	}

	for _, e := range entries {
		placed := false
		for i, r := range ranges {
			if r.Contains(e.Score) {
				d.Counts[i].Count++
				d.Total++
				placed = true
				break
			}
		}
		if !placed {
			d.Unscored++
		}
	}
	return d
}

// Chart returns one segment per non-empty range. Each segment starts where the
// previous one ended; angles sum to 360 when any entry was scored.
func (d Distribution) Chart() []ChartSegment {
	if d.Total == 0 {
		return nil
	}

	var (
		segments   []ChartSegment
		cumulative float64
	)
	for i, c := range d.Counts {
		if c.Count == 0 {
			continue
		}
		pct := float64(c.Count) / float64(d.Total) * 100
		angle := pct / 100 * 360
		segments = append(segments, ChartSegment{
			Range:      c.Range,
			Class:      ranges[i].CSSClass(),
			Color:      c.Color,
			Count:      c.Count,
			Percentage: pct,
			Angle:      angle,
			Rotation:   cumulative,
		})
		cumulative += angle
	}
	return segments
}
