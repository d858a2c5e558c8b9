package route

// DefaultLineColor is used for every mode without a dedicated palette.
const DefaultLineColor = "#1A73E8"

// LineStyleStrategy picks the polyline color for a run of a route.
type LineStyleStrategy interface {
	Color(mode Mode, segment SegmentType) string
}

// StandardLineStyle draws bus walking legs orange and ridden legs blue; everything else uses the default color.
type StandardLineStyle struct{}

// NewStandardLineStyle creates a new StandardLineStyle.
func NewStandardLineStyle() *StandardLineStyle {
	return &StandardLineStyle{}
}

// Color implements LineStyleStrategy.
func (s *StandardLineStyle) Color(mode Mode, segment SegmentType) string {
	if mode != ModeBus {
		return DefaultLineColor
	}
	if segment == SegmentWalk {
		return "orange"
	}
	return "blue"
}
