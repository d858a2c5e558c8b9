package route

import (
	"fmt"
	"strconv"
	"time"

	"github.com/route-planner/service-planner/internal/platform/domain"
)

// Route is the aggregate root for one planned route received from the backend.
// It is immutable once created; only its membership in the route list changes.
type Route struct {
	id              int
	details         string
	durationMinutes float64
	distanceMeters  float64
	mode            Mode
	coordinates     []Coordinate
	stops           []Stop
	transfers       []Transfer
	receivedAt      time.Time
}

// NewRoute creates a Route without an identifier; the route list assigns one on append.
func NewRoute(
	details string,
	durationMinutes float64,
	distanceMeters float64,
	mode Mode,
	coordinates []Coordinate,
	stops []Stop,
	transfers []Transfer,
) (*Route, error) {
	if !mode.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown transport mode: %q", mode))
	}

	return &Route{
		details:         details,
		durationMinutes: durationMinutes,
		distanceMeters:  distanceMeters,
		mode:            mode,
		coordinates:     append([]Coordinate(nil), coordinates...),
		stops:           append([]Stop(nil), stops...),
		transfers:       append([]Transfer(nil), transfers...),
		receivedAt:      time.Now().UTC(),
	}, nil
}

// WithID returns a copy of the route carrying the given identifier.
func (r *Route) WithID(id int) *Route {
	cp := *r
	cp.id = id
	return &cp
}

// --- Getters ---

// ID returns the sequential identifier, or 0 if the route was never appended.
func (r *Route) ID() int { return r.id }

// Details returns the human-readable description.
func (r *Route) Details() string { return r.details }

// DurationMinutes returns the raw duration reported by the backend.
func (r *Route) DurationMinutes() float64 { return r.durationMinutes }

// DistanceMeters returns the raw distance reported by the backend.
func (r *Route) DistanceMeters() float64 { return r.distanceMeters }

// Mode returns the transport mode.
func (r *Route) Mode() Mode { return r.mode }

// Coordinates returns a copy of the path.
func (r *Route) Coordinates() []Coordinate {
	return append([]Coordinate(nil), r.coordinates...)
}

// Stops returns a copy of the bus stops.
func (r *Route) Stops() []Stop { return append([]Stop(nil), r.stops...) }

// Transfers returns a copy of the transit transfers.
func (r *Route) Transfers() []Transfer { return append([]Transfer(nil), r.transfers...) }

// ReceivedAt returns when the backend response was accepted.
func (r *Route) ReceivedAt() time.Time { return r.receivedAt }

// --- Presentation ---

// Duration returns the display string, e.g. "12.5 mins".
func (r *Route) Duration() string {
	return formatNumber(r.durationMinutes) + " mins"
}

// Distance returns the display string, e.g. "1830.4 m".
func (r *Route) Distance() string {
	return formatNumber(r.distanceMeters) + " m"
}

// formatNumber prints the shortest decimal that round-trips, so 12 prints as "12" and 12.5 as "12.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
