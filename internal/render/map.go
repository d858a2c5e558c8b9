package render

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"github.com/route-planner/service-planner/internal/domain/overlay"
	"github.com/route-planner/service-planner/internal/domain/route"
)

const (
	DefaultCenterLat = 50.851368
	DefaultCenterLon = 5.690973
	DefaultZoom      = 13

	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "&copy; <a href=\"https://www.openstreetmap.org/copyright\">OpenStreetMap</a> contributors"

	markerIconSize     = 12
	overlayRadius      = 8
	overlayFillOpacity = 0.8
)

// Viewport is the map center and zoom level.
type Viewport struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

// DefaultViewport is centred on Maastricht.
func DefaultViewport() Viewport {
	return Viewport{Lat: DefaultCenterLat, Lon: DefaultCenterLon, Zoom: DefaultZoom}
}

// TileLayer is the slippy-map tile source.
type TileLayer struct {
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
}

// Polyline is one drawn run of a route.
type Polyline struct {
	Color   string
	Segment route.SegmentType
	Path    orb.LineString
}

// Marker is a route endpoint marker.
type Marker struct {
	Class    string
	Popup    string
	IconSize [2]int
	Position orb.Point
}

// CircleMarker is one accessibility overlay point.
type CircleMarker struct {
	Position    orb.Point
	Color       string
	Radius      int
	FillOpacity float64
	Score       float64
}

// Map owns the drawn layers. Layers are replaced wholesale on every redraw,
// so at most one route is ever on the map.
type Map struct {
	mu       sync.RWMutex
	viewport Viewport
	tiles    TileLayer
	style    route.LineStyleStrategy

	routeID   int
	polylines []Polyline
	markers   []Marker
	overlay   []CircleMarker
	bounds    *orb.Bound
}

// New creates an empty map. Zero-valued tiles fall back to OpenStreetMap.
func New(viewport Viewport, tiles TileLayer, style route.LineStyleStrategy) *Map {
	if tiles.URLTemplate == "" {
		tiles.URLTemplate = DefaultTileURL
	}
	if tiles.Attribution == "" {
		tiles.Attribution = DefaultAttribution
	}
	if style == nil {
		style = route.NewStandardLineStyle()
	}
	return &Map{viewport: viewport, tiles: tiles, style: style}
}

// Clear removes the drawn route. Overlay markers are untouched.
func (m *Map) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Map) clearLocked() {
	m.routeID = 0
	m.polylines = nil
	m.markers = nil
	m.bounds = nil
}

// DrawRoute replaces the drawn route with r. On error the previous layers are kept.
func (m *Map) DrawRoute(r *route.Route) error {
	coords := r.Coordinates()
	for i, c := range coords {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}
	}

	if len(coords) == 0 {
		m.Clear()
		return nil
	}

	var polylines []Polyline
	for _, run := range route.Partition(coords) {
		path := make(orb.LineString, 0, len(run.Points))
		for _, c := range run.Points {
			path = append(path, toPoint(c))
		}
		polylines = append(polylines, Polyline{
			Color:   m.style.Color(r.Mode(), run.Type),
			Segment: run.Type,
			Path:    path,
		})
	}

	start, end := toPoint(coords[0]), toPoint(coords[len(coords)-1])
	markers := []Marker{
		{Class: "start-marker", Popup: "Start Point", IconSize: [2]int{markerIconSize, markerIconSize}, Position: start},
		{Class: "end-marker", Popup: "End Point", IconSize: [2]int{markerIconSize, markerIconSize}, Position: end},
	}

	bound := orb.MultiPoint(pointsOf(coords)).Bound()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.routeID = r.ID()
	m.polylines = polylines
	m.markers = markers
	m.bounds = &bound
	return nil
}

// ShowOverlay replaces the overlay markers with one circle per entry.
func (m *Map) ShowOverlay(entries []overlay.Entry) {
	circles := make([]CircleMarker, 0, len(entries))
	for _, e := range entries {
		circles = append(circles, CircleMarker{
			Position:    orb.Point{e.Lon, e.Lat},
			Color:       e.Color(),
			Radius:      overlayRadius,
			FillOpacity: overlayFillOpacity,
			Score:       e.Score,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlay = circles
}

// ClearOverlay removes every overlay marker.
func (m *Map) ClearOverlay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlay = nil
}

// RouteID returns the id of the drawn route, or 0 if none is drawn.
func (m *Map) RouteID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.routeID
}

// Polylines returns a copy of the drawn route runs.
func (m *Map) Polylines() []Polyline {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Polyline(nil), m.polylines...)
}

// Markers returns a copy of the endpoint markers.
func (m *Map) Markers() []Marker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Marker(nil), m.markers...)
}

// OverlayCount returns the number of overlay markers on the map.
func (m *Map) OverlayCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overlay)
}

func toPoint(c route.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

func pointsOf(coords []route.Coordinate) []orb.Point {
	out := make([]orb.Point, len(coords))
	for i, c := range coords {
		out[i] = toPoint(c)
	}
	return out
}
