package render

import (
	"github.com/paulmach/orb/geojson"
)

// Layer kinds written to the "layer" feature property.
const (
	LayerRoute   = "route"
	LayerMarker  = "marker"
	LayerOverlay = "overlay"
)

// Bounds is a fit-to-view box in Leaflet order: [[south, west], [north, east]].
type Bounds [2][2]float64

// Snapshot is the complete, serializable map state.
type Snapshot struct {
	Viewport Viewport                   `json:"viewport"`
	Tiles    TileLayer                  `json:"tiles"`
	RouteID  int                        `json:"route_id,omitempty"`
	Layers   *geojson.FeatureCollection `json:"layers"`
	Bounds   *Bounds                    `json:"bounds,omitempty"`
}

// Snapshot describes every drawn layer as GeoJSON features.
func (m *Map) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fc := geojson.NewFeatureCollection()
	for _, p := range m.polylines {
		f := geojson.NewFeature(p.Path)
		f.Properties["layer"] = LayerRoute
		f.Properties["color"] = p.Color
		f.Properties["segment_type"] = int(p.Segment)
		fc.Append(f)
	}
	for _, mk := range m.markers {
		f := geojson.NewFeature(mk.Position)
		f.Properties["layer"] = LayerMarker
		f.Properties["class"] = mk.Class
		f.Properties["popup"] = mk.Popup
		f.Properties["icon_size"] = mk.IconSize
		fc.Append(f)
	}
	for _, c := range m.overlay {
		f := geojson.NewFeature(c.Position)
		f.Properties["layer"] = LayerOverlay
		f.Properties["color"] = c.Color
		f.Properties["radius"] = c.Radius
		f.Properties["fill_opacity"] = c.FillOpacity
		f.Properties["seai"] = c.Score
		fc.Append(f)
	}

	snap := Snapshot{
		Viewport: m.viewport,
		Tiles:    m.tiles,
		RouteID:  m.routeID,
		Layers:   fc,
	}
	if m.bounds != nil {
		snap.Bounds = &Bounds{
			{m.bounds.Min.Lat(), m.bounds.Min.Lon()},
			{m.bounds.Max.Lat(), m.bounds.Max.Lon()},
		}
	}
	return snap
}
