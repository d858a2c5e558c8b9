package route

import "fmt"

// Mode is the transport mode a route was planned for.
type Mode string

const (
	ModeFoot    Mode = "foot"
	ModeBike    Mode = "bike"
	ModeBus     Mode = "bus"
	ModeAerial  Mode = "aerial"
	ModeTransit Mode = "transit"
)

// modePresentation holds the list label and icon asset for each mode.
var modePresentation = map[Mode]struct {
	label string
	icon  string
}{
	ModeFoot:    {label: "Walking", icon: "walk.svg"},
	ModeBike:    {label: "Biking", icon: "bike.png"},
	ModeBus:     {label: "Bus", icon: "bus.svg"},
	ModeAerial:  {label: "Aerial", icon: "plane.png"},
	ModeTransit: {label: "Transit", icon: "bus.svg"},
}

// AllModes returns the supported modes in display order.
func AllModes() []Mode {
	return []Mode{ModeFoot, ModeBike, ModeBus, ModeAerial, ModeTransit}
}

// IsValid returns true if the mode is recognized.
func (m Mode) IsValid() bool {
	_, ok := modePresentation[m]
	return ok
}

// SupportsRange returns true if the mode takes a search range from the range control.
func (m Mode) SupportsRange() bool {
	return m == ModeBus || m == ModeTransit
}

// Label returns the human-readable name shown next to the icon.
func (m Mode) Label() string { return modePresentation[m].label }

// Icon returns the icon asset for the mode, or "" for an unknown mode.
func (m Mode) Icon() string { return modePresentation[m].icon }

// String returns the wire representation of the mode.
func (m Mode) String() string { return string(m) }

// ParseMode converts a string to a Mode, returning an error if invalid.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid transport mode: %q", s)
	}
	return mode, nil
}
