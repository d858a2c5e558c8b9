package overlay

// Visibility is the overlay toggle state.
type Visibility string

const (
	VisibilityHidden Visibility = "hidden"
	VisibilityShown  Visibility = "shown"
)

// Toggle returns the opposite state.
func (v Visibility) Toggle() Visibility {
	if v == VisibilityShown {
		return VisibilityHidden
	}
	return VisibilityShown
}

// IsShown returns true if the overlay markers should be drawn.
func (v Visibility) IsShown() bool { return v == VisibilityShown }

// AccessibilityPanelVisible reports whether the accessibility panel is shown.
// It is shown together with the overlay.
func (v Visibility) AccessibilityPanelVisible() bool { return v == VisibilityShown }

// LeftPanelVisible reports whether the planner panel is shown. It hides while
// the overlay is on the map.
func (v Visibility) LeftPanelVisible() bool { return v != VisibilityShown }
