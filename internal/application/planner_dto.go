package application

import (
	"time"

	"github.com/route-planner/service-planner/internal/domain/route"
	"github.com/route-planner/service-planner/internal/render"
)

// FormDTO is the planner form as the user last left it.
type FormDTO struct {
	From         string     `json:"from"`
	To           string     `json:"to"`
	Mode         route.Mode `json:"mode"`
	Range        int        `json:"range"`
	RangeEnabled bool       `json:"range_enabled"`
}

// RouteDTO is one entry of the route list.
type RouteDTO struct {
	ID          int                `json:"id"`
	Details     string             `json:"details"`
	Time        string             `json:"time"`
	Distance    string             `json:"distance"`
	Mode        route.Mode         `json:"mode"`
	ModeLabel   string             `json:"mode_label"`
	ModeIcon    string             `json:"mode_icon"`
	Active      bool               `json:"active"`
	Coordinates []route.Coordinate `json:"coordinates"`
	Stops       []route.Stop       `json:"stops,omitempty"`
	Transfers   []route.Transfer   `json:"routes,omitempty"`
	ReceivedAt  time.Time          `json:"received_at"`
}

// DetailPanelDTO is the route detail panel.
type DetailPanelDTO struct {
	Visible      bool                `json:"visible"`
	RouteID      int                 `json:"route_id,omitempty"`
	Name         string              `json:"name,omitempty"`
	Time         string              `json:"time,omitempty"`
	Distance     string              `json:"distance,omitempty"`
	Instructions []route.Instruction `json:"instructions,omitempty"`
}

// PlannerSnapshot is the complete UI state.
type PlannerSnapshot struct {
	Form          FormDTO           `json:"form"`
	Routes        []RouteDTO        `json:"routes"`
	ActiveRouteID int               `json:"active_route_id,omitempty"`
	Details       DetailPanelDTO    `json:"details"`
	Map           render.Snapshot   `json:"map"`
	Overlay       OverlayStateDTO   `json:"overlay"`
	Notifications []NotificationDTO `json:"notifications"`
}

// UpdateInputsRequest changes the form fields. Nil fields are left unchanged.
type UpdateInputsRequest struct {
	From  *string `json:"from"`
	To    *string `json:"to"`
	Range *int    `json:"range"`
}

// PlanRouteRequest optionally overrides the form before planning.
type PlanRouteRequest struct {
	From  *string `json:"from"`
	To    *string `json:"to"`
	Mode  *string `json:"mode"`
	Range *int    `json:"range"`
}

func toRouteDTO(r *route.Route, activeID int) RouteDTO {
	return RouteDTO{
		ID:          r.ID(),
		Details:     r.Details(),
		Time:        r.Duration(),
		Distance:    r.Distance(),
		Mode:        r.Mode(),
		ModeLabel:   r.Mode().Label(),
		ModeIcon:    r.Mode().Icon(),
		Active:      r.ID() == activeID,
		Coordinates: r.Coordinates(),
		Stops:       r.Stops(),
		Transfers:   r.Transfers(),
		ReceivedAt:  r.ReceivedAt(),
	}
}

func toDetailPanelDTO(r *route.Route) DetailPanelDTO {
	return DetailPanelDTO{
		Visible:      true,
		RouteID:      r.ID(),
		Name:         r.Details(),
		Time:         "Time: " + r.Duration(),
		Distance:     "Distance: " + r.Distance(),
		Instructions: r.Instructions(),
	}
}
