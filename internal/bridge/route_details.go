package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/route-planner/service-planner/internal/domain/route"
)

// routeDetailsPayload is the call-in JSON object emitted by the backend.
type routeDetailsPayload struct {
	Details     string          `json:"details"`
	Time        flexNumber      `json:"time"`
	Distance    flexNumber      `json:"distance"`
	Mode        string          `json:"mode"`
	Coordinates json.RawMessage `json:"coordinates"`
	Stops       []descriptor    `json:"stops"`
	Routes      []descriptor    `json:"routes"`
}

// descriptor covers both bus stops and transit transfers.
type descriptor struct {
	Name string `json:"name"`
	Time string `json:"time"`
	Line string `json:"line"`
}

// flexNumber accepts 12, 12.5 and "12".
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexNumber(v)
	return nil
}

// DecodeRouteDetails parses a backend response into an unnumbered Route.
// The coordinates field is normally a JSON-encoded string holding the array;
// a raw array is accepted too.
func DecodeRouteDetails(payload string) (*route.Route, error) {
	var p routeDetailsPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, err
	}

	mode, err := route.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}

	coords, err := decodeCoordinates(p.Coordinates)
	if err != nil {
		return nil, err
	}

	var (
		stops     []route.Stop
		transfers []route.Transfer
	)
	switch mode {
	case route.ModeBus:
		for _, d := range p.Stops {
			stops = append(stops, route.Stop{Name: d.Name, Time: d.Time})
		}
	case route.ModeTransit:
		src := p.Routes
		if len(src) == 0 {
			src = p.Stops
		}
		for _, d := range src {
			transfers = append(transfers, route.Transfer{Line: d.Line, Name: d.Name})
		}
	}

	return route.NewRoute(p.Details, float64(p.Time), float64(p.Distance), mode, coords, stops, transfers)
}

// errMissingCoordinates is returned when the coordinates field is absent, null or blank.
var errMissingCoordinates = errors.New("coordinates are required")

func decodeCoordinates(raw json.RawMessage) ([]route.Coordinate, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errMissingCoordinates
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" || encoded == "null" {
			return nil, errMissingCoordinates
		}
		raw = []byte(encoded)
	}

	var coords []route.Coordinate
	if err := json.Unmarshal(raw, &coords); err != nil {
		return nil, fmt.Errorf("invalid coordinates: %w", err)
	}
	return coords, nil
}
