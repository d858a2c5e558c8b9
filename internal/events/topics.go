package events

// Event types exchanged with the routing backend.
const (
	RouteRequested = "route.requested"
	RouteDetails   = "route.details"
)

// Source is the CloudEvents source of everything this service publishes.
const Source = "service-planner"
