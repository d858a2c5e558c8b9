package route

import "context"

// Repository defines the contract of the in-memory route list.
type Repository interface {
	// Append stores r under the next sequential identifier and returns the stored route.
	Append(ctx context.Context, r *Route) (*Route, error)

	// Remove deletes the route with the given identifier. Missing routes are ignored.
	Remove(ctx context.Context, id int) (bool, error)

	// FindByID retrieves a route by identifier.
	FindByID(ctx context.Context, id int) (*Route, error)

	// List returns every route in insertion order.
	List(ctx context.Context) ([]*Route, error)
}
