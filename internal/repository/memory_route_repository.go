package repository

import (
	"context"
	"strconv"
	"sync"

	routeDomain "github.com/route-planner/service-planner/internal/domain/route"
	"github.com/route-planner/service-planner/internal/platform/domain"
)

// MemoryRouteRepository keeps the route list in process memory.
type MemoryRouteRepository struct {
	mu     sync.RWMutex
	routes []*routeDomain.Route
	lastID int
}

// NewMemoryRouteRepository creates an empty route list.
func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{}
}

// Append stores r under the next identifier. Identifiers are never reused.
func (r *MemoryRouteRepository) Append(_ context.Context, route *routeDomain.Route) (*routeDomain.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	stored := route.WithID(r.lastID)
	r.routes = append(r.routes, stored)
	return stored, nil
}

// Remove deletes the route with the given id and reports whether it existed.
func (r *MemoryRouteRepository) Remove(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, route := range r.routes {
		if route.ID() == id {
			r.routes = append(r.routes[:i:i], r.routes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// FindByID retrieves a route by identifier.
func (r *MemoryRouteRepository) FindByID(_ context.Context, id int) (*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.routes {
		if route.ID() == id {
			return route, nil
		}
	}
	return nil, domain.NewNotFoundError("Route", strconv.Itoa(id))
}

// List returns the routes in insertion order.
func (r *MemoryRouteRepository) List(_ context.Context) ([]*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*routeDomain.Route(nil), r.routes...), nil
}
