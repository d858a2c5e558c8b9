package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routeDomain "github.com/route-planner/service-planner/internal/domain/route"
	"github.com/route-planner/service-planner/internal/platform/domain"
)

func newRoute(t *testing.T, details string) *routeDomain.Route {
	t.Helper()
	r, err := routeDomain.NewRoute(details, 5, 100, routeDomain.ModeFoot, nil, nil, nil)
	require.NoError(t, err)
	return r
}

func TestMemoryRouteRepository_AppendAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRouteRepository()

	a, err := repo.Append(ctx, newRoute(t, "a"))
	require.NoError(t, err)
	b, err := repo.Append(ctx, newRoute(t, "b"))
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID())
	assert.Equal(t, 2, b.ID())

	removed, err := repo.Remove(ctx, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	c, err := repo.Append(ctx, newRoute(t, "c"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID(), "identifiers are never reused")
}

func TestMemoryRouteRepository_RemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRouteRepository()
	_, _ = repo.Append(ctx, newRoute(t, "a"))

	removed, err := repo.Remove(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	list, _ := repo.List(ctx)
	assert.Len(t, list, 1)
}

func TestMemoryRouteRepository_FindAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRouteRepository()
	for _, d := range []string{"a", "b", "c"} {
		_, err := repo.Append(ctx, newRoute(t, d))
		require.NoError(t, err)
	}
	_, _ = repo.Remove(ctx, 2)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Details())
	assert.Equal(t, "c", list[1].Details())

	found, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "c", found.Details())

	_, err = repo.FindByID(ctx, 2)
	assert.True(t, domain.IsNotFound(err))
}

func TestMemoryRouteRepository_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRouteRepository()

	r := newRoute(t, "x")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Append(ctx, r)
		}()
	}
	wg.Wait()

	list, _ := repo.List(ctx)
	require.Len(t, list, 50)
	seen := make(map[int]bool)
	for _, stored := range list {
		assert.False(t, seen[stored.ID()])
		seen[stored.ID()] = true
	}
}
