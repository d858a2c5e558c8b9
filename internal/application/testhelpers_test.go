package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/bridge"
	overlayDomain "github.com/route-planner/service-planner/internal/domain/overlay"
	"github.com/route-planner/service-planner/internal/overlay"
	"github.com/route-planner/service-planner/internal/postal"
	"github.com/route-planner/service-planner/internal/render"
	"github.com/route-planner/service-planner/internal/repository"
)

type fakeDispatcher struct {
	mu       sync.Mutex
	requests []bridge.RouteRequest
	err      error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, req bridge.RouteRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.requests = append(d.requests, req)
	return nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

// gatedSource blocks each Load until the test releases it.
type gatedSource struct {
	release chan struct{}
	entries []overlayDomain.Entry
}

func (s *gatedSource) Load(ctx context.Context) ([]overlayDomain.Entry, error) {
	select {
	case <-s.release:
		return s.entries, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]overlayDomain.Entry, error) {
	return nil, errors.New("connection refused")
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(context.Context, bridge.RouteRequest) error {
	panic("bridge object missing")
}

type fixture struct {
	planner    *PlannerService
	overlay    *OverlayService
	notifier   *NotificationService
	hub        *EventHub
	renderer   *render.Map
	dispatcher *fakeDispatcher
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	source          overlay.Source
	directory       postal.Directory
	dispatcher      bridge.Dispatcher
	dispatchTimeout time.Duration
}

func withSource(src overlay.Source) fixtureOption {
	return func(c *fixtureConfig) { c.source = src }
}

func withDirectory(dir postal.Directory) fixtureOption {
	return func(c *fixtureConfig) { c.directory = dir }
}

func withDispatcher(d bridge.Dispatcher) fixtureOption {
	return func(c *fixtureConfig) { c.dispatcher = d }
}

func withDispatchTimeout(d time.Duration) fixtureOption {
	return func(c *fixtureConfig) { c.dispatchTimeout = d }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	fake := &fakeDispatcher{}
	cfg := fixtureConfig{
		source:     overlay.StaticSource{{Lat: 50.85, Lon: 5.69, Score: 12}, {Lat: 50.86, Lon: 5.70, Score: 250}},
		dispatcher: fake,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	log := zap.NewNop()
	hub := NewEventHub(64, log)
	notifier := NewNotificationService(hub, log)
	renderer := render.New(render.DefaultViewport(), render.TileLayer{}, nil)
	overlaySvc := NewOverlayService(cfg.source, renderer, notifier, hub, log)
	planner := NewPlannerService(
		repository.NewMemoryRouteRepository(),
		renderer,
		cfg.dispatcher,
		notifier,
		hub,
		PlannerOptions{Directory: cfg.directory, Overlay: overlaySvc, DispatchTimeout: cfg.dispatchTimeout},
		log,
	)

	return &fixture{
		planner:    planner,
		overlay:    overlaySvc,
		notifier:   notifier,
		hub:        hub,
		renderer:   renderer,
		dispatcher: fake,
	}
}

func (f *fixture) messages() []string {
	var out []string
	for _, n := range f.notifier.Active() {
		out = append(out, n.Message)
	}
	return out
}

const busPayload = `{
	"details": "Route from 6211AB to 6229HX by bus",
	"time": 18,
	"distance": 4210,
	"mode": "bus",
	"coordinates": "[[50.85,5.69,0],[50.851,5.691,0],[50.86,5.70,2],[50.87,5.71,2]]",
	"stops": [{"name": "Markt", "time": "08:10"}, {"name": "Azelis", "time": "08:28"}]
}`

func footPayload(details string) string {
	return `{"details":"` + details + `","time":9,"distance":700,"mode":"foot","coordinates":"[[50.85,5.69],[50.86,5.70]]"}`
}
