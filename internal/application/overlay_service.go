package application

import (
	"context"
	"sync"

	"go.uber.org/zap"

	overlayDomain "github.com/route-planner/service-planner/internal/domain/overlay"
	"github.com/route-planner/service-planner/internal/overlay"
	"github.com/route-planner/service-planner/internal/platform/domain"
	"github.com/route-planner/service-planner/internal/render"
)

// OverlayStateDTO is the overlay toggle and panel state.
type OverlayStateDTO struct {
	Visibility                overlayDomain.Visibility `json:"visibility"`
	OverlayVisible            bool                     `json:"overlay_visible"`
	LeftPanelVisible          bool                     `json:"left_panel_visible"`
	AccessibilityPanelVisible bool                     `json:"accessibility_panel_visible"`
	Loading                   bool                     `json:"loading"`
	Markers                   int                      `json:"markers"`
}

// DistributionDTO is the accessibility distribution and its chart.
type DistributionDTO struct {
	Loaded   bool                         `json:"loaded"`
	Counts   []overlayDomain.RangeCount   `json:"counts"`
	Total    int                          `json:"total"`
	Unscored int                          `json:"unscored"`
	Segments []overlayDomain.ChartSegment `json:"segments"`
}

// OverlayService owns the accessibility overlay toggle and the distribution chart.
type OverlayService struct {
	mu           sync.Mutex
	visibility   overlayDomain.Visibility
	generation   uint64
	loading      bool
	distribution *overlayDomain.Distribution

	source   overlay.Source
	renderer *render.Map
	notifier *NotificationService
	hub      *EventHub
	logger   *zap.Logger
}

// NewOverlayService creates a new OverlayService with the overlay hidden.
func NewOverlayService(
	source overlay.Source,
	renderer *render.Map,
	notifier *NotificationService,
	hub *EventHub,
	logger *zap.Logger,
) *OverlayService {
	return &OverlayService{
		visibility: overlayDomain.VisibilityHidden,
		source:     source,
		renderer:   renderer,
		notifier:   notifier,
		hub:        hub,
		logger:     logger,
	}
}

// Toggle flips the overlay. Showing it loads the dataset and draws one marker
// per entry; hiding it removes every marker. A load that finishes after a
// later toggle is discarded.
func (s *OverlayService) Toggle(ctx context.Context) (state OverlayStateDTO, err error) {
	defer s.notifier.Recover("Error toggling overlay", &err)

	s.mu.Lock()
	s.visibility = s.visibility.Toggle()
	s.generation++
	gen := s.generation

	if !s.visibility.IsShown() {
		s.loading = false
		s.renderer.ClearOverlay()
		state = s.stateLocked()
		s.mu.Unlock()

		s.logger.Info("overlay hidden")
		s.hub.Publish(EventOverlayToggled, state)
		return state, nil
	}

	s.loading = true
	s.hub.Publish(EventOverlayToggled, s.stateLocked())
	s.mu.Unlock()

	entries, loadErr := s.source.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale overlay load", zap.Uint64("generation", gen))
		return s.stateLocked(), nil
	}
	s.loading = false

	if loadErr != nil {
		s.logger.Error("failed to load accessibility data", zap.Error(loadErr))
		s.notifier.Notify("Error loading accessibility data: " + loadErr.Error())
		state = s.stateLocked()
		s.hub.Publish(EventOverlayToggled, state)
		return state, domain.NewUnavailableError("accessibility data unavailable", loadErr)
	}

	s.renderer.ShowOverlay(entries)
	s.logger.Info("overlay shown", zap.Int("markers", len(entries)))

	state = s.stateLocked()
	s.hub.Publish(EventOverlayToggled, state)
	return state, nil
}

// State implements OverlayStateReader.
func (s *OverlayService) State() OverlayStateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *OverlayService) stateLocked() OverlayStateDTO {
	return OverlayStateDTO{
		Visibility:                s.visibility,
		OverlayVisible:            s.visibility.IsShown(),
		LeftPanelVisible:          s.visibility.LeftPanelVisible(),
		AccessibilityPanelVisible: s.visibility.AccessibilityPanelVisible(),
		Loading:                   s.loading,
		Markers:                   s.renderer.OverlayCount(),
	}
}

// LoadDistribution computes the distribution chart once, independent of the toggle.
func (s *OverlayService) LoadDistribution(ctx context.Context) (err error) {
	defer s.notifier.Recover("Error updating accessibility chart", &err)

	entries, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load accessibility data for chart", zap.Error(err))
		s.notifier.Notify("Error updating accessibility chart: " + err.Error())
		return err
	}

	d := overlayDomain.NewDistribution(entries)

	s.mu.Lock()
	s.distribution = &d
	s.mu.Unlock()

	s.logger.Info("accessibility distribution loaded",
		zap.Int("scored", d.Total),
		zap.Int("unscored", d.Unscored),
	)
	return nil
}

// Distribution returns the chart, or an unloaded DTO before LoadDistribution succeeded.
func (s *OverlayService) Distribution() DistributionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.distribution == nil {
		return DistributionDTO{}
	}
	d := *s.distribution
	return DistributionDTO{
		Loaded:   true,
		Counts:   append([]overlayDomain.RangeCount(nil), d.Counts...),
		Total:    d.Total,
		Unscored: d.Unscored,
		Segments: d.Chart(),
	}
}
