package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/bridge"
	routeDomain "github.com/route-planner/service-planner/internal/domain/route"
	"github.com/route-planner/service-planner/internal/platform/domain"
	"github.com/route-planner/service-planner/internal/postal"
	"github.com/route-planner/service-planner/internal/render"
)

// User-facing messages.
const (
	msgMissingPostal  = "Please enter both from and to postal codes."
	msgInvalidPostal  = "Invalid postal codes. Please try again."
	msgDispatchFailed = "No route found with this range. Please try again."
	msgNegativeRange  = "Range must not be negative."
)

// DefaultRange is the initial value of the range control.
const DefaultRange = 500

// OverlayStateReader reports the overlay state for snapshots.
type OverlayStateReader interface {
	State() OverlayStateDTO
}

// PlannerOptions holds the optional collaborators of the planner.
type PlannerOptions struct {
	// Directory validates postal codes before dispatch. Nil accepts every non-empty code.
	Directory postal.Directory
	// Overlay is included in snapshots when set.
	Overlay OverlayStateReader
	// DispatchTimeout bounds a single call-out. Zero means no timeout.
	DispatchTimeout time.Duration
}

// PlannerService is the application service owning the planner form, the
// route list selection and the drawn route.
type PlannerService struct {
	mu             sync.Mutex
	form           FormDTO
	activeID       int
	detailsVisible bool

	routes     routeDomain.Repository
	renderer   *render.Map
	dispatcher bridge.Dispatcher
	notifier   *NotificationService
	hub        *EventHub
	opts       PlannerOptions
	logger     *zap.Logger
}

// NewPlannerService creates a new PlannerService with the form set to walking.
func NewPlannerService(
	routes routeDomain.Repository,
	renderer *render.Map,
	dispatcher bridge.Dispatcher,
	notifier *NotificationService,
	hub *EventHub,
	opts PlannerOptions,
	logger *zap.Logger,
) *PlannerService {
	return &PlannerService{
		form: FormDTO{
			Mode:         routeDomain.ModeFoot,
			Range:        DefaultRange,
			RangeEnabled: routeDomain.ModeFoot.SupportsRange(),
		},
		routes:     routes,
		renderer:   renderer,
		dispatcher: dispatcher,
		notifier:   notifier,
		hub:        hub,
		opts:       opts,
		logger:     logger,
	}
}

// SelectMode sets the transport mode. The range control is enabled only for
// modes that take a range.
func (s *PlannerService) SelectMode(_ context.Context, mode string) (form FormDTO, err error) {
	defer s.notifier.Recover("Error selecting mode", &err)

	m, err := routeDomain.ParseMode(mode)
	if err != nil {
		s.notifier.Notify("Error selecting mode: " + err.Error())
		return FormDTO{}, domain.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Mode = m
	s.form.RangeEnabled = m.SupportsRange()
	return s.form, nil
}

// UpdateInputs changes the postal code fields and the range.
func (s *PlannerService) UpdateInputs(_ context.Context, req UpdateInputsRequest) (form FormDTO, err error) {
	defer s.notifier.Recover("Error updating inputs", &err)

	if err := s.checkRange(req.Range); err != nil {
		return FormDTO{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.From != nil {
		s.form.From = *req.From
	}
	if req.To != nil {
		s.form.To = *req.To
	}
	if req.Range != nil {
		s.form.Range = *req.Range
	}
	return s.form, nil
}

// SwapInputs exchanges the from and to postal codes.
func (s *PlannerService) SwapInputs(_ context.Context) (form FormDTO, err error) {
	defer s.notifier.Recover("Error swapping inputs", &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.From, s.form.To = s.form.To, s.form.From
	return s.form, nil
}

// Form returns the current form.
func (s *PlannerService) Form() FormDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// PlanRoute validates the form and forwards a route request to the backend.
// The route itself arrives later through ReceiveRouteDetails.
func (s *PlannerService) PlanRoute(ctx context.Context, override *PlanRouteRequest) (req *bridge.RouteRequest, err error) {
	defer s.notifier.Recover("Error planning route", &err)

	form, err := s.applyOverride(override)
	if err != nil {
		return nil, err
	}

	from, to := strings.TrimSpace(form.From), strings.TrimSpace(form.To)
	if from == "" || to == "" {
		s.notifier.Notify(msgMissingPostal)
		return nil, domain.NewValidationError("both from and to postal codes are required")
	}

	if err := s.checkPostalCodes(ctx, from, to); err != nil {
		return nil, err
	}

	request := bridge.NewRouteRequest(from, to, form.Mode, form.Range)

	dispatchCtx := ctx
	if s.opts.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, s.opts.DispatchTimeout)
		defer cancel()
	}

	if err := s.dispatcher.Dispatch(dispatchCtx, request); err != nil {
		s.logger.Error("failed to dispatch route request",
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
		s.notifier.Notify(msgDispatchFailed)
		return nil, domain.NewUnavailableError("route request could not be dispatched", err)
	}

	s.logger.Info("route requested",
		zap.String("request_id", request.RequestID),
		zap.String("origin", request.Origin),
		zap.String("destination", request.Destination),
		zap.String("mode", request.Mode.String()),
	)
	return &request, nil
}

func (s *PlannerService) applyOverride(override *PlanRouteRequest) (FormDTO, error) {
	if override == nil {
		return s.Form(), nil
	}

	var mode routeDomain.Mode
	if override.Mode != nil {
		m, err := routeDomain.ParseMode(*override.Mode)
		if err != nil {
			s.notifier.Notify("Error selecting mode: " + err.Error())
			return FormDTO{}, domain.NewValidationError(err.Error())
		}
		mode = m
	}

	if err := s.checkRange(override.Range); err != nil {
		return FormDTO{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if override.From != nil {
		s.form.From = *override.From
	}
	if override.To != nil {
		s.form.To = *override.To
	}
	if override.Range != nil {
		s.form.Range = *override.Range
	}
	if mode != "" {
		s.form.Mode = mode
		s.form.RangeEnabled = mode.SupportsRange()
	}
	return s.form, nil
}

func (s *PlannerService) checkRange(searchRange *int) error {
	if searchRange != nil && *searchRange < 0 {
		s.notifier.Notify(msgNegativeRange)
		return domain.NewValidationError("range must not be negative")
	}
	return nil
}

func (s *PlannerService) checkPostalCodes(ctx context.Context, codes ...string) error {
	if s.opts.Directory == nil {
		return nil
	}
	for _, code := range codes {
		if _, err := s.opts.Directory.Lookup(ctx, code); err != nil {
			if domain.IsNotFound(err) {
				s.notifier.Notify(msgInvalidPostal)
				return domain.NewValidationError(fmt.Sprintf("unknown postal code: %s", code))
			}
			s.notifier.Notify("Error looking up postal codes: " + err.Error())
			return domain.NewUnavailableError("postal directory unavailable", err)
		}
	}
	return nil
}

// ReceiveRouteDetails accepts a route-details payload from the backend. The
// new route is appended, the postal fields are cleared and the route becomes
// the active selection.
func (s *PlannerService) ReceiveRouteDetails(ctx context.Context, payload string) (dto *RouteDTO, err error) {
	defer s.notifier.Recover("Error parsing JSON response", &err)

	r, err := bridge.DecodeRouteDetails(payload)
	if err != nil {
		s.notifier.Notify("Error parsing JSON response: " + err.Error())
		return nil, domain.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.routes.Append(ctx, r)
	if err != nil {
		s.notifier.Notify("Error parsing JSON response: " + err.Error())
		return nil, fmt.Errorf("failed to store route: %w", err)
	}

	s.logger.Info("route received",
		zap.Int("route_id", stored.ID()),
		zap.String("mode", stored.Mode().String()),
		zap.Int("coordinates", len(stored.Coordinates())),
	)

	s.form.From = ""
	s.form.To = ""
	s.showLocked(stored)
	s.publishRoutesLocked(ctx)

	result := toRouteDTO(stored, s.activeID)
	return &result, nil
}

// ShowRoute makes the route active, fills the detail panel and draws it.
// An unknown id is ignored.
func (s *PlannerService) ShowRoute(ctx context.Context, id int) (panel DetailPanelDTO, err error) {
	defer s.notifier.Recover("Error showing route details", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.routes.FindByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return s.detailsLocked(ctx), nil
		}
		s.notifier.Notify("Error showing route details: " + err.Error())
		return DetailPanelDTO{}, err
	}

	s.showLocked(r)
	return toDetailPanelDTO(r), nil
}

// showLocked selects r and redraws the map. A drawing failure leaves the
// previous layers on the map.
func (s *PlannerService) showLocked(r *routeDomain.Route) {
	s.activeID = r.ID()
	s.detailsVisible = true

	if err := s.renderer.DrawRoute(r); err != nil {
		s.logger.Warn("failed to draw route", zap.Int("route_id", r.ID()), zap.Error(err))
		s.notifier.Notify("Error drawing route on map: " + err.Error())
	}

	s.hub.Publish(EventRouteSelected, toDetailPanelDTO(r))
}

// DeleteRoute removes a route. When the active route is deleted the first
// remaining route is shown, or the detail panel is hidden if none remain.
func (s *PlannerService) DeleteRoute(ctx context.Context, id int) (err error) {
	defer s.notifier.Recover("Error deleting route", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.routes.Remove(ctx, id)
	if err != nil {
		s.notifier.Notify("Error deleting route: " + err.Error())
		return err
	}
	if !removed {
		return nil
	}

	s.logger.Info("route deleted", zap.Int("route_id", id))
	defer s.publishRoutesLocked(ctx)

	if id != s.activeID {
		return nil
	}

	s.renderer.Clear()
	s.activeID = 0

	remaining, err := s.routes.List(ctx)
	if err != nil {
		s.notifier.Notify("Error deleting route: " + err.Error())
		return err
	}
	if len(remaining) == 0 {
		s.detailsVisible = false
		s.hub.Publish(EventRouteSelected, DetailPanelDTO{})
		return nil
	}

	s.showLocked(remaining[0])
	return nil
}

// ListRoutes returns the route list in insertion order.
func (s *PlannerService) ListRoutes(ctx context.Context) ([]RouteDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(ctx)
}

// Snapshot returns the complete UI state.
func (s *PlannerService) Snapshot(ctx context.Context) (*PlannerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	routes, err := s.listLocked(ctx)
	if err != nil {
		return nil, err
	}

	snap := &PlannerSnapshot{
		Form:          s.form,
		Routes:        routes,
		ActiveRouteID: s.activeID,
		Details:       s.detailsLocked(ctx),
		Map:           s.renderer.Snapshot(),
		Notifications: s.notifier.Active(),
	}
	if s.opts.Overlay != nil {
		snap.Overlay = s.opts.Overlay.State()
	}
	return snap, nil
}

func (s *PlannerService) listLocked(ctx context.Context) ([]RouteDTO, error) {
	routes, err := s.routes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RouteDTO, len(routes))
	for i, r := range routes {
		out[i] = toRouteDTO(r, s.activeID)
	}
	return out, nil
}

func (s *PlannerService) detailsLocked(ctx context.Context) DetailPanelDTO {
	if !s.detailsVisible || s.activeID == 0 {
		return DetailPanelDTO{}
	}
	r, err := s.routes.FindByID(ctx, s.activeID)
	if err != nil {
		return DetailPanelDTO{}
	}
	return toDetailPanelDTO(r)
}

func (s *PlannerService) publishRoutesLocked(ctx context.Context) {
	routes, err := s.listLocked(ctx)
	if err != nil {
		s.logger.Error("failed to list routes for update event", zap.Error(err))
		return
	}
	s.hub.Publish(EventRoutesUpdated, routes)
}
