package services

import (
	"context"
	"io"
	"sync"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/render"
	"temperature-matrix/internal/scales"
	"temperature-matrix/internal/view"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

// VisualizationService owns the drawn matrix scene and its view state.
// Events are handled one at a time; each returns the scene changes it
// caused so a remote viewer can apply them.
type VisualizationService struct {
	mu         sync.Mutex
	matrix     *models.Matrix
	layout     scales.Layout
	scene      *render.Scene
	controller *view.Controller
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// NewVisualizationService draws matrix and its legend on a fresh scene
func NewVisualizationService(matrix *models.Matrix, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *VisualizationService {
	layout := scales.DefaultLayout
	scene := render.NewScene(layout.Width, layout.Height)
	controller := view.NewController(scene, scales.NewTemperatureColorScale())

	view.NewMatrixView(scene, layout, controller).Draw(matrix)
	view.DrawLegend(scene, layout)
	scene.Flush()

	return &VisualizationService{
		matrix:     matrix,
		layout:     layout,
		scene:      scene,
		controller: controller,
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// Matrix returns the aggregated matrix being shown
func (s *VisualizationService) Matrix() *models.Matrix {
	return s.matrix
}

// Layout returns the canvas the matrix is drawn on
func (s *VisualizationService) Layout() scales.Layout {
	return s.layout
}

// State returns the metric currently shown and the number of toggles so far
func (s *VisualizationService) State() (view.Metric, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.State(), s.controller.Toggles()
}

// HandleEvent dispatches a pointer event to the shape it targets.
// Events for shapes without a matching handler fail with
// *render.UnknownTargetError and leave the scene untouched.
func (s *VisualizationService) HandleEvent(ctx context.Context, ev render.Event) ([]render.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.controller.Toggles()
	if err := s.scene.Dispatch(ev); err != nil {
		s.metrics.RecordViewEvent("unknown")
		s.logger.Warn(ctx, "[VIEW_EVENT_REJECTED] Event has no handler", logging.Fields{
			"event_type": ev.Type,
			"target":     ev.Target,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.metrics.RecordViewEvent(string(ev.Type))
	if s.controller.Toggles() != before {
		s.metrics.ViewTogglesTotal.Inc()
		s.logger.Info(ctx, "[VIEW_TOGGLE] Metric toggled", logging.Fields{
			"metric":  s.controller.State().String(),
			"toggles": s.controller.Toggles(),
		})
	}

	changes := s.scene.Flush()
	s.logger.Debug(ctx, "[VIEW_EVENT] Event handled", logging.Fields{
		"event_type": ev.Type,
		"target":     ev.Target,
		"changes":    len(changes),
	})
	return changes, nil
}

// Toggle flips the metric directly, as a click on any cell would
func (s *VisualizationService) Toggle(ctx context.Context) []render.Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controller.Toggle()
	s.metrics.ViewTogglesTotal.Inc()
	s.logger.Info(ctx, "[VIEW_TOGGLE] Metric toggled", logging.Fields{
		"metric":  s.controller.State().String(),
		"toggles": s.controller.Toggles(),
	})
	return s.scene.Flush()
}

// WriteSVG writes the scene in its current state
func (s *VisualizationService) WriteSVG(ctx context.Context, w io.Writer) error {
	timer := s.metrics.NewTimer(s.metrics.RenderDuration)

	s.mu.Lock()
	doc := s.scene.String()
	s.mu.Unlock()

	timer.ObserveDuration()
	_, err := io.WriteString(w, doc)
	return err
}
