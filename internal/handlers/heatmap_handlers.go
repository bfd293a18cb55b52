package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/render"
	"temperature-matrix/internal/services"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

// RequestIDHeader carries the request ID in and out of the server
const RequestIDHeader = "X-Request-ID"

// maxEventBody bounds the size of a posted event
const maxEventBody = 4 << 10

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HeatmapHandler serves the matrix page, its SVG and the view API
type HeatmapHandler struct {
	viz     *services.VisualizationService
	db      HealthChecker
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewHeatmapHandler creates a new heatmap handler. db may be nil when the
// dataset does not come from a database.
func NewHeatmapHandler(
	viz *services.VisualizationService,
	db HealthChecker,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *HeatmapHandler {
	return &HeatmapHandler{
		viz:     viz,
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// MatrixResponse is the JSON form of the aggregated matrix
type MatrixResponse struct {
	Years  []int          `json:"years"`
	Months []string       `json:"months"`
	Cells  []CellResponse `json:"cells"`
}

// CellResponse is one (year, month) entry
type CellResponse struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	MaxOfMonth float64       `json:"max_of_month"`
	MinOfMonth float64       `json:"min_of_month"`
	Days       []DayResponse `json:"days"`
}

// DayResponse is one daily observation
type DayResponse struct {
	Date           string  `json:"date"`
	MaxTemperature float64 `json:"max_temperature"`
	MinTemperature float64 `json:"min_temperature"`
}

// ViewResponse describes the current view state
type ViewResponse struct {
	Metric  string `json:"metric"`
	Toggles int    `json:"toggles"`
}

// EventRequest is a pointer event posted by the page
type EventRequest struct {
	Type   string  `json:"type"`
	Target string  `json:"target"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// EventResponse carries the scene changes caused by an event
type EventResponse struct {
	Changes []render.Change `json:"changes"`
	View    ViewResponse    `json:"view"`
}

// Index handles GET /
func (h *HeatmapHandler) Index(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer h.observe("/", startTime)

	var svg bytes.Buffer
	if err := h.viz.WriteSVG(r.Context(), &svg); err != nil {
		h.logger.Error(r.Context(), "[API_INDEX_ERROR] Failed to render matrix", logging.Fields{}, err)
		h.metrics.RecordAPIError("render_error", "/")
		h.sendError(w, r, "failed to render matrix", http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title string
		SVG   template.HTML
	}{
		Title: "Monthly Temperature Matrix",
		SVG:   template.HTML(svg.String()),
	})
	if err != nil {
		h.logger.Error(r.Context(), "[API_INDEX_ERROR] Failed to render page", logging.Fields{}, err)
		h.metrics.RecordAPIError("render_error", "/")
		h.sendError(w, r, "failed to render page", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/", "GET", "200")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page.Bytes())
}

// GetSVG handles GET /heatmap.svg
func (h *HeatmapHandler) GetSVG(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer h.observe("/heatmap.svg", startTime)

	var svg bytes.Buffer
	if err := h.viz.WriteSVG(r.Context(), &svg); err != nil {
		h.logger.Error(r.Context(), "[API_SVG_ERROR] Failed to render matrix", logging.Fields{}, err)
		h.metrics.RecordAPIError("render_error", "/heatmap.svg")
		h.sendError(w, r, "failed to render matrix", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/heatmap.svg", "GET", "200")
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg.Bytes())
}

// GetMatrix handles GET /api/matrix
func (h *HeatmapHandler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer h.observe("/api/matrix", startTime)

	m := h.viz.Matrix()
	response := MatrixResponse{
		Years:  m.Years(),
		Months: models.MonthNames[:],
		Cells:  make([]CellResponse, 0, m.Len()),
	}
	for _, e := range m.Entries() {
		cell := CellResponse{
			Year:       e.Year,
			Month:      e.Month,
			MaxOfMonth: e.MaxOfMonth,
			MinOfMonth: e.MinOfMonth,
			Days:       make([]DayResponse, len(e.Daily)),
		}
		for i, d := range e.Daily {
			cell.Days[i] = DayResponse{
				Date:           d.Date.Format(models.DateLayout),
				MaxTemperature: d.MaxTemp,
				MinTemperature: d.MinTemp,
			}
		}
		response.Cells = append(response.Cells, cell)
	}

	h.metrics.RecordAPIRequest("/api/matrix", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetView handles GET /api/view
func (h *HeatmapHandler) GetView(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer h.observe("/api/view", startTime)

	h.metrics.RecordAPIRequest("/api/view", "GET", "200")
	h.sendJSON(w, h.viewState(), http.StatusOK)
}

// PostEvent handles POST /api/view/events
func (h *HeatmapHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	defer h.observe("/api/view/events", startTime)

	var req EventRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.metrics.RecordAPIError("bad_request", "/api/view/events")
		h.sendError(w, r, "invalid event body: "+err.Error(), http.StatusBadRequest)
		return
	}

	eventType, err := render.ParseEventType(req.Type)
	if err != nil {
		h.metrics.RecordAPIError("bad_request", "/api/view/events")
		h.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	changes, err := h.viz.HandleEvent(ctx, render.Event{
		Type:   eventType,
		Target: render.ShapeID(req.Target),
		X:      req.X,
		Y:      req.Y,
	})
	if err != nil {
		var unknown *render.UnknownTargetError
		if errors.As(err, &unknown) {
			h.metrics.RecordAPIError("unknown_target", "/api/view/events")
			h.sendError(w, r, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "[API_EVENT_ERROR] Failed to handle event", logging.Fields{
			"event_type": req.Type,
			"target":     req.Target,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/view/events")
		h.sendError(w, r, "failed to handle event", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/view/events", "POST", "200")
	h.sendJSON(w, EventResponse{Changes: changes, View: h.viewState()}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *HeatmapHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	defer h.observe("/health", startTime)

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			h.logger.Error(ctx, "[HEALTH_CHECK_FAILED] Database unreachable", logging.Fields{}, err)
			h.metrics.RecordAPIError("db_unhealthy", "/health")
			h.sendError(w, r, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}

	status := map[string]interface{}{
		"status":    "healthy",
		"cells":     h.viz.Matrix().Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.metrics.RecordAPIRequest("/health", "GET", "200")
	h.sendJSON(w, status, http.StatusOK)
}

func (h *HeatmapHandler) viewState() ViewResponse {
	metric, toggles := h.viz.State()
	return ViewResponse{Metric: metric.String(), Toggles: toggles}
}

func (h *HeatmapHandler) observe(endpoint string, startTime time.Time) {
	h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
}

// sendJSON sends a JSON response
func (h *HeatmapHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *HeatmapHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Code:      statusCode,
		RequestID: logging.RequestID(r.Context()),
	}

	h.sendJSON(w, response, statusCode)
}

// RequestIDMiddleware tags every request with an ID, reusing the caller's
// X-Request-ID when present, and logs the completed request.
func (h *HeatmapHandler) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.WithRequestID(r.Context(), requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		startTime := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		h.logger.Debug(ctx, "[API_REQUEST] Request served", logging.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(startTime).Milliseconds(),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RegisterRoutes registers all heatmap routes
func (h *HeatmapHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.RequestIDMiddleware)

	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/heatmap.svg", h.GetSVG).Methods("GET")
	router.HandleFunc("/api/matrix", h.GetMatrix).Methods("GET")
	router.HandleFunc("/api/view", h.GetView).Methods("GET")
	router.HandleFunc("/api/view/events", h.PostEvent).Methods("POST")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: sans-serif; margin: 24px; color: #222; }
        #matrix rect.cell-bg { cursor: pointer; }
        .hint { color: #666; font-size: 13px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p class="hint">Click any cell to switch between monthly maximum and minimum temperatures.</p>
    <div id="matrix">{{.SVG}}</div>
    <script>
    (function () {
        var svg = document.querySelector("#matrix svg");
        var queue = Promise.resolve();

        function position(ev) {
            var p = svg.createSVGPoint();
            p.x = ev.clientX;
            p.y = ev.clientY;
            var q = p.matrixTransform(svg.getScreenCTM().inverse());
            return { x: q.x, y: q.y };
        }

        function apply(changes) {
            changes.forEach(function (c) {
                var el = document.getElementById(c.target);
                if (!el) { return; }
                switch (c.op) {
                case "fill":
                    el.style.transition = "fill " + (c.duration_ms || 0) + "ms ease-in-out";
                    el.style.fill = c.fill;
                    break;
                case "visibility":
                    if (c.visible) { el.removeAttribute("display"); } else { el.setAttribute("display", "none"); }
                    break;
                case "text":
                    el.textContent = c.text || "";
                    break;
                case "move":
                    el.setAttribute("x", c.x || 0);
                    el.setAttribute("y", c.y || 0);
                    break;
                }
            });
        }

        function send(type, target, ev) {
            var body = JSON.stringify(Object.assign({ type: type, target: target }, position(ev)));
            queue = queue.then(function () {
                return fetch("/api/view/events", {
                    method: "POST",
                    headers: { "Content-Type": "application/json" },
                    body: body
                });
            }).then(function (res) {
                return res.ok ? res.json() : null;
            }).then(function (res) {
                if (res) { apply(res.changes); }
            }).catch(function () {});
        }

        svg.querySelectorAll("[data-events]").forEach(function (el) {
            el.getAttribute("data-events").split(" ").forEach(function (type) {
                el.addEventListener(type, function (ev) { send(type, el.id, ev); });
            });
        });
    })();
    </script>
</body>
</html>`
