package dashboard

//go:generate mockgen -source=$GOFILE -destination=handler_mock.go -package=dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/internal/telemetry/metrics"
	"github.com/2beens/healthtracker/internal/telemetry/tracing"
	"github.com/2beens/healthtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const maxSubmitBodyBytes = 1 << 16

type Tracker interface {
	OnSubmit(ctx context.Context, in history.RawInput) (*Result, error)
	Snapshot() Snapshot
}

type Handler struct {
	tracker     Tracker
	renderCache *charts.RenderCache
	metrics     *metrics.Manager
}

func NewHandler(
	tracker Tracker,
	renderCache *charts.RenderCache,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		tracker:     tracker,
		renderCache: renderCache,
		metrics:     metrics,
	}
}

type summaryResponse struct {
	Summary     string `json:"summary"`
	LastUpdated string `json:"lastUpdated"`
	Version     int    `json:"version"`
}

type historyResponse struct {
	Records []history.DailyRecord `json:"records"`
	Version int                   `json:"version"`
}

type chartsResponse struct {
	charts.Set
	Version int `json:"version"`
}

func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.submit")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	in, err := readRawInput(w, r)
	if err != nil {
		log.Errorf("submit: read input: %s", err)
		span.RecordError(err)
		pkg.WriteJSONError(w, InputErrorMessage, http.StatusBadRequest)
		return
	}

	res, err := handler.tracker.OnSubmit(ctx, in)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			span.SetAttributes(attribute.Bool("submit.invalid", true))
			pkg.WriteJSONError(w, inputErr.Error(), http.StatusBadRequest)
			return
		}
		span.RecordError(err)
		log.Errorf("submit failed: %s", err)
		pkg.WriteJSONError(w, "submit failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("record.day", res.Record.Day))
	pkg.WriteJSON(w, res, http.StatusOK)
}

// readRawInput takes the five fields from a JSON body, or from the form otherwise.
func readRawInput(w http.ResponseWriter, r *http.Request) (history.RawInput, error) {
	var in history.RawInput
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, err
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return in, err
	}
	in.Steps = r.Form.Get("steps")
	in.Water = r.Form.Get("water")
	in.Sleep = r.Form.Get("sleep")
	in.Weight = r.Form.Get("weight")
	in.Height = r.Form.Get("height")
	return in, nil
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.summary")
	defer span.End()

	snap := handler.tracker.Snapshot()
	pkg.WriteJSON(w, summaryResponse{
		Summary:     snap.Summary,
		LastUpdated: snap.LastUpdated,
		Version:     snap.Version,
	}, http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.history")
	defer span.End()

	snap := handler.tracker.Snapshot()
	records := snap.Records
	if records == nil {
		records = []history.DailyRecord{}
	}
	span.SetAttributes(attribute.Int("history.len", len(records)))
	pkg.WriteJSON(w, historyResponse{Records: records, Version: snap.Version}, http.StatusOK)
}

func (handler *Handler) HandleCharts(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.charts")
	defer span.End()

	snap := handler.tracker.Snapshot()
	pkg.WriteJSON(w, chartsResponse{Set: snap.Charts, Version: snap.Version}, http.StatusOK)
}

func (handler *Handler) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.chart-png")
	defer span.End()

	slot := charts.Slot(strings.ToLower(mux.Vars(r)["slot"]))
	if !slot.IsValid() {
		http.Error(w, "unknown chart", http.StatusNotFound)
		return
	}
	span.SetAttributes(attribute.String("chart.slot", string(slot)))

	snap := handler.tracker.Snapshot()
	chart, ok := snap.Charts.Get(slot)
	if !ok {
		http.Error(w, "unknown chart", http.StatusNotFound)
		return
	}

	start := time.Now()
	pngBytes, cached, err := handler.renderCache.PNG(snap.Version, chart)
	if err != nil {
		span.RecordError(err)
		log.Errorf("render chart [%s]: %s", slot, err)
		http.Error(w, "render chart failed", http.StatusInternalServerError)
		return
	}

	if cached {
		handler.metrics.CounterChartCache.WithLabelValues("hit").Inc()
	} else {
		handler.metrics.CounterChartCache.WithLabelValues("miss").Inc()
		handler.metrics.HistChartRenderDuration.Observe(time.Since(start).Seconds())
	}
	span.SetAttributes(attribute.Bool("chart.cached", cached))

	w.Header().Set("Cache-Control", "no-cache")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.PNG, pngBytes)
}
