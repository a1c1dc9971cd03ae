package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/internal/telemetry/metrics"
	"github.com/2beens/healthtracker/internal/telemetry/tracing"
	"github.com/2beens/healthtracker/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	InputErrorMessage  = "Please enter valid numeric values."
	InitialSummary     = "Enter your data to see the summary"
	LastUpdatedPrefix  = "Last Updated: "
	LastUpdatedUnknown = "N/A"
	TimestampLayout    = "2006-01-02 15:04:05"
)

// InputError is returned by OnSubmit when a raw field is not numeric.
// Its message is the one shown to the user; the cause stays reachable via errors.As.
type InputError struct {
	Cause error
}

func (e *InputError) Error() string {
	return InputErrorMessage
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// Result of one accepted submission.
type Result struct {
	Record      history.DailyRecord `json:"record"`
	Summary     string              `json:"summary"`
	LastUpdated string              `json:"lastUpdated"`
	Charts      charts.Set          `json:"charts"`
	Version     int                 `json:"version"`
}

// Snapshot is a consistent view of the session state, safe to hand out.
type Snapshot struct {
	Records     []history.DailyRecord `json:"records"`
	Summary     string                `json:"summary"`
	LastUpdated string                `json:"lastUpdated"`
	Charts      charts.Set            `json:"charts"`
	Version     int                   `json:"version"`
}

// Session is the submit event boundary. Events are processed one at a time:
// validate, merge into history, derive charts.
type Session struct {
	mu          sync.Mutex
	history     *history.History
	metrics     *metrics.Manager
	now         func() time.Time
	version     int
	summary     string
	lastUpdated string
	charts      charts.Set
}

// NewSession creates an empty session. A nil clock means time.Now.
func NewSession(policy history.Policy, metricsManager *metrics.Manager, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		history: history.New(policy),
		metrics: metricsManager,
		now:     now,
		summary: InitialSummary,
		charts:  charts.Derive(nil),
	}
}

func (s *Session) OnSubmit(ctx context.Context, in history.RawInput) (_ *Result, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "session.submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.history.SubmitRaw(in)
	if err != nil {
		log.Debugf("submission rejected: %s", err)
		s.countSubmission(metrics.SubmitResultInvalid)
		return nil, &InputError{Cause: err}
	}

	s.version++
	s.summary = FormatSummary(record)
	s.lastUpdated = s.now().Format(TimestampLayout)
	s.charts = charts.Derive(s.history.Records())

	s.countSubmission(metrics.SubmitResultOK)
	if s.metrics != nil {
		s.metrics.GaugeHistoryLength.Set(float64(s.history.Len()))
	}
	span.SetAttributes(
		attribute.String("record.day", record.Day),
		attribute.Int("history.len", s.history.Len()),
		attribute.Int("session.version", s.version),
	)

	log.Tracef("submission accepted: %s, steps %d, bmi %s", record.Day, record.Steps, pkg.FormatFloat(record.BMI))

	return &Result{
		Record:      record,
		Summary:     s.summary,
		LastUpdated: s.lastUpdated,
		Charts:      s.charts,
		Version:     s.version,
	}, nil
}

func (s *Session) countSubmission(result string) {
	if s.metrics != nil {
		s.metrics.CounterSubmissions.WithLabelValues(result).Inc()
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Records:     s.history.Records(),
		Summary:     s.summary,
		LastUpdated: LastUpdatedText(s.lastUpdated),
		Charts:      s.charts,
		Version:     s.version,
	}
}

func (s *Session) Policy() history.Policy {
	return s.history.Policy()
}

// FormatSummary renders the four line summary of a record.
// Real values always carry a decimal part, a BMI skipped for bad height prints as plain 0.
func FormatSummary(r history.DailyRecord) string {
	bmi := pkg.FormatReal(r.BMI)
	if r.NoBMI {
		bmi = "0"
	}
	return fmt.Sprintf(
		"Steps: %d\nWater: %s L\nSleep: %s hrs\nBMI: %s",
		r.Steps,
		pkg.FormatReal(r.Water),
		pkg.FormatReal(r.Sleep),
		bmi,
	)
}

// LastUpdatedText prefixes the timestamp for display; empty means never updated.
func LastUpdatedText(timestamp string) string {
	if timestamp == "" {
		return LastUpdatedPrefix + LastUpdatedUnknown
	}
	return LastUpdatedPrefix + timestamp
}
