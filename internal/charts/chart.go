package charts

import (
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/pkg"
)

// Metric is one of the tracked daily values that gets charted.
type Metric string

const (
	MetricSteps Metric = "steps"
	MetricWater Metric = "water"
	MetricSleep Metric = "sleep"
)

func (m Metric) String() string {
	return string(m)
}

// metricSpec holds the fixed per-metric chart constants.
// Steps are counted, so only they format without a decimal part.
type metricSpec struct {
	goal     float64
	headroom float64
	label    string
	color    string
	title    string
	yLabel   string
	value    func(r history.DailyRecord) float64
	format   func(v float64) string
}

var metricSpecs = map[Metric]metricSpec{
	MetricSteps: {
		goal:     10000,
		headroom: 500,
		label:    "Steps",
		color:    "#4CAF50",
		title:    "Steps",
		yLabel:   "Steps",
		value:    func(r history.DailyRecord) float64 { return float64(r.Steps) },
		format:   pkg.FormatFloat,
	},
	MetricWater: {
		goal:     3,
		headroom: 0.5,
		label:    "Water (L)",
		color:    "#2196F3",
		title:    "Water Intake",
		yLabel:   "Liters",
		value:    func(r history.DailyRecord) float64 { return r.Water },
		format:   pkg.FormatReal,
	},
	MetricSleep: {
		goal:     8,
		headroom: 1,
		label:    "Sleep (hrs)",
		color:    "#FFC107",
		title:    "Sleep",
		yLabel:   "Hours",
		value:    func(r history.DailyRecord) float64 { return r.Sleep },
		format:   pkg.FormatReal,
	},
}

// Metrics in chart layout order.
var Metrics = []Metric{MetricSteps, MetricWater, MetricSleep}

// Goal returns the fixed daily target for the metric.
func Goal(m Metric) float64 {
	return metricSpecs[m].goal
}

// Headroom returns the margin added above the max value on a trend y axis.
func Headroom(m Metric) float64 {
	return metricSpecs[m].headroom
}

const (
	RemainingLabel = "Remaining"
	RemainingColor = "#f0f0f0"
	NoDataText     = "No Data"
	DaysAxisLabel  = "Days"
)

type Kind string

const (
	KindGauge       Kind = "gauge"
	KindTrend       Kind = "trend"
	KindPlaceholder Kind = "placeholder"
)

// Slot identifies one of the six chart positions.
type Slot string

const (
	SlotStepsGoal  Slot = "steps-goal"
	SlotWaterGoal  Slot = "water-goal"
	SlotSleepGoal  Slot = "sleep-goal"
	SlotStepsTrend Slot = "steps-trend"
	SlotWaterTrend Slot = "water-trend"
	SlotSleepTrend Slot = "sleep-trend"
)

// Slots in layout order: gauges on the first row, trends on the second.
var Slots = []Slot{
	SlotStepsGoal, SlotWaterGoal, SlotSleepGoal,
	SlotStepsTrend, SlotWaterTrend, SlotSleepTrend,
}

func (s Slot) IsValid() bool {
	for _, slot := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

func gaugeSlot(m Metric) Slot {
	return Slot(m.String() + "-goal")
}

func trendSlot(m Metric) Slot {
	return Slot(m.String() + "-trend")
}

// Segment is one part of a gauge ring.
type Segment struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// GaugeData partitions a goal into the achieved and the remaining part.
type GaugeData struct {
	Label     string  `json:"label"`
	Goal      float64 `json:"goal"`
	Achieved  Segment `json:"achieved"`
	Remaining Segment `json:"remaining"`
}

type Point struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// TrendData is a line series of one metric over the whole history.
type TrendData struct {
	Title  string  `json:"title"`
	Legend string  `json:"legend"`
	XLabel string  `json:"xLabel"`
	YLabel string  `json:"yLabel"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
	YMin   float64 `json:"yMin"`
	YMax   float64 `json:"yMax"`
}

// Chart is a render-ready descriptor of one slot. Exactly one of
// Gauge, Trend and Placeholder is set, depending on Kind.
type Chart struct {
	Slot        Slot       `json:"slot"`
	Kind        Kind       `json:"kind"`
	Gauge       *GaugeData `json:"gauge,omitempty"`
	Trend       *TrendData `json:"trend,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
}
