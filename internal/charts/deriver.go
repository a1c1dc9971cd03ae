package charts

import (
	"fmt"

	"github.com/2beens/healthtracker/internal/history"
)

// State of a derived chart set.
type State string

const (
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

// Set holds all six charts, in Slots order.
type Set struct {
	State  State   `json:"state"`
	Charts []Chart `json:"charts"`
}

// Get returns the chart for the given slot.
func (s Set) Get(slot Slot) (Chart, bool) {
	for _, c := range s.Charts {
		if c.Slot == slot {
			return c, true
		}
	}
	return Chart{}, false
}

// Gauge clamps value into [0, goal] and splits the goal into achieved and remaining parts.
// format renders the clamped value in the achieved label.
func Gauge(value, goal float64, label, color string, format func(float64) string) GaugeData {
	if value > goal {
		value = goal
	}
	if value < 0 {
		value = 0
	}
	return GaugeData{
		Label: label,
		Goal:  goal,
		Achieved: Segment{
			Label: fmt.Sprintf("%s: %s", label, format(value)),
			Value: value,
			Color: color,
		},
		Remaining: Segment{
			Label: RemainingLabel,
			Value: goal - value,
			Color: RemainingColor,
		},
	}
}

// MetricGauge builds the goal gauge for the metric value of the given record.
func MetricGauge(m Metric, rec history.DailyRecord) GaugeData {
	spec := metricSpecs[m]
	return Gauge(spec.value(rec), spec.goal, spec.label, spec.color, spec.format)
}

// Trend builds the line series of a metric over the records.
// Y axis goes from 0 to max value plus the metric headroom.
// Records must not be empty.
func Trend(m Metric, records []history.DailyRecord) TrendData {
	spec := metricSpecs[m]

	points := make([]Point, 0, len(records))
	maxValue := spec.value(records[0])
	for _, rec := range records {
		v := spec.value(rec)
		if v > maxValue {
			maxValue = v
		}
		points = append(points, Point{Day: rec.Day, Value: v})
	}

	return TrendData{
		Title:  spec.title,
		Legend: spec.label,
		XLabel: DaysAxisLabel,
		YLabel: spec.yLabel,
		Color:  spec.color,
		Points: points,
		YMin:   0,
		YMax:   maxValue + spec.headroom,
	}
}

// Derive rebuilds all charts from the records snapshot.
// No records yields the empty state with a placeholder in every slot.
func Derive(records []history.DailyRecord) Set {
	if len(records) == 0 {
		set := Set{
			State:  StateEmpty,
			Charts: make([]Chart, 0, len(Slots)),
		}
		for _, slot := range Slots {
			set.Charts = append(set.Charts, Chart{
				Slot:        slot,
				Kind:        KindPlaceholder,
				Placeholder: NoDataText,
			})
		}
		return set
	}

	latest := records[len(records)-1]
	set := Set{
		State:  StatePopulated,
		Charts: make([]Chart, 0, len(Slots)),
	}
	for _, m := range Metrics {
		gauge := MetricGauge(m, latest)
		set.Charts = append(set.Charts, Chart{
			Slot:  gaugeSlot(m),
			Kind:  KindGauge,
			Gauge: &gauge,
		})
	}
	for _, m := range Metrics {
		trend := Trend(m, records)
		set.Charts = append(set.Charts, Chart{
			Slot:  trendSlot(m),
			Kind:  KindTrend,
			Trend: &trend,
		})
	}

	return set
}
