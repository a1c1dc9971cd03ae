package charts_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePNGSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestNewRenderer_Defaults(t *testing.T) {
	w, h := charts.NewRenderer(0, 10).Size()
	assert.Equal(t, charts.DefaultChartWidth, w)
	assert.Equal(t, charts.DefaultChartHeight, h)

	w, h = charts.NewRenderer(640, 480).Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestRenderer_RenderPNG_AllSlots(t *testing.T) {
	r := charts.NewRenderer(300, 200)

	testCases := []struct {
		name    string
		records []history.DailyRecord
	}{
		{name: "empty", records: nil},
		{name: "single record", records: []history.DailyRecord{
			{Day: "Day 1", Steps: 3000, Water: 1, Sleep: 6, BMI: 22.86},
		}},
		{name: "full week", records: []history.DailyRecord{
			{Day: "Day 1", Steps: 3000, Water: 1, Sleep: 6},
			{Day: "Day 2", Steps: 12000, Water: 3.5, Sleep: 9},
			{Day: "Day 3", Steps: 8000, Water: 2, Sleep: 7},
			{Day: "Day 4", Steps: 0, Water: 0, Sleep: 0},
			{Day: "Day 5", Steps: 5000, Water: 1.5, Sleep: 8},
			{Day: "Day 6", Steps: 7000, Water: 2.5, Sleep: 6.5},
			{Day: "Day 7", Steps: 9500, Water: 3, Sleep: 7.5},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := charts.Derive(tc.records)
			for _, c := range set.Charts {
				var buf bytes.Buffer
				require.NoError(t, r.RenderPNG(c, &buf), c.Slot)
				w, h := decodePNGSize(t, buf.Bytes())
				assert.Equal(t, 300, w, c.Slot)
				assert.Equal(t, 200, h, c.Slot)
			}
		})
	}
}

func TestRenderer_RenderPNG_BrokenChartFallsBackToPlaceholder(t *testing.T) {
	r := charts.NewRenderer(200, 150)

	var buf bytes.Buffer
	err := r.RenderPNG(charts.Chart{Slot: charts.SlotStepsTrend, Kind: charts.KindTrend}, &buf)
	require.NoError(t, err)
	w, h := decodePNGSize(t, buf.Bytes())
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)
}

func TestRenderer_RenderPNG_WriteError(t *testing.T) {
	r := charts.NewRenderer(200, 150)
	err := r.RenderPNG(charts.Chart{Slot: charts.SlotSleepGoal, Kind: charts.KindPlaceholder}, &failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write chart png")
}

type failingWriter struct{}

func (fw *failingWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRenderCache_PNG(t *testing.T) {
	rc := charts.NewRenderCache(32, charts.NewRenderer(200, 150))

	set := charts.Derive(nil)
	placeholder, ok := set.Get(charts.SlotWaterTrend)
	require.True(t, ok)

	first, cached, err := rc.PNG(0, placeholder)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotEmpty(t, first)

	second, cached, err := rc.PNG(0, placeholder)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), rc.EntryCount())

	// a new version is a new entry
	_, cached, err = rc.PNG(1, placeholder)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int64(2), rc.EntryCount())

	rc.Clear()
	assert.Equal(t, int64(0), rc.EntryCount())
}
