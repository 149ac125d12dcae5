package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/matryer/is"
)

func TestRandomReadingsStayWithinNominalRanges(t *testing.T) {
	is := is.New(t)

	g := NewRandomGenerator(42)
	now := time.Now()

	for i := 0; i < 5000; i++ {
		r := g.Next(now)

		for _, v := range []float64{r.Motion.X, r.Motion.Y, r.Motion.Z} {
			is.True(v >= -1 && v <= 1)
			is.Equal(v, round(v, 2))
		}

		is.True(r.Light >= 0 && r.Light < 1000)
		is.True(r.Temperature >= 10 && r.Temperature <= 40)
		is.Equal(r.Temperature, round(r.Temperature, 2))
		is.Equal(r.Timestamp, now)
	}
}

func TestHistoryIsBoundedAndKeepsMostRecent(t *testing.T) {
	is := is.New(t)

	const capacity = 5

	for _, ticks := range []int{0, 3, 5, 12} {
		h := NewHistory(capacity)

		for i := 0; i < ticks; i++ {
			h.Add(types.SensorReading{Light: i})
		}

		is.Equal(h.Len(), min(ticks, capacity))

		all := h.All()
		for i, r := range all {
			is.Equal(r.Light, ticks-len(all)+i)
		}
	}
}

func TestHistoryRecentReturnsCopy(t *testing.T) {
	is := is.New(t)

	h := NewHistory(3)
	h.Add(types.SensorReading{Light: 1})
	h.Add(types.SensorReading{Light: 2})

	recent := h.Recent(1)
	is.Equal(len(recent), 1)
	is.Equal(recent[0].Light, 2)

	recent[0].Light = 100
	is.Equal(h.All()[1].Light, 2)
}

func TestStatsOfEmptyInputAreZero(t *testing.T) {
	is := is.New(t)

	stats := CalculateStats(nil)
	is.Equal(stats, Stats{})

	_, err := json.Marshal(stats)
	is.NoErr(err)
}

func TestCalculateStats(t *testing.T) {
	is := is.New(t)

	stats := CalculateStats([]types.SensorReading{
		{Motion: types.Motion{X: 0.3, Y: 0.4}, Light: 100, Temperature: 20},
		{Motion: types.Motion{X: 0.6, Y: 0.8}, Light: 300, Temperature: 30},
	})

	is.Equal(stats.Temperature, Range{Min: 20, Max: 30, Avg: 25})
	is.Equal(stats.Light, Range{Min: 100, Max: 300, Avg: 200})
	is.Equal(round(stats.Motion.MaxMagnitude, 6), 1.0)
}

func TestChartPointsUseTheLastWindow(t *testing.T) {
	is := is.New(t)

	readings := []types.SensorReading{}
	for i := 0; i < 20; i++ {
		readings = append(readings, types.SensorReading{Light: i, Motion: types.Motion{Z: -0.5}})
	}

	points := ChartPoints(readings, DefaultChartWindow)
	is.Equal(len(points), DefaultChartWindow)
	is.Equal(points[0].Light, 7)
	is.Equal(points[12].Light, 19)
	is.Equal(points[0].MotionMagnitude, 0.5)
}

func TestFinalReport(t *testing.T) {
	is := is.New(t)

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	readings := []types.SensorReading{
		{Motion: types.Motion{X: 0.12345}, Light: 10, Temperature: 21.26, Timestamp: start},
		{Motion: types.Motion{Y: -0.9876}, Light: 20, Temperature: 22.04, Timestamp: start.Add(time.Second)},
	}

	report := NewFinalReport("device1", readings, map[string]string{"type": "tamper"}, start.Add(time.Minute))

	is.Equal(report.DeviceID, "device1")
	is.Equal(report.Metadata.DataPoints, 2)
	is.Equal(report.Metadata.Timespan, Timespan{Start: start, End: start.Add(time.Second)})
	is.Equal(report.RawData[0].M.X, 0.123)
	is.Equal(report.RawData[0].TP, 21.3)
	is.Equal(report.RawData[1].M.Y, -0.988)

	is.Equal(Decompress(report.RawData)[1].Light, 20)
}
