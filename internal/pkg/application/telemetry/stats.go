package telemetry

import (
	"math"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/samber/lo"
)

const DefaultChartWindow int = 13

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

type MotionStats struct {
	MaxMagnitude float64 `json:"maxMagnitude"`
}

type Stats struct {
	Temperature Range       `json:"temperature"`
	Light       Range       `json:"light"`
	Motion      MotionStats `json:"motion"`
}

// CalculateStats summarises readings. An empty input yields zero values.
func CalculateStats(readings []types.SensorReading) Stats {
	stats := Stats{}

	if len(readings) == 0 {
		return stats
	}

	stats.Temperature = Range{Min: math.Inf(1), Max: math.Inf(-1)}
	stats.Light = Range{Min: math.Inf(1), Max: math.Inf(-1)}

	for _, r := range readings {
		light := float64(r.Light)

		stats.Temperature.Min = math.Min(stats.Temperature.Min, r.Temperature)
		stats.Temperature.Max = math.Max(stats.Temperature.Max, r.Temperature)
		stats.Temperature.Avg += r.Temperature

		stats.Light.Min = math.Min(stats.Light.Min, light)
		stats.Light.Max = math.Max(stats.Light.Max, light)
		stats.Light.Avg += light

		stats.Motion.MaxMagnitude = math.Max(stats.Motion.MaxMagnitude, r.Motion.Magnitude())
	}

	count := float64(len(readings))
	stats.Temperature.Avg /= count
	stats.Light.Avg /= count

	return stats
}

type ChartPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	Temperature     float64   `json:"temperature"`
	Light           int       `json:"light"`
	MotionMagnitude float64   `json:"motionMagnitude"`
}

// ChartPoints maps the last window readings to chart points, oldest first.
func ChartPoints(readings []types.SensorReading, window int) []ChartPoint {
	if window > 0 && len(readings) > window {
		readings = readings[len(readings)-window:]
	}

	return lo.Map(readings, func(r types.SensorReading, _ int) ChartPoint {
		return ChartPoint{
			Timestamp:       r.Timestamp,
			Temperature:     r.Temperature,
			Light:           r.Light,
			MotionMagnitude: round(r.Motion.Magnitude(), 3),
		}
	})
}

type CompressedReading struct {
	T  time.Time    `json:"t"`
	M  types.Motion `json:"m"`
	L  int          `json:"l"`
	TP float64      `json:"tp"`
}

func Compress(readings []types.SensorReading) []CompressedReading {
	return lo.Map(readings, func(r types.SensorReading, _ int) CompressedReading {
		return CompressedReading{
			T: r.Timestamp,
			M: types.Motion{
				X: round(r.Motion.X, 3),
				Y: round(r.Motion.Y, 3),
				Z: round(r.Motion.Z, 3),
			},
			L:  r.Light,
			TP: round(r.Temperature, 1),
		}
	})
}

func Decompress(compressed []CompressedReading) []types.SensorReading {
	return lo.Map(compressed, func(c CompressedReading, _ int) types.SensorReading {
		return types.SensorReading{
			Motion:      c.M,
			Light:       c.L,
			Temperature: c.TP,
			Timestamp:   c.T,
		}
	})
}

type Timespan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ReportMetadata struct {
	DataPoints int      `json:"dataPoints"`
	Timespan   Timespan `json:"timespan"`
}

// FinalReport is the snapshot stored for a device right before it destroys itself.
type FinalReport struct {
	DeviceID  string              `json:"deviceId"`
	Timestamp time.Time           `json:"timestamp"`
	AlertInfo any                 `json:"alertInfo,omitempty"`
	Stats     Stats               `json:"stats"`
	RawData   []CompressedReading `json:"rawData"`
	Metadata  ReportMetadata      `json:"metadata"`
}

func NewFinalReport(deviceID string, readings []types.SensorReading, alertInfo any, now time.Time) FinalReport {
	report := FinalReport{
		DeviceID:  deviceID,
		Timestamp: now.UTC(),
		AlertInfo: alertInfo,
		Stats:     CalculateStats(readings),
		RawData:   Compress(readings),
		Metadata: ReportMetadata{
			DataPoints: len(readings),
		},
	}

	if len(readings) > 0 {
		report.Metadata.Timespan = Timespan{
			Start: readings[0].Timestamp,
			End:   readings[len(readings)-1].Timestamp,
		}
	}

	return report
}
