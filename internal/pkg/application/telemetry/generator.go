package telemetry

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
)

//go:generate moq -rm -out generator_mock.go . Generator

type Generator interface {
	Next(now time.Time) types.SensorReading
}

// RandomGenerator draws independent uniform readings: motion axes in [-1, 1],
// light in [0, 1000) and temperature in [10, 40].
type RandomGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

func (g *RandomGenerator) Next(now time.Time) types.SensorReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	return types.SensorReading{
		Motion: types.Motion{
			X: round(g.rnd.Float64()*2-1, 2),
			Y: round(g.rnd.Float64()*2-1, 2),
			Z: round(g.rnd.Float64()*2-1, 2),
		},
		Light:       g.rnd.Intn(1000),
		Temperature: round(10+g.rnd.Float64()*30, 2),
		Timestamp:   now,
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
