package mocks

import (
	"math"
	"math/rand"

	"cloud.google.com/go/civil"
	"github.com/rxtech-lab/fedfunds/internal/types"
)

// DataGenerator generates realistic monthly rate series for testing.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how a series is generated.
type GeneratorConfig struct {
	// Name is the series name (e.g. "FEDFUNDS")
	Name string
	// Start is the date of the first observation; later observations fall on the same day of each following month
	Start civil.Date
	// Count is the number of monthly observations to generate
	Count int
	// InitialRate is the first value, in percent
	InitialRate float64
	// Volatility is the standard deviation of the monthly change, in percentage points
	Volatility float64
	// Trend is the total drift over the whole series, in percentage points
	Trend float64
	// MissingRate is the probability (0.0 to 1.0) that an observation is published as a gap
	MissingRate float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Name:        "FEDFUNDS",
		Start:       civil.Date{Year: 1990, Month: 1, Day: 1},
		Count:       120,
		InitialRate: 5.0,
		Volatility:  0.15,
		Trend:       0.0,
		MissingRate: 0.0,
	}
}

// Generate creates a monthly series based on the configuration.
// Values follow a random walk floored at zero and rounded to two decimals, like published FRED rates.
func (g *DataGenerator) Generate(config GeneratorConfig) types.Series {
	observations := make([]types.Observation, config.Count)
	rate := config.InitialRate
	date := config.Start

	for i := 0; i < config.Count; i++ {
		if g.rng.Float64() < config.MissingRate {
			observations[i] = types.MissingObservation(date)
		} else {
			observations[i] = types.NewObservation(date, roundToDecimals(rate, 2))
		}

		// Box-Muller transform for a normally distributed step
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		rate += config.Volatility*z + config.Trend/float64(config.Count)
		if rate < 0 {
			rate = 0
		}

		date = date.AddMonths(1)
	}

	return types.Series{
		Name:         config.Name,
		Frequency:    types.FrequencyMonthly,
		Observations: observations,
	}
}

// GenerateHistory generates a monthly series from 1990-01-01 through 2024-12-01
// with a few gaps, for tests that need a long realistic series.
func GenerateHistory(name string) types.Series {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Name = name
	config.Count = 35 * 12
	config.MissingRate = 0.02

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
