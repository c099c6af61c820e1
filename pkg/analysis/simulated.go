package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/roofsight/roofsight/pkg/types"
)

// Simulated fabricates assessments from bounded random draws seeded by the
// image area. It stands in for a real vision model so the rest of the system
// can be exercised without one; swap in a real Analyzer implementation to
// replace it.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated returns a Simulated analyzer drawing from rng. Tests pass a
// seeded source for deterministic output.
func NewSimulated(rng *rand.Rand) *Simulated {
	return &Simulated{rng: rng}
}

// Analyze fabricates an assessment for an image of the given size.
//
// The base potential is proportional to the image area and capped at 100, so
// tiny images score near zero. Installation cost and annual production are
// each randomized independently and then scaled by the potential; they are
// intentionally not derived deterministically from each other.
func (s *Simulated) Analyze(ctx context.Context, width, height int) (types.AnalysisReport, error) {
	if width <= 0 || height <= 0 {
		return types.AnalysisReport{}, fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	basePotential := math.Min(100, float64(width)*float64(height)/10000)
	potential := roundTo(s.uniform(0.5, 1.0)*basePotential, 1)

	return types.AnalysisReport{
		SolarPotentialPercent:     potential,
		RecommendedPanelType:      pick(s.rng, types.AllPanelTypes()),
		MountingRecommendation:    pick(s.rng, types.AllMountingTypes()),
		ElectricalConfig:          pick(s.rng, types.AllElectricalConfigs()),
		EstimatedInstallationCost: int(s.uniform(15000, 30000) * potential / 100),
		ExpectedAnnualEnergyKWH:   int(s.uniform(4000, 7000) * potential / 100),
		ConfidenceScore:           roundTo(s.uniform(0.7, 0.95), 2),
	}, nil
}

func (s *Simulated) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func pick[T any](rng *rand.Rand, options []T) T {
	return options[rng.IntN(len(options))]
}

func roundTo(x float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(x*shift) / shift
}
