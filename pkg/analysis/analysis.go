package analysis

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/levenlabs/go-lflag"
	"github.com/roofsight/roofsight/pkg/types"
)

// Analyzer produces a rooftop assessment from the dimensions of an already
// decoded image. Implementations must only be called with positive dimensions.
type Analyzer interface {
	// Analyze returns an assessment for an image of the given size.
	Analyze(ctx context.Context, width, height int) (types.AnalysisReport, error)
}

// Configured sets up the analysis strategy based on flags.
func Configured() Analyzer {
	strategy := lflag.String("analysis-strategy", "simulated", "Analysis strategy to use (available: simulated)")

	var a struct{ Analyzer }

	lflag.Do(func() {
		switch *strategy {
		case "simulated":
			a.Analyzer = NewSimulated(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		default:
			panic(fmt.Sprintf("unknown analysis strategy: %s", *strategy))
		}
	})

	return &a
}
