// roofscan runs the analyze -> ROI chain on a local image file and prints
// both reports as JSON. It exercises the same code paths as the server but
// headless, which is handy for demos and smoke checks.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/roofsight/roofsight/pkg/analysis"
	"github.com/roofsight/roofsight/pkg/imagery"
	"github.com/roofsight/roofsight/pkg/log"
	"github.com/roofsight/roofsight/pkg/roi"
	"github.com/roofsight/roofsight/pkg/types"
)

func main() {
	imagePath := lflag.RequiredString("image", "Path to a JPEG or PNG rooftop image")
	seed := lflag.String("seed", "", "Optional seed for deterministic output (any string)")
	params := roi.DefaultParams()
	lflag.JSON(&params.EnergyCostPerKWH, "energy-cost-per-kwh", params.EnergyCostPerKWH, "Local energy cost in dollars per kWh")
	lflag.JSON(&params.IncentiveRate, "incentive-rate", params.IncentiveRate, "Incentive rate applied to installation cost (0-1)")
	lflag.Configure()

	ctx := context.Background()

	if err := params.Validate(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid parameters", slog.Any("error", err))
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to open image", slog.Any("error", err))
		os.Exit(1)
	}
	defer f.Close()

	width, height, err := imagery.DecodeDimensions(f)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to decode image", slog.Any("error", err))
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	if *seed != "" {
		var a, b uint64
		for i, c := range []byte(*seed) {
			if i%2 == 0 {
				a = a*31 + uint64(c)
			} else {
				b = b*31 + uint64(c)
			}
		}
		rng = rand.New(rand.NewPCG(a, b))
	}

	analyzer := analysis.NewSimulated(rng)
	report, err := analyzer.Analyze(ctx, width, height)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "analysis failed", slog.Any("error", err))
		os.Exit(1)
	}

	out := struct {
		ImageWidth  int                  `json:"imageWidth"`
		ImageHeight int                  `json:"imageHeight"`
		Analysis    types.AnalysisReport `json:"analysis"`
		ROI         types.ROIReport      `json:"roi"`
	}{
		ImageWidth:  width,
		ImageHeight: height,
		Analysis:    report,
		ROI:         roi.Compute(float64(report.EstimatedInstallationCost), float64(report.ExpectedAnnualEnergyKWH), params),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to encode output", slog.Any("error", err))
		os.Exit(1)
	}
}
