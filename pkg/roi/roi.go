// Package roi computes the financial return projection for a rooftop solar
// installation from an installation cost and an expected annual production.
package roi

import (
	"fmt"
	"math"

	"github.com/roofsight/roofsight/pkg/types"
)

// Defaults mirroring a typical US residential installation: the 26% federal
// tax credit and a 25 year panel lifespan.
const (
	DefaultEnergyCostPerKWH = 0.13
	DefaultIncentiveRate    = 0.26
	DefaultLifespanYears    = 25
)

// Params are the external assumptions the projection depends on. They can be
// overridden per call.
type Params struct {
	// EnergyCostPerKWH is the local price of grid energy in dollars.
	EnergyCostPerKWH float64 `json:"energyCostPerKWH"`

	// IncentiveRate is the fraction of the installation cost covered by
	// rebates or tax credits, in [0, 1].
	IncentiveRate float64 `json:"incentiveRate"`

	// LifespanYears is the assumed operational lifespan of the panels.
	LifespanYears int `json:"lifespanYears"`
}

// DefaultParams returns the default projection assumptions.
func DefaultParams() Params {
	return Params{
		EnergyCostPerKWH: DefaultEnergyCostPerKWH,
		IncentiveRate:    DefaultIncentiveRate,
		LifespanYears:    DefaultLifespanYears,
	}
}

// Validate returns an error if any parameter is out of range.
func (p Params) Validate() error {
	if p.EnergyCostPerKWH < 0 {
		return fmt.Errorf("energyCostPerKWH must be non-negative, got %v", p.EnergyCostPerKWH)
	}
	if p.IncentiveRate < 0 || p.IncentiveRate > 1 {
		return fmt.Errorf("incentiveRate must be between 0 and 1, got %v", p.IncentiveRate)
	}
	if p.LifespanYears <= 0 {
		return fmt.Errorf("lifespanYears must be positive, got %d", p.LifespanYears)
	}
	return nil
}

// Compute returns the ROI projection for the given installation cost (dollars)
// and expected annual production (kWh). It is pure: identical inputs always
// yield identical output.
//
// When annual savings are zero the payback period is reported as unavailable
// rather than a division result.
func Compute(installationCost, annualProductionKWH float64, p Params) types.ROIReport {
	effectiveCost := installationCost * (1 - p.IncentiveRate)
	annualSavings := annualProductionKWH * p.EnergyCostPerKWH

	var payback types.PaybackPeriod
	if annualSavings > 0 {
		payback = types.Payback(math.Round(effectiveCost/annualSavings*10) / 10)
	}

	return types.ROIReport{
		EffectiveCostAfterIncentives: effectiveCost,
		AnnualSavings:                annualSavings,
		PaybackPeriodYears:           payback,
		LifetimeNetSavings:           annualSavings*float64(p.LifespanYears) - effectiveCost,
	}
}
