package types

import (
	"bytes"
	"encoding/json"
)

// PaybackPeriod is the number of years until cumulative savings offset the
// effective installation cost. When annual savings are zero there is no
// payback; Available is false and Years is meaningless. It marshals to a JSON
// number when available and null otherwise so clients never see an infinity
// sentinel.
type PaybackPeriod struct {
	Years     float64
	Available bool
}

// Payback returns an available payback period of the given years.
func Payback(years float64) PaybackPeriod {
	return PaybackPeriod{Years: years, Available: true}
}

var jsonNull = []byte("null")

// MarshalJSON implements json.Marshaler.
func (p PaybackPeriod) MarshalJSON() ([]byte, error) {
	if !p.Available {
		return jsonNull, nil
	}
	return json.Marshal(p.Years)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PaybackPeriod) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		*p = PaybackPeriod{}
		return nil
	}
	var years float64
	if err := json.Unmarshal(b, &years); err != nil {
		return err
	}
	*p = Payback(years)
	return nil
}

// ROIReport is the financial projection derived from an analysis.
type ROIReport struct {
	// EffectiveCostAfterIncentives is the installation cost reduced by the
	// incentive rate, in dollars.
	EffectiveCostAfterIncentives float64 `json:"effectiveCostAfterIncentives"`

	// AnnualSavings is the yearly energy-cost savings in dollars.
	AnnualSavings float64 `json:"annualSavings"`

	// PaybackPeriodYears is rounded to one decimal when available.
	PaybackPeriodYears PaybackPeriod `json:"paybackPeriodYears"`

	// LifetimeNetSavings is total savings over the panel lifespan minus the
	// effective cost. Negative values are a net loss.
	LifetimeNetSavings float64 `json:"lifetimeNetSavings"`
}
