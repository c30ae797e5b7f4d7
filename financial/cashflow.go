package financial

import "math"

const (
	// DefaultMaxIterations caps the number of Newton-Raphson updates in IRR.
	DefaultMaxIterations = 10
	// DefaultTolerance is the absolute |NPV| below which IRR stops iterating.
	DefaultTolerance = 1e-13
)

// NPV discounts cashFlows at rate. cashFlows[0] is at time zero and
// cashFlows[i] at the end of period i.
func NPV(rate float64, cashFlows []float64) float64 {
	var total float64
	for i, cf := range cashFlows {
		total += cf * (1 / math.Pow(1+rate, float64(i)))
	}
	return total
}

// dnpv is the derivative of NPV with respect to rate.
func dnpv(rate float64, cashFlows []float64) float64 {
	var total float64
	for i, cf := range cashFlows {
		total += float64(-i) * cf * (1 / math.Pow(1+rate, float64(i+1)))
	}
	return total
}

// IRROption tunes the IRR solver.
type IRROption func(*irrConfig)

type irrConfig struct {
	estimate      float64
	hasEstimate   bool
	maxIterations int
	tolerance     float64
}

// WithEstimate starts the solver at estimate instead of the computed guess.
func WithEstimate(estimate float64) IRROption {
	return func(c *irrConfig) {
		c.estimate = estimate
		c.hasEstimate = true
	}
}

// WithMaxIterations overrides DefaultMaxIterations.
func WithMaxIterations(n int) IRROption {
	return func(c *irrConfig) {
		c.maxIterations = n
	}
}

// WithTolerance overrides DefaultTolerance.
func WithTolerance(tolerance float64) IRROption {
	return func(c *irrConfig) {
		c.tolerance = tolerance
	}
}

// InitialGuess returns the starting rate IRR uses when no estimate is given:
// (sum(cashFlows[1:]) / -cashFlows[0]) ^ (1/(1 + 0.5*(n-1)) - 1), n = len-1.
//
// Pascual, Sison, Gerardo & Medina (2018), "Calculating Internal Rate of
// Return (IRR) in Practice using Improved Newton-Raphson Algorithm",
// Philippine Computing Journal 13, 17-21.
//
// The result is NaN when the base is negative and the exponent fractional.
func InitialGuess(cashFlows []float64) float64 {
	if len(cashFlows) == 0 {
		return math.NaN()
	}
	n := len(cashFlows) - 1
	exponent := 1.0/(1.0+0.5*(float64(n)-1.0)) - 1.0

	var later float64
	for _, cf := range cashFlows[1:] {
		later += cf
	}
	return math.Pow(later/-cashFlows[0], exponent)
}

// IRR computes the internal rate of return of cashFlows with Newton-Raphson
// iteration on NPV.
//
// Iteration stops once |NPV(guess)| < tolerance or after maxIterations
// updates, and the last guess is returned either way. Callers that need to
// know whether the solver converged must evaluate NPV at the returned rate.
// A NaN guess ends the loop immediately and is returned as is. An empty
// series returns NaN.
func IRR(cashFlows []float64, opts ...IRROption) float64 {
	cfg := irrConfig{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cashFlows) == 0 {
		return math.NaN()
	}

	guess := cfg.estimate
	if !cfg.hasEstimate {
		guess = InitialGuess(cashFlows)
	}

	for iteration := 1; math.Abs(NPV(guess, cashFlows)) >= cfg.tolerance && iteration <= cfg.maxIterations; iteration++ {
		guess -= NPV(guess, cashFlows) / dnpv(guess, cashFlows)
	}
	return guess
}
