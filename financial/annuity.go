// Package financial implements closed-form time-value-of-money formulas and an
// internal rate of return solver.
//
// All functions are pure and operate on float64. Nothing is validated: a zero
// rate, an out-of-range period or a non-convergent cash-flow series produce
// whatever IEEE-754 arithmetic yields (+Inf, -Inf or NaN), and callers are
// expected to check math.IsNaN / math.IsInf on the result themselves.
package financial

import "math"

// WhenDue says whether payments fall at the end or the start of each period.
type WhenDue int

const (
	// EndOfPeriod is an ordinary annuity.
	EndOfPeriod WhenDue = 0
	// BeginningOfPeriod is an annuity due.
	BeginningOfPeriod WhenDue = 1
)

// growth returns (1+rate)^n and the annuity factor
// (1 + rate*when) * ((1+rate)^n - 1) / rate.
// A zero rate divides by zero and the result is not guarded.
func growth(rate float64, numPeriods int, when WhenDue) (float64, float64) {
	temp := math.Pow(1+rate, float64(numPeriods))
	fact := (1 + rate*float64(when)) * (temp - 1) / rate
	return temp, fact
}

// Pmt computes the fixed payment against loan principal plus interest.
func Pmt(rate float64, numPeriods int, presentValue, futureValue float64, when WhenDue) float64 {
	temp, fact := growth(rate, numPeriods, when)
	return -(futureValue + presentValue*temp) / fact
}

// PV computes the present value of a payment stream and a future value.
func PV(rate float64, numPeriods int, payment, futureValue float64, when WhenDue) float64 {
	temp, fact := growth(rate, numPeriods, when)
	return -(futureValue + payment*fact) / temp
}

// FV computes the future value of a present value and a payment stream.
func FV(rate float64, numPeriods int, payment, presentValue float64, when WhenDue) float64 {
	temp, fact := growth(rate, numPeriods, when)
	return -presentValue*temp - payment*fact
}

// IPmt computes the interest portion of the payment made in period.
// period is 1-indexed and is not checked against numPeriods.
func IPmt(rate float64, period, numPeriods int, presentValue, futureValue float64, when WhenDue) float64 {
	total := Pmt(rate, numPeriods, presentValue, futureValue, when)
	remaining := FV(rate, period-1, total, presentValue, when)
	return remaining * rate
}

// PPmt computes the principal portion of the payment made in period.
func PPmt(rate float64, period, numPeriods int, presentValue, futureValue float64, when WhenDue) float64 {
	total := Pmt(rate, numPeriods, presentValue, futureValue, when)
	return total - IPmt(rate, period, numPeriods, presentValue, futureValue, when)
}
