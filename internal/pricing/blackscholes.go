// Package pricing implements the closed-form Black-Scholes helpers used to
// attach 0-DTE Greeks context to ORB scan rows.
//
// All functions report ok=false instead of returning NaN when a precondition
// fails (S<=0, K<=0, sigma<=0, T<=0), so callers can test for invalid input
// without comparing floats.
package pricing

import (
	"math"

	"github.com/tradekit/orbpulse/internal/domain/models"
)

const (
	// DefaultIV is the annualized volatility fallback when no usable
	// external estimate is available.
	DefaultIV = 0.35

	hoursPerYear = 365 * 24
)

// D1D2 returns the standard Black-Scholes intermediate terms.
// T is time to expiry in years.
func D1D2(s, k, r, sigma, t float64) (d1, d2 float64, ok bool) {
	if t <= 0 || sigma <= 0 || s <= 0 || k <= 0 {
		return 0, 0, false
	}
	sqrtT := math.Sqrt(t)
	d1 = (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 = d1 - sigma*sqrtT
	return d1, d2, true
}

// Delta returns the option delta: Phi(d1) for a call, Phi(d1)-1 for a put.
func Delta(s, k, r, sigma, t float64, kind models.OptionKind) (float64, bool) {
	d1, _, ok := D1D2(s, k, r, sigma, t)
	if !ok {
		return 0, false
	}
	if kind == models.Put {
		return normCDF(d1) - 1, true
	}
	return normCDF(d1), true
}

// ThetaHourly returns time decay in dollars per hour. The standard per-year
// theta is divided by 365*24; it is expected negative for long options under
// positive volatility and rate.
func ThetaHourly(s, k, r, sigma, t float64, kind models.OptionKind) (float64, bool) {
	d1, d2, ok := D1D2(s, k, r, sigma, t)
	if !ok {
		return 0, false
	}
	sqrtT := math.Sqrt(t)
	tail := normCDF(d2)
	if kind == models.Put {
		tail = normCDF(-d2)
	}
	yearly := -(s*normPDF(d1)*sigma)/(2*sqrtT) - r*k*math.Exp(-r*t)*tail
	return yearly / hoursPerYear, true
}

// EstimateIV accepts an external implied-volatility estimate when it lies in
// (0.05, 5.0) and falls back to the given default otherwise. Zero means "no
// estimate available".
func EstimateIV(iv, fallback float64) float64 {
	if iv > 0.05 && iv < 5.0 {
		return iv
	}
	return fallback
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
