// Package money converts between major currency units (rupees) and the
// integer minor units (paise) the payment gateway expects.
package money

import "math"

// halfUpBias absorbs binary floating point error on exact half-paise
// values: 19.995*100 evaluates to 1999.4999999999998, which would
// otherwise round down instead of half-up.
const halfUpBias = 1e-9

// ToMinorUnits converts a major-unit amount to minor units, rounding
// half up. Amounts are always non-negative in this system.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major*100 + halfUpBias))
}

// FromMinorUnits converts a gateway-reported minor-unit amount back to
// major units.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
