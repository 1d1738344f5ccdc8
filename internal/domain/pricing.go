package domain

import "math"

// Price derives a seat's fare from the flight's base price and the seat
// class multiplier. No rounding happens here; rounding to minor units is a
// boundary concern.
func Price(basePrice, multiplier float64) float64 {
	return basePrice * multiplier
}

// MinorUnits converts an amount to integer minor units (paise for INR), the
// only representation the payment gateway accepts.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
