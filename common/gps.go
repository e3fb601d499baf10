package common

// Decimal places of a coordinate and what they resolve (at the equator).
// https://en.wikipedia.org/wiki/Decimal_degrees
const (
	// GPSPrecision5 is about a metre: houses, trees.
	GPSPrecision5 = 5
	// GPSPrecision6 is about 10 cm, finer than any fix we get.
	GPSPrecision6 = 6
)
