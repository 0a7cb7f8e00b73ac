// Package geo converts decimal-degree positions into the sexagesimal rational
// form stored in EXIF GPS tags.
package geo

import (
	"fmt"
	"math"
)

// Precision scales the seconds field so that it can be stored as the exact
// rational SecondsScaled/Precision.
const Precision = 10000

// Hemisphere is the single-letter reference stored next to an angle.
type Hemisphere string

const (
	North Hemisphere = "N"
	South Hemisphere = "S"
	East  Hemisphere = "E"
	West  Hemisphere = "W"
)

// Sign returns -1 for the southern and western hemispheres, 1 otherwise.
func (h Hemisphere) Sign() float64 {
	if h == South || h == West {
		return -1
	}
	return 1
}

// Sexagesimal is an angle split into degrees, minutes and scaled seconds.
type Sexagesimal struct {
	Degrees       uint32
	Minutes       uint32
	SecondsScaled uint32 // seconds * Precision, truncated
	Ref           Hemisphere
}

// ToSexagesimal splits a decimal angle into degrees, minutes and seconds.
// Zero counts as the positive hemisphere. Every component is truncated, never
// rounded, so Decimal() never overshoots the input magnitude.
func ToSexagesimal(dec float64, isLongitude bool) Sexagesimal {
	ref := hemisphere(dec, isLongitude)

	abs := math.Abs(dec)
	deg := math.Floor(abs)
	// Work from the fractional part so angles under one degree need no
	// special casing.
	totalSeconds := (abs - deg) * 3600
	minutes := math.Floor(totalSeconds / 60)
	seconds := math.Mod(totalSeconds, 60)

	return Sexagesimal{
		Degrees:       uint32(deg),
		Minutes:       uint32(minutes),
		SecondsScaled: uint32(math.Floor(seconds * Precision)),
		Ref:           ref,
	}
}

func hemisphere(dec float64, isLongitude bool) Hemisphere {
	switch {
	case dec < 0 && isLongitude:
		return West
	case dec < 0:
		return South
	case isLongitude:
		return East
	default:
		return North
	}
}

// Seconds returns the seconds component as a float.
func (s Sexagesimal) Seconds() float64 {
	return float64(s.SecondsScaled) / Precision
}

// Decimal reassembles the signed decimal angle.
func (s Sexagesimal) Decimal() float64 {
	v := float64(s.Degrees) + float64(s.Minutes)/60 + s.Seconds()/3600
	return v * s.Ref.Sign()
}

func (s Sexagesimal) String() string {
	return fmt.Sprintf("%d°%02d'%07.4f\"%s", s.Degrees, s.Minutes, s.Seconds(), s.Ref)
}
