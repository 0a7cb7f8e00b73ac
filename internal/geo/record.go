package geo

import (
	"fmt"
	"math"
)

// Altitude references as defined for the GPSAltitudeRef tag.
const (
	AboveSeaLevel byte = 0
	BelowSeaLevel byte = 1
)

// VersionID is the GPSVersionID written with every record.
var VersionID = [4]byte{2, 2, 0, 0}

// Rational is an unsigned numerator/denominator pair.
type Rational struct {
	Num uint32
	Den uint32
}

// Float returns the value of r. A zero denominator yields zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// GPSRecord is the complete GPS block written into an image. It replaces any
// GPS block already present.
type GPSRecord struct {
	VersionID    [4]byte
	Latitude     [3]Rational
	LatitudeRef  Hemisphere
	Longitude    [3]Rational
	LongitudeRef Hemisphere
	Altitude     Rational
	AltitudeRef  byte
}

// BuildGPSRecord packs a longitude, a latitude and an elevation in meters.
// The elevation is truncated to whole meters; a negative elevation is stored
// as its magnitude with the below-sea-level reference.
func BuildGPSRecord(elevation float64, lon, lat Sexagesimal) GPSRecord {
	meters := math.Trunc(elevation)
	altRef := AboveSeaLevel
	if meters < 0 {
		altRef = BelowSeaLevel
		meters = -meters
	}
	return GPSRecord{
		VersionID:    VersionID,
		Latitude:     triple(lat),
		LatitudeRef:  lat.Ref,
		Longitude:    triple(lon),
		LongitudeRef: lon.Ref,
		Altitude:     Rational{Num: uint32(meters), Den: 1},
		AltitudeRef:  altRef,
	}
}

func triple(s Sexagesimal) [3]Rational {
	return [3]Rational{
		{Num: s.Degrees, Den: 1},
		{Num: s.Minutes, Den: 1},
		{Num: s.SecondsScaled, Den: Precision},
	}
}

// Encode converts a decimal position into a GPSRecord.
func Encode(elevation, longitude, latitude float64) GPSRecord {
	return BuildGPSRecord(elevation, ToSexagesimal(longitude, true), ToSexagesimal(latitude, false))
}

// Decimal reassembles signed decimal degrees from a rational triple.
func Decimal(dms [3]Rational, ref Hemisphere) float64 {
	v := dms[0].Float() + dms[1].Float()/60 + dms[2].Float()/3600
	return v * ref.Sign()
}

// Elevation returns the signed altitude in meters.
func (g GPSRecord) Elevation() float64 {
	if g.AltitudeRef == BelowSeaLevel {
		return -g.Altitude.Float()
	}
	return g.Altitude.Float()
}
