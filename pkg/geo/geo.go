// Package geo provides the geodesy primitives the coverage sweep
// builds on: longitude-seam-safe arithmetic, great-circle bearing,
// and the unit conversions the rest of the module shares.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Unit conversions shared by the DEM, path sampler, and propagation kernel.
const (
	MetersPerFoot = 0.3048
	FeetPerMile   = 5280.0
	MetersPerMile = MetersPerFoot * FeetPerMile
	KmPerMile     = MetersPerMile / 1000.0
	EarthRadiusKM = 6371.0
)

// Point represents a geographic coordinate. Longitude follows this
// module's convention of degrees east of Greenwich in [0, 360), not
// orb's [-180, 180]; ToOrb converts at the boundary where an orb/planar
// helper is needed.
type Point struct {
	Lat float64
	Lon float64
}

// ToOrb converts to an orb.Point in the conventional [-180, 180] longitude range.
func (p Point) ToOrb() orb.Point {
	lon := p.Lon
	if lon > 180 {
		lon -= 360
	}
	return orb.Point{lon, p.Lat}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// LonDiff returns the signed shortest longitudinal difference a-b, in
// degrees, normalized to (-180, 180]. This is the seam-safe subtraction
// used everywhere two longitudes in [0, 360) need comparing without
// the 0/360 wraparound producing a bogus 359-degree difference.
func LonDiff(a, b float64) float64 {
	d := a - b
	for d <= -180 {
		d += 360
	}
	for d > 180 {
		d -= 360
	}
	return d
}

// Azimuth returns the great-circle bearing from src to dst, in degrees
// [0, 360), measured clockwise from true north. Delegates to
// github.com/paulmach/orb/geo's Bearing via ToOrb, which resolves the
// 0/360 longitude seam the same way LonDiff does (sin/cos of a raw
// degree difference are seam-periodic regardless of which side of 0/360
// the two points fall on).
func Azimuth(src, dst Point) float64 {
	brng := orbgeo.Bearing(src.ToOrb(), dst.ToOrb())
	return math.Mod(brng+360.0, 360.0)
}

// Distance calculates the great-circle (haversine) distance between
// two points in meters, via github.com/paulmach/orb/geo's Distance.
func Distance(p1, p2 Point) float64 {
	return orbgeo.Distance(p1.ToOrb(), p2.ToOrb())
}

// DistanceMiles is Distance expressed in statute miles, the unit the
// path sampler and propagation kernel work in natively.
func DistanceMiles(p1, p2 Point) float64 {
	return Distance(p1, p2) / MetersPerMile
}

// DestinationPoint calculates the point reached from start by
// travelling distMeters along the initial bearing (degrees). Longitude
// of the result is normalized into [0, 360). orb/geo has no
// reckoning/destination-point primitive, so this stays direct-formula
// math.
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	const r = EarthRadiusKM * 1000.0
	lat1 := DegToRad(start.Lat)
	lon1 := DegToRad(start.Lon)
	brng := DegToRad(bearing)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(distMeters/r) +
		math.Cos(lat1)*math.Sin(distMeters/r)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(distMeters/r)*math.Cos(lat1),
		math.Cos(distMeters/r)-math.Sin(lat1)*math.Sin(lat2))

	lon := math.Mod(RadToDeg(lon2)+360.0, 360.0)
	return Point{Lat: RadToDeg(lat2), Lon: lon}
}
