// Package pathsampler implements the path sampler (spec component C3):
// it materializes the ordered sequence of DEM samples between a
// source and a destination site, walked great-circle, one DEM pixel
// at a time. Grounded on phileasgo/pkg/terrain/los.go's IsVisible,
// which steps along a great-circle arc interpolating lat/lon at each
// step and looking up elevation — generalized here from "N evenly
// spaced steps over a fixed km interval" to "one step per DEM pixel's
// angular extent", and returning a reusable Path value instead of
// deciding visibility inline.
package pathsampler

import (
	"rfcoverage/pkg/dem"
	"rfcoverage/pkg/geo"
)

// Path is a finite, source-ordered sequence of samples along the
// great-circle arc from a source to a destination. Regenerated per
// call; never cached (spec.md §3).
type Path struct {
	Lat      []float64 // degrees
	Lon      []float64 // degrees, [0, 360)
	Distance []float64 // cumulative miles from source
	Elev     []float64 // feet AMSL, 0 where the DEM has no page
}

// Length is the number of samples in the path.
func (p *Path) Length() int { return len(p.Lat) }

// defaultPixelMiles is the sampling step used when the DEM has no page
// at the source point to size the step from (a source outside every
// page still needs a path; it simply won't resolve any elevation).
const defaultPixelMiles = 0.1

// ReadPath produces path.length samples along the great-circle arc
// from src to dst. Sample 0 is the source; the last is the
// destination. The step equals one DEM pixel's angular extent
// projected onto the arc (spec.md §4.3): the DPP of the page
// containing src sets the resolution, falling back to a default
// step when src resolves to no page.
func ReadPath(src, dst dem.Site, d *dem.DEM) Path {
	srcPoint := geo.Point{Lat: src.Lat, Lon: src.Lon}
	dstPoint := geo.Point{Lat: dst.Lat, Lon: dst.Lon}

	totalMiles := geo.DistanceMiles(srcPoint, dstPoint)
	azimuth := geo.Azimuth(srcPoint, dstPoint)

	pixelMiles := defaultPixelMiles
	if page, _, _, ok := d.Locate(src.Lat, src.Lon); ok {
		pg := &d.Pages[page]
		pixelDeg := pg.DPP
		pixelMiles = pixelDeg * 69.0 // ~69 statute miles per degree of latitude
		if pixelMiles <= 0 {
			pixelMiles = defaultPixelMiles
		}
	}

	length := int(totalMiles/pixelMiles) + 1
	if length < 2 {
		length = 2
	}

	path := Path{
		Lat:      make([]float64, length),
		Lon:      make([]float64, length),
		Distance: make([]float64, length),
		Elev:     make([]float64, length),
	}

	for i := 0; i < length; i++ {
		frac := float64(i) / float64(length-1)
		distMiles := frac * totalMiles

		var pt geo.Point
		if i == 0 {
			pt = srcPoint
		} else if i == length-1 {
			pt = dstPoint
		} else {
			pt = geo.DestinationPoint(srcPoint, distMiles*geo.MetersPerMile, azimuth)
		}

		path.Lat[i] = pt.Lat
		path.Lon[i] = pt.Lon
		path.Distance[i] = distMiles
		path.Elev[i] = d.Elevation(pt.Lat, pt.Lon)
	}

	return path
}
