// Package projection converts coordinates between the projected system
// the datasets are stored in (EPSG:5179, Korea 2000 / Unified CS) and
// geographic WGS84 lon/lat (EPSG:4326).
//
// EPSG:5179 is a Transverse Mercator projection on the GRS80 ellipsoid;
// the Korea 2000 datum is coincident with WGS84 well below the service's
// 1e-6 degree precision target, so no datum shift is applied. The inverse
// mapping uses Snyder's series (Map Projections: A Working Manual,
// USGS PP 1395, eqs. 8-12..8-25), accurate to sub-millimeter within the
// projection zone.
package projection

import (
	"math"

	"github.com/facility-locator/internal/domain"
	"github.com/facility-locator/internal/pkg/errors"
)

// Korea 2000 / Unified CS parameters.
const (
	semiMajor  = 6378137.0           // GRS80 a
	flattening = 1 / 298.257222101   // GRS80 1/f
	latOrigin  = 38.0 * math.Pi / 180.0
	lonOrigin  = 127.5 * math.Pi / 180.0
	scale      = 0.9996
	falseEast  = 1000000.0
	falseNorth = 2000000.0
)

// Transformer converts EPSG:5179 points to EPSG:4326. It is stateless
// after construction and safe for concurrent use; construction
// precomputes the series constants so the cost is amortized across the
// points of a query.
type Transformer struct {
	e2  float64 // first eccentricity squared
	ep2 float64 // second eccentricity squared
	e1  float64 // rectifying latitude series constant
	m0  float64 // meridian arc at the latitude of origin
	mk  float64 // leading meridian-arc coefficient, a*(1 - e2/4 - ...)
}

// NewKorea2000 builds the EPSG:5179 -> EPSG:4326 transformer.
func NewKorea2000() *Transformer {
	e2 := flattening * (2 - flattening)
	t := &Transformer{
		e2:  e2,
		ep2: e2 / (1 - e2),
		e1:  (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2)),
		mk:  semiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256),
	}
	t.m0 = t.meridianArc(latOrigin)
	return t
}

// meridianArc returns the ellipsoidal meridian arc length from the
// equator to latitude phi (radians).
func (t *Transformer) meridianArc(phi float64) float64 {
	e2 := t.e2
	e4 := e2 * e2
	e6 := e4 * e2
	return semiMajor * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// ToGeographic reprojects a point from the projected CRS to geographic
// lon/lat degrees. Pure function of its input; calling it twice with the
// same point yields the same output.
func (t *Transformer) ToGeographic(p domain.GeoPoint) (domain.GeoPoint, error) {
	if p.CRS != domain.CRSKorea2000 {
		return domain.GeoPoint{}, errors.ErrProjectionError
	}

	// Footpoint latitude from the rectifying latitude.
	m := t.m0 + (p.Y-falseNorth)/scale
	mu := m / t.mk
	e1 := t.e1
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := t.ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := semiMajor / math.Sqrt(1-t.e2*sinPhi1*sinPhi1)
	r1 := semiMajor * (1 - t.e2) / math.Pow(1-t.e2*sinPhi1*sinPhi1, 1.5)
	d := (p.X - falseEast) / (n1 * scale)

	d2 := d * d
	d4 := d2 * d2
	d6 := d4 * d2

	phi := phi1 - (n1*tanPhi1/r1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*t.ep2)*d4/24+
		(61+90*t1+298*c1+45*t1*t1-252*t.ep2-3*c1*c1)*d6/720)

	lambda := lonOrigin + (d-
		(1+2*t1+c1)*d2*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*t.ep2+24*t1*t1)*d4*d/120)/cosPhi1

	return domain.GeoPoint{
		X:   lambda * 180.0 / math.Pi,
		Y:   phi * 180.0 / math.Pi,
		CRS: domain.CRSWGS84,
	}, nil
}
