package coord

import (
	"math"
	"strconv"
	"strings"
)

// GRS80 ellipsoid, shared by every ETRS realization handled here.
const (
	grs80A = 6378137.0
	grs80F = 1.0 / 298.257222101
)

// projection holds transverse-mercator parameters for one system, or
// marks it geographic.
type projection struct {
	geographic    bool
	centralMerid  float64 // degrees east
	scale         float64
	falseEasting  float64
	falseNorthing float64
}

// projectionFor builds the projection for a normalized system name.
func projectionFor(name string) (projection, bool) {
	switch name {
	case "WGS84", "ETRS89":
		return projection{geographic: true}, true
	case "ETRS-TM35FIN":
		return projection{centralMerid: 27, scale: 0.9996, falseEasting: 500000}, true
	}
	if zone, ok := trimZone(name, "ETRS-GK"); ok && zone >= 19 && zone <= 31 {
		// Finnish GK zones: central meridian at the zone degree, unit
		// scale, zone-prefixed false easting.
		return projection{
			centralMerid: float64(zone),
			scale:        1,
			falseEasting: float64(zone)*1e6 + 500000,
		}, true
	}
	if zone, ok := trimZone(name, "ETRS-TM"); ok && zone >= 34 && zone <= 36 {
		return projection{
			centralMerid: float64(6*zone - 183),
			scale:        0.9996,
			falseEasting: 500000,
		}, true
	}
	return projection{}, false
}

func trimZone(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	zone, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil {
		return 0, false
	}
	return zone, true
}

// ellipsoid derivatives
var (
	e2  = grs80F * (2 - grs80F)
	e4  = e2 * e2
	e6  = e4 * e2
	ep2 = e2 / (1 - e2)
	e1  = (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	arcA0 = 1 - e2/4 - 3*e4/64 - 5*e6/256
	arcA2 = 3.0 / 8 * (e2 + e4/4 + 15*e6/128)
	arcA4 = 15.0 / 256 * (e4 + 3*e6/4)
	arcA6 = 35 * e6 / 3072
)

// meridianArc returns the ellipsoidal distance from the equator to
// latitude phi (radians).
func meridianArc(phi float64) float64 {
	return grs80A * (arcA0*phi - arcA2*math.Sin(2*phi) + arcA4*math.Sin(4*phi) - arcA6*math.Sin(6*phi))
}

// forward projects geographic degrees to (northing, easting).
// Redfearn series, sub-millimetre within a GK zone.
func (p projection) forward(latDeg, lonDeg float64) (n, e float64) {
	phi := latDeg * math.Pi / 180
	dLam := (lonDeg - p.centralMerid) * math.Pi / 180

	sin, cos := math.Sincos(phi)
	tan := sin / cos
	nu := grs80A / math.Sqrt(1-e2*sin*sin)
	t := tan * tan
	c := ep2 * cos * cos
	a := dLam * cos

	e = p.falseEasting + p.scale*nu*(a+
		(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120)
	n = p.falseNorthing + p.scale*(meridianArc(phi)+
		nu*tan*(a*a/2+
			(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
			(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
	return n, e
}

// inverse projects (northing, easting) back to geographic degrees.
func (p projection) inverse(n, e float64) (latDeg, lonDeg float64) {
	m := (n - p.falseNorthing) / p.scale
	mu := m / (grs80A * arcA0)

	// footpoint latitude
	phi := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		151*math.Pow(e1, 3)/96*math.Sin(6*mu) +
		1097*math.Pow(e1, 4)/512*math.Sin(8*mu)

	sin, cos := math.Sincos(phi)
	tan := sin / cos
	c1 := ep2 * cos * cos
	t1 := tan * tan
	nu := grs80A / math.Sqrt(1-e2*sin*sin)
	rho := grs80A * (1 - e2) / math.Pow(1-e2*sin*sin, 1.5)
	d := (e - p.falseEasting) / (nu * p.scale)

	lat := phi - nu*tan/rho*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := p.centralMerid*math.Pi/180 + (d-
		(1+2*t1+c1)*d*d*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos

	return lat * 180 / math.Pi, lon * 180 / math.Pi
}
