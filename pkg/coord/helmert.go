package coord

import "math"

const (
	ro       float64 = 206264.8062 // arc-seconds per radian
	degToRad         = math.Pi / 180
	radToDeg         = 180 / math.Pi
)

// Vector3 is an Earth-centered Cartesian position, meters.
type Vector3 struct {
	X, Y, Z float64
}

// Coordinates is a geodetic position on a datum. Height is always zero.
type Coordinates struct {
	Lat   float64
	Lon   float64
	Datum Datum
}

// ToCartesian converts geodetic coordinates to Earth-centered Cartesian ones
// on the coordinates' own ellipsoid.
func ToCartesian(c Coordinates) Vector3 {
	phi := c.Lat * degToRad
	lambda := c.Lon * degToRad
	h := 0.0

	a := c.Datum.Ellipsoid.MajorAxis
	e2 := c.Datum.Ellipsoid.EccentricitySq()

	sinPhi, cosPhi := math.Sincos(phi)
	sinLambda, cosLambda := math.Sincos(lambda)

	// radius of curvature in the prime vertical
	nu := a / math.Sqrt(1-e2*sinPhi*sinPhi)

	return Vector3{
		X: (nu + h) * cosPhi * cosLambda,
		Y: (nu + h) * cosPhi * sinLambda,
		Z: (nu*(1-e2) + h) * sinPhi,
	}
}

// Apply runs the small-angle Bursa-Wolf transform (position vector
// convention) on v. The inverse direction uses Negate, not a separate matrix.
func (h Helmert) Apply(v Vector3) Vector3 {
	s1 := h.S/1e6 + 1
	rx := h.Rx / ro
	ry := h.Ry / ro
	rz := h.Rz / ro

	return Vector3{
		X: h.Tx + v.X*s1 - v.Y*rz + v.Z*ry,
		Y: h.Ty + v.X*rz + v.Y*s1 - v.Z*rx,
		Z: h.Tz - v.X*ry + v.Y*rx + v.Z*s1,
	}
}

// ToGeodetic converts a Cartesian position to geodetic coordinates on datum d
// with Bowring's closed form.
func ToGeodetic(v Vector3, d Datum) Coordinates {
	a := d.Ellipsoid.MajorAxis
	b := d.Ellipsoid.MinorAxis
	e2 := d.Ellipsoid.EccentricitySq()
	eps2 := e2 / (1 - e2) // second eccentricity squared

	p := math.Sqrt(v.X*v.X + v.Y*v.Y) // distance from the minor axis
	r := math.Sqrt(p*p + v.Z*v.Z)

	// on the polar axis tanβ is undefined and the latitude is left at 0.
	// Shift never gets here: cos(90°) is not exactly 0 in floating point.
	var phi float64

	if p != 0 {
		// parametric latitude, Bowring eq. 17
		tanBeta := (b * v.Z) / (a * p) * (1 + eps2*b/r)
		cosBeta := 1 / math.Hypot(1, tanBeta)
		sinBeta := tanBeta * cosBeta

		// Bowring eq. 18
		phi = math.Atan2(v.Z+eps2*b*sinBeta*sinBeta*sinBeta, p-e2*a*cosBeta*cosBeta*cosBeta)
	}

	return Coordinates{
		Lat:   phi * radToDeg,
		Lon:   math.Atan2(v.Y, v.X) * radToDeg,
		Datum: d,
	}
}
