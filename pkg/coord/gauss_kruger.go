package coord

import "math"

// GridRef is a Gauss-Krüger rectangular position on the Krasovsky ellipsoid
// (6° zones). Northing is the x axis, Easting carries the zone number in its
// millions, as on SK42 maps.
type GridRef struct {
	Northing int `json:"x" yaml:"x"`
	Easting  int `json:"y" yaml:"y"`
	Zone     int `json:"zone" yaml:"zone"`
}

// WGS84ToGrid shifts a WGS84 position to SK42 and projects it.
func WGS84ToGrid(lat, lon float64) GridRef {
	res, _ := defaultConverter.ShiftID(lat, lon, WGS84, SK42)

	return ToGaussKruger(res.Lat, res.Lon)
}

// GridToWGS84 is the inverse of WGS84ToGrid.
func GridToWGS84(x, y int) (float64, float64) {
	lat, lon := FromGaussKruger(x, y)
	res, _ := defaultConverter.ShiftID(lat, lon, SK42, WGS84)

	return res.Lat, res.Lon
}

// ToGaussKruger projects SK42 geographic coordinates. Zones are numbered
// 1..60 eastward from Greenwich, so western longitudes fall in zones 31..60.
func ToGaussKruger(lat, lon float64) GridRef {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}

	zone := int(lon/6.0) + 1

	ell := EllipsoidKrasovsky()
	ka := ell.MajorAxis
	kb := ell.MinorAxis
	ke := (ka*ka - kb*kb) / (ka * ka)
	n := (ka - kb) / (ka + kb)

	// zone parameters
	f := 1.0                                  // scale factor
	lat0 := 0.0                               // origin parallel, radians
	lon0 := float64(zone*6-3) * math.Pi / 180 // central meridian, radians
	n0 := 0.0                                 // false northing
	e0 := float64(zone)*1e6 + 500000.0        // false easting

	latR := lat * math.Pi / 180.0
	lonR := lon * math.Pi / 180.0

	sinLat := math.Sin(latR)
	cosLat := math.Cos(latR)
	tanLat := math.Tan(latR)

	v := ka * f * math.Pow(1-ke*math.Pow(sinLat, 2), -0.5)
	p := ka * f * (1 - ke) * math.Pow(1-ke*math.Pow(sinLat, 2), -1.5)
	n2 := v/p - 1

	m1 := (1 + n + 5.0/4.0*math.Pow(n, 2) + 5.0/4.0*math.Pow(n, 3)) * (latR - lat0)
	m2 := (3*n + 3*math.Pow(n, 2) + 21.0/8.0*math.Pow(n, 3)) * math.Sin(latR-lat0) * math.Cos(latR+lat0)
	m3 := (15.0/8.0*math.Pow(n, 2) + 15.0/8.0*math.Pow(n, 3)) * math.Sin(2*(latR-lat0)) * math.Cos(2*(latR+lat0))
	m4 := 35.0 / 24.0 * math.Pow(n, 3) * math.Sin(3*(latR-lat0)) * math.Cos(3*(latR+lat0))
	m := kb * f * (m1 - m2 + m3 - m4)

	t1 := m + n0
	t2 := v / 2 * sinLat * cosLat
	t3 := v / 24 * sinLat * math.Pow(cosLat, 3) * (5 - math.Pow(tanLat, 2) + 9*n2)
	t3a := v / 720 * sinLat * math.Pow(cosLat, 5) * (61 - 58*math.Pow(tanLat, 2) + math.Pow(tanLat, 4))
	t4 := v * cosLat
	t5 := v / 6 * math.Pow(cosLat, 3) * (v/p - math.Pow(tanLat, 2))
	t6 := v / 120 * math.Pow(cosLat, 5) * (5 - 18*math.Pow(tanLat, 2) + math.Pow(tanLat, 4) + 14*n2 - 58*math.Pow(tanLat, 2)*n2)

	dl := lonR - lon0

	north := t1 + t2*math.Pow(dl, 2) + t3*math.Pow(dl, 4) + t3a*math.Pow(dl, 6)
	east := e0 + t4*dl + t5*math.Pow(dl, 3) + t6*math.Pow(dl, 5)

	return GridRef{Northing: int(math.Round(north)), Easting: int(math.Round(east)), Zone: zone}
}

// FromGaussKruger returns SK42 geographic coordinates of a grid position.
// GOST 51794-2001 equations 29-36.
func FromGaussKruger(x, y int) (float64, float64) {
	n := float64(int(float64(y) * 0.000001))

	b := float64(x) / 6367558.4968
	b0 := b + math.Sin(2*b)*(0.00252588685-0.00001491860*(math.Pow(math.Sin(b), 2))+0.00000011904*(math.Pow(math.Sin(b), 4)))
	z0 := (float64(y) - (10*n+5)*100000) / (6378245.0 * math.Cos(b0))
	zz := z0 * z0

	s2 := math.Pow(math.Sin(b0), 2)
	s4 := math.Pow(math.Sin(b0), 4)
	s6 := math.Pow(math.Sin(b0), 6)

	lat := b0 - zz*math.Sin(2*b0)*(0.251684631-0.003369263*s2+0.000011276*s4-
		zz*(0.10500614-0.04559916*s2+0.00228901*s4-0.00002987*s6-
			zz*(0.042858-0.025318*s2+0.014346*s4-0.001264*s6-
				zz*(0.01672-0.00630*s2+0.01188*s4-0.00328*s6))))

	lon := 6*(n-0.5)/57.29577951 + z0*(1-0.0033467108*s2-0.0000056002*s4-0.0000000187*s6-
		zz*(0.16778975+0.16273586*s2-0.00052490*s4-0.00000846*s6-
			zz*(0.0420025+0.1487407*s2-0.0059420*s4-0.0000150*s6-
				zz*(0.01225+0.09477*s2-0.03282*s4-0.00034*s6-
					zz*(0.0038+0.0524*s2-0.0482*s4-0.0032*s6)))))

	lon *= radToDeg
	if lon >= 180 {
		lon -= 360
	}

	return lat * radToDeg, lon
}
