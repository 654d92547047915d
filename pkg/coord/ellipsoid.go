package coord

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEllipsoid = errors.New("unknown ellipsoid")

// Ellipsoid is a reference ellipsoid. Axes are in meters.
type Ellipsoid struct {
	Name       string  `json:"name"`
	MajorAxis  float64 `json:"a"`
	MinorAxis  float64 `json:"b"`
	Flattening float64 `json:"f"`
}

// EccentricitySq returns the first eccentricity squared, (a²-b²)/a².
func (e Ellipsoid) EccentricitySq() float64 {
	return 2*e.Flattening - e.Flattening*e.Flattening
}

func EllipsoidGRS80() Ellipsoid {
	return Ellipsoid{
		Name:       "GRS80",
		MajorAxis:  6378137,
		MinorAxis:  6356752.314140356,
		Flattening: 1 / 298.257222101,
	}
}

func EllipsoidWGS84() Ellipsoid {
	return Ellipsoid{
		Name:       "WGS84",
		MajorAxis:  6378137,
		MinorAxis:  6356752.314245,
		Flattening: 1 / 298.257223563,
	}
}

// EllipsoidKrasovsky is the Krasovsky 1940 ellipsoid used by SK42.
func EllipsoidKrasovsky() Ellipsoid {
	return Ellipsoid{
		Name:       "Krasovsky 1940",
		MajorAxis:  6378245,
		MinorAxis:  6356863.018773047,
		Flattening: 1 / 298.3,
	}
}

func EllipsoidByName(name string) (Ellipsoid, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GRS80":
		return EllipsoidGRS80(), nil
	case "WGS84":
		return EllipsoidWGS84(), nil
	case "KRASOVSKY", "KRASSOWSKY":
		return EllipsoidKrasovsky(), nil
	}

	return Ellipsoid{}, fmt.Errorf("%w: %s", ErrUnknownEllipsoid, name)
}
