package coord

import (
	"fmt"
	"math"
)

// legacyLongitudeSign is the historical east-negative convention: longitude
// is negated before the geometric work and the sign is not restored.
const legacyLongitudeSign = -1

// LatLon is the result of a datum shift, decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// Converter shifts coordinates between datums. The zero value is the lenient
// converter: unknown datum names are WGS84 and inputs are not validated.
type Converter struct {
	strict bool
	legacy bool
}

type Option func(c *Converter)

// WithStrict makes unknown datum names and out-of-range inputs errors.
func WithStrict() Option {
	return func(c *Converter) {
		c.strict = true
	}
}

// WithLegacyLongitude reproduces the east-negative longitude convention, so
// that a WGS84 -> WGS84 shift returns (lat, -lon).
func WithLegacyLongitude() Option {
	return func(c *Converter) {
		c.legacy = true
	}
}

func NewConverter(opts ...Option) *Converter {
	c := new(Converter)

	for _, o := range opts {
		o(c)
	}

	return c
}

func (c *Converter) Strict() bool {
	return c.strict
}

func (c *Converter) Legacy() bool {
	return c.legacy
}

// EastPositive returns a converter with the same strictness and the usual
// longitude sign. Stored positions are always east-positive.
func (c *Converter) EastPositive() *Converter {
	return &Converter{strict: c.strict}
}

// Shift converts lat/lon given on datum origin to datum target.
func (c *Converter) Shift(lat, lon float64, origin, target string) (LatLon, error) {
	from, to, err := c.resolve(origin, target)
	if err != nil {
		return LatLon{}, err
	}

	return c.ShiftID(lat, lon, from, to)
}

// ShiftID is Shift with already resolved datums.
func (c *Converter) ShiftID(lat, lon float64, from, to DatumID) (LatLon, error) {
	if c.strict {
		if err := Validate(lat, lon); err != nil {
			return LatLon{}, err
		}
	}

	if c.legacy {
		lon *= legacyLongitudeSign
	}

	res := convertDatum(Coordinates{Lat: lat, Lon: lon, Datum: GetDatum(from)}, GetDatum(to))

	return LatLon{Lat: res.Lat, Lon: res.Lon}, nil
}

func (c *Converter) resolve(origin, target string) (DatumID, DatumID, error) {
	if !c.strict {
		return LookupDatumID(origin), LookupDatumID(target), nil
	}

	from, err := ParseDatumID(origin)
	if err != nil {
		return WGS84, WGS84, err
	}

	to, err := ParseDatumID(target)
	if err != nil {
		return WGS84, WGS84, err
	}

	return from, to, nil
}

// Validate checks that lat/lon are finite and within the geographic range.
func Validate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return &ValidationError{Field: "latitude", Value: lat}
	}

	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return &ValidationError{Field: "longitude", Value: lon}
	}

	return nil
}

var defaultConverter = &Converter{}

// Shift converts with the lenient converter; it never fails.
func Shift(lat, lon float64, origin, target string) LatLon {
	res, _ := defaultConverter.Shift(lat, lon, origin, target)
	return res
}

// ShiftStrict rejects unknown datums and out-of-range coordinates.
func ShiftStrict(lat, lon float64, origin, target string) (LatLon, error) {
	return NewConverter(WithStrict()).Shift(lat, lon, origin, target)
}

// convertDatum picks the transform direction. WGS84 is the hub: a shift
// between two other datums goes through it.
func convertDatum(c Coordinates, target Datum) Coordinates {
	var t Helmert

	switch {
	case c.Datum.ID == WGS84:
		t = target.Transform
	case target.ID == WGS84:
		t = c.Datum.Transform.Negate()
	default:
		c = convertDatum(c, datumWGS84())
		t = target.Transform
	}

	return ToGeodetic(t.Apply(ToCartesian(c)), target)
}
