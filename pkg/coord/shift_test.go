package coord

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPoints = []LatLon{
	{Lat: 38.897957, Lon: -77.03656},
	{Lat: 55.75, Lon: 37.62},
	{Lat: -33.9, Lon: 151.2},
	{Lat: 0, Lon: 0},
	{Lat: 70, Lon: -150},
	{Lat: -60.5, Lon: 20.25},
}

func TestShiftIdentity(t *testing.T) {
	for _, p := range testPoints {
		res := Shift(p.Lat, p.Lon, "WGS84", "WGS84")

		assert.InDelta(t, p.Lat, res.Lat, 1e-9)
		assert.InDelta(t, p.Lon, res.Lon, 1e-9)
	}
}

func TestShiftLegacyIdentity(t *testing.T) {
	c := NewConverter(WithLegacyLongitude())
	require.True(t, c.Legacy())

	for _, p := range testPoints {
		res, err := c.Shift(p.Lat, p.Lon, "WGS84", "WGS84")
		require.NoError(t, err)

		assert.InDelta(t, p.Lat, res.Lat, 1e-9)
		assert.InDelta(t, -p.Lon, res.Lon, 1e-9)
	}
}

func TestShiftInverse(t *testing.T) {
	for _, from := range Datums() {
		for _, to := range Datums() {
			for _, p := range testPoints {
				r1 := Shift(p.Lat, p.Lon, from.String(), to.String())
				r2 := Shift(r1.Lat, r1.Lon, to.String(), from.String())

				assert.InDelta(t, p.Lat, r2.Lat, 1e-6, "%s -> %s -> %s", from, to, from)
				assert.InDelta(t, p.Lon, r2.Lon, 1e-6, "%s -> %s -> %s", from, to, from)
			}
		}
	}
}

func TestShiftThroughHub(t *testing.T) {
	for _, pair := range [][2]string{{"NAD83", "SK42"}, {"SK42", "NAD83"}} {
		for _, p := range testPoints {
			direct := Shift(p.Lat, p.Lon, pair[0], pair[1])

			hub := Shift(p.Lat, p.Lon, pair[0], "WGS84")
			hub = Shift(hub.Lat, hub.Lon, "WGS84", pair[1])

			assert.InDelta(t, hub.Lat, direct.Lat, 1e-12)
			assert.InDelta(t, hub.Lon, direct.Lon, 1e-12)
		}
	}
}

func TestShiftPoles(t *testing.T) {
	for _, lat := range []float64{90, -90} {
		for _, to := range []string{"NAD83", "SK42", "WGS84"} {
			res := Shift(lat, 0, "WGS84", to)

			assert.False(t, math.IsNaN(res.Lat) || math.IsInf(res.Lat, 0), to)
			assert.False(t, math.IsNaN(res.Lon) || math.IsInf(res.Lon, 0), to)
			assert.InDelta(t, lat, res.Lat, 1e-3, to)
		}
	}
}

func TestShiftWhiteHouse(t *testing.T) {
	res := Shift(38.897957, -77.036560, "WGS84", "NAD83")

	assert.InDelta(t, 38.8979339, res.Lat, 1e-7)
	assert.InDelta(t, -77.0365498, res.Lon, 1e-7)

	// the shift is a couple of meters south-east
	dn := (res.Lat - 38.897957) * 111_000
	de := (res.Lon + 77.036560) * 111_000 * math.Cos(38.897957*degToRad)

	assert.InDelta(t, -2.56, dn, 0.05)
	assert.InDelta(t, 0.89, de, 0.05)
}

func TestShiftSK42(t *testing.T) {
	// within a few mm of the GOST R 51794 Molodensky formulas
	res := Shift(57.712277, 33.643766, "WGS84", "SK42")

	assert.InDelta(t, 57.7122808, res.Lat, 1e-6)
	assert.InDelta(t, 33.6458183, res.Lon, 1e-6)
}

func TestShiftUnknownDatumFallback(t *testing.T) {
	p := testPoints[0]

	assert.Equal(t, Shift(p.Lat, p.Lon, "WGS84", "NAD83"), Shift(p.Lat, p.Lon, "ED50", "NAD83"))
	assert.Equal(t, Shift(p.Lat, p.Lon, "WGS84", "NAD83"), Shift(p.Lat, p.Lon, "ITRF08", "NAD83"))
	assert.Equal(t, Shift(p.Lat, p.Lon, "NAD83", "WGS84"), Shift(p.Lat, p.Lon, "NAD83", "nonsense"))
}

func TestShiftStrict(t *testing.T) {
	_, err := ShiftStrict(38.9, -77, "ED50", "NAD83")
	require.ErrorIs(t, err, ErrUnknownDatum)

	_, err = ShiftStrict(38.9, -77, "NAD83", "ED50")
	require.ErrorIs(t, err, ErrUnknownDatum)

	for _, d := range []struct {
		lat, lon float64
		field    string
	}{
		{91, 0, "latitude"},
		{-90.5, 0, "latitude"},
		{math.NaN(), 0, "latitude"},
		{0, 180.1, "longitude"},
		{0, math.Inf(-1), "longitude"},
	} {
		_, err := ShiftStrict(d.lat, d.lon, "WGS84", "NAD83")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, d.field, verr.Field)
	}

	res, err := ShiftStrict(38.897957, -77.036560, "ITRF08", "nad83")
	require.NoError(t, err)
	assert.Equal(t, Shift(38.897957, -77.036560, "WGS84", "NAD83"), res)
}

func TestConverterOptions(t *testing.T) {
	c := NewConverter()
	assert.False(t, c.Strict())
	assert.False(t, c.Legacy())

	c = NewConverter(WithStrict(), WithLegacyLongitude())
	assert.True(t, c.Strict())
	assert.True(t, c.Legacy())

	// validation sees the caller's longitude, not the internal one
	_, err := c.Shift(10, 179, "WGS84", "NAD83")
	require.NoError(t, err)
}

func TestConverterEastPositive(t *testing.T) {
	c := NewConverter(WithStrict(), WithLegacyLongitude()).EastPositive()
	assert.True(t, c.Strict())
	assert.False(t, c.Legacy())

	res, err := c.ShiftID(38.9, -77.0, WGS84, WGS84)
	require.NoError(t, err)
	assert.InDelta(t, -77.0, res.Lon, 1e-9)

	_, err = c.ShiftID(38.9, -181, WGS84, WGS84)
	require.Error(t, err)
}
