package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatumID(t *testing.T) {
	for _, d := range []struct {
		name string
		id   DatumID
	}{
		{"WGS84", WGS84},
		{"wgs84", WGS84},
		{"ITRF08", WGS84},
		{" NAD83 ", NAD83},
		{"nad83", NAD83},
		{"SK42", SK42},
		{"Pulkovo42", SK42},
	} {
		id, err := ParseDatumID(d.name)
		require.NoError(t, err, d.name)
		assert.Equal(t, d.id, id, d.name)
	}

	_, err := ParseDatumID("ED50")
	require.ErrorIs(t, err, ErrUnknownDatum)
}

func TestLookupDatumIDFallback(t *testing.T) {
	assert.Equal(t, NAD83, LookupDatumID("NAD83"))
	assert.Equal(t, WGS84, LookupDatumID("ITRF08"))
	assert.Equal(t, WGS84, LookupDatumID("ED50"))
	assert.Equal(t, WGS84, LookupDatumID(""))
}

func TestGetDatum(t *testing.T) {
	w := GetDatum(WGS84)
	assert.True(t, w.Transform.IsIdentity())
	assert.Equal(t, EllipsoidWGS84(), w.Ellipsoid)

	n := GetDatum(NAD83)
	assert.Equal(t, NAD83, n.ID)
	assert.Equal(t, EllipsoidGRS80(), n.Ellipsoid)
	assert.False(t, n.Transform.IsIdentity())

	// returned values are copies
	n.Transform.Tx = 1000
	n.Ellipsoid.MajorAxis = 1
	assert.InDelta(t, 0.99343, GetDatum(NAD83).Transform.Tx, 1e-12)
	assert.InDelta(t, 6378137, GetDatum(NAD83).Ellipsoid.MajorAxis, 1e-12)

	assert.Equal(t, WGS84, GetDatum(DatumID(42)).ID)
}

func TestDatumsAreStarShaped(t *testing.T) {
	ids := Datums()
	require.Equal(t, WGS84, ids[0])

	for _, id := range ids[1:] {
		assert.False(t, GetDatum(id).Transform.IsIdentity(), id.String())
	}
}

func TestNegate(t *testing.T) {
	h := GetDatum(SK42).Transform
	n := h.Negate()

	assert.Equal(t, -h.Tx, n.Tx)
	assert.Equal(t, -h.S, n.S)
	assert.Equal(t, -h.Rz, n.Rz)
	assert.Equal(t, h, n.Negate())
}

func TestEllipsoidByName(t *testing.T) {
	e, err := EllipsoidByName("grs80")
	require.NoError(t, err)
	assert.Equal(t, EllipsoidGRS80(), e)

	e, err = EllipsoidByName("Krasovsky")
	require.NoError(t, err)
	assert.InDelta(t, 6378245, e.MajorAxis, 1e-9)

	_, err = EllipsoidByName("Clarke1866")
	require.ErrorIs(t, err, ErrUnknownEllipsoid)
}

func TestEllipsoidAxes(t *testing.T) {
	for _, e := range []Ellipsoid{EllipsoidGRS80(), EllipsoidWGS84(), EllipsoidKrasovsky()} {
		assert.InDelta(t, e.MajorAxis*(1-e.Flattening), e.MinorAxis, 0.001)
	}

	assert.Equal(t, "Krasovsky 1940", GetDatum(SK42).Ellipsoid.Name)
	assert.Equal(t, "GRS80", GetDatum(NAD83).Ellipsoid.Name)
}
