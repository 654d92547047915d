package coord

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDatum = errors.New("unknown datum")

type DatumID int

// WGS84 is the hub: every other datum is defined by its offset from it.
const (
	WGS84 DatumID = iota
	NAD83
	SK42
)

// ITRF08 is accepted as a name only and is numerically WGS84.
const itrf08Alias = "ITRF08"

func (d DatumID) String() string {
	switch d {
	case WGS84:
		return "WGS84"
	case NAD83:
		return "NAD83"
	case SK42:
		return "SK42"
	default:
		return fmt.Sprintf("DatumID(%d)", int(d))
	}
}

// Datums lists every datum the registry knows, hub first.
func Datums() []DatumID {
	return []DatumID{WGS84, NAD83, SK42}
}

// Helmert holds the 7 Bursa-Wolf parameters. Translations are in meters,
// scale in parts per million, rotations in arc-seconds.
type Helmert struct {
	Tx float64 `json:"tx"`
	Ty float64 `json:"ty"`
	Tz float64 `json:"tz"`
	S  float64 `json:"s"`
	Rx float64 `json:"rx"`
	Ry float64 `json:"ry"`
	Rz float64 `json:"rz"`
}

// Negate returns the parameters for the opposite direction. Valid only as a
// small-angle, small-scale approximation.
func (h Helmert) Negate() Helmert {
	return Helmert{
		Tx: -h.Tx,
		Ty: -h.Ty,
		Tz: -h.Tz,
		S:  -h.S,
		Rx: -h.Rx,
		Ry: -h.Ry,
		Rz: -h.Rz,
	}
}

func (h Helmert) IsIdentity() bool {
	return h == Helmert{}
}

// Datum is a geodetic reference frame. Transform is applied to move a WGS84
// position into this datum; its negation moves a position back to the hub.
type Datum struct {
	ID        DatumID   `json:"id"`
	Ellipsoid Ellipsoid `json:"ellipsoid"`
	Transform Helmert   `json:"transform"`
}

// GetDatum returns a fresh Datum value. Ids outside the registry resolve to WGS84.
func GetDatum(id DatumID) Datum {
	switch id {
	case NAD83:
		return datumNAD83()
	case SK42:
		return datumSK42()
	default:
		return datumWGS84()
	}
}

func datumWGS84() Datum {
	return Datum{
		ID:        WGS84,
		Ellipsoid: EllipsoidWGS84(),
	}
}

func datumNAD83() Datum {
	return Datum{
		ID:        NAD83,
		Ellipsoid: EllipsoidGRS80(),
		Transform: Helmert{
			Tx: 0.99343,
			Ty: -1.90331,
			Tz: -0.52655,
			S:  0.00171504,
			Rx: 0.02591458,
			Ry: 0.00942655,
			Rz: 0.01159929,
		},
	}
}

// datumSK42 is Pulkovo 1942. GOST R 51794-2001 gives SK42 -> WGS84 as
// dx=23.92 dy=-141.27 dz=-80.9 wy=-0.35" wz=-0.82" m=-0.12ppm in the
// coordinate frame convention; stored here negated and in position vector form.
func datumSK42() Datum {
	return Datum{
		ID:        SK42,
		Ellipsoid: EllipsoidKrasovsky(),
		Transform: Helmert{
			Tx: -23.92,
			Ty: 141.27,
			Tz: 80.9,
			S:  0.12,
			Rx: 0,
			Ry: -0.35,
			Rz: -0.82,
		},
	}
}

// ParseDatumID resolves a datum name, case-insensitive.
func ParseDatumID(name string) (DatumID, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "WGS84", itrf08Alias:
		return WGS84, nil
	case "NAD83":
		return NAD83, nil
	case "SK42", "SK-42", "PULKOVO42":
		return SK42, nil
	}

	return WGS84, fmt.Errorf("%w: %q", ErrUnknownDatum, name)
}

// LookupDatumID is the lenient form of ParseDatumID: anything it does not
// recognise is WGS84.
func LookupDatumID(name string) DatumID {
	id, _ := ParseDatumID(name)
	return id
}
