package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kdudkov/datumshift/pkg/coord"
)

// ControlPoint is a surveyed position stored on the datum it was measured in.
type ControlPoint struct {
	ID        uint      `gorm:"primaryKey" json:"-" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	UID       string    `gorm:"uniqueIndex;size:255" json:"uid" yaml:"uid"`
	Name      string    `gorm:"index;size:255" json:"name" yaml:"name"`
	Datum     string    `gorm:"index;size:32" json:"datum" yaml:"datum"`
	Lat       float64   `json:"lat" yaml:"lat"`
	Lon       float64   `json:"lon" yaml:"lon"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
}

func NewControlPoint(name, datum string, lat, lon float64) *ControlPoint {
	return &ControlPoint{
		UID:   uuid.NewString(),
		Name:  name,
		Datum: datum,
		Lat:   lat,
		Lon:   lon,
	}
}

func (p *ControlPoint) String() string {
	if p == nil {
		return "nil"
	}

	return fmt.Sprintf("%s %s %.6f,%.6f %s", p.UID, p.Name, p.Lat, p.Lon, p.Datum)
}

func (p *ControlPoint) DatumID() coord.DatumID {
	return coord.LookupDatumID(p.Datum)
}

// In returns the point's position on the target datum.
func (p *ControlPoint) In(target coord.DatumID) coord.LatLon {
	res, _ := coord.NewConverter().ShiftID(p.Lat, p.Lon, p.DatumID(), target)

	return res
}

// WGS84 is the position the spatial index is keyed on.
func (p *ControlPoint) WGS84() coord.LatLon {
	return p.In(coord.WGS84)
}

func (p *ControlPoint) BeforeSave(_ *gorm.DB) error {
	if p == nil {
		return nil
	}

	if p.UID == "" {
		return fmt.Errorf("empty uid")
	}

	id, err := coord.ParseDatumID(p.Datum)
	if err != nil {
		return err
	}

	// stored under the canonical name
	p.Datum = id.String()

	return coord.Validate(p.Lat, p.Lon)
}

// ControlPointDTO is a control point as seen from a requested datum.
type ControlPointDTO struct {
	UID       string    `json:"uid" yaml:"uid"`
	Name      string    `json:"name" yaml:"name"`
	Datum     string    `json:"datum" yaml:"datum"`
	Lat       float64   `json:"lat" yaml:"lat"`
	Lon       float64   `json:"lon" yaml:"lon"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
	Stored    string    `json:"stored_datum" yaml:"stored_datum"`
	Distance  *float64  `json:"distance,omitempty" yaml:"distance,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

func (p *ControlPoint) DTO(target coord.DatumID) *ControlPointDTO {
	if p == nil {
		return nil
	}

	pos := p.In(target)

	return &ControlPointDTO{
		UID:       p.UID,
		Name:      p.Name,
		Datum:     target.String(),
		Lat:       pos.Lat,
		Lon:       pos.Lon,
		Note:      p.Note,
		Stored:    p.Datum,
		UpdatedAt: p.UpdatedAt,
	}
}
