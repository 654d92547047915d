package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/kdudkov/datumshift/pkg/coord"
	"github.com/kdudkov/datumshift/pkg/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	m := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return m
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) ControlPointQuery() *ControlPointQuery {
	return NewControlPointQuery(mm.db)
}

// SaveControlPoint creates the point or updates the existing one with the same uid.
func (mm *DatabaseManager) SaveControlPoint(p *model.ControlPoint) error {
	if p == nil {
		return fmt.Errorf("nil point")
	}

	old := mm.ControlPointQuery().UID(p.UID).One()
	if old == nil {
		p.ID = 0
		return mm.Create(p)
	}

	p.ID = old.ID
	p.CreatedAt = old.CreatedAt

	return mm.Save(p)
}

// UpdateControlPoint changes the descriptive fields of a stored point. The
// position is not touched, so the index stays valid.
func (mm *DatabaseManager) UpdateControlPoint(uid, name, note string) error {
	if uid == "" {
		return fmt.Errorf("empty uid")
	}

	return mm.ControlPointQuery().UID(uid).Update(map[string]any{"name": name, "note": note})
}

func (mm *DatabaseManager) DeleteControlPoint(uid string) error {
	if uid == "" {
		return fmt.Errorf("empty uid")
	}

	return mm.ControlPointQuery().UID(uid).Delete()
}

// AllControlPoints pages through the whole catalog.
func (mm *DatabaseManager) AllControlPoints() []*model.ControlPoint {
	var res []*model.ControlPoint

	for offset := 0; ; {
		page := mm.ControlPointQuery().Order("id").Limit(500).Offset(offset).Get()
		res = append(res, page...)

		if len(page) < 500 {
			return res
		}

		offset += len(page)
	}
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	// Migrate the schema
	if err := mm.db.AutoMigrate(
		&model.ControlPoint{},
	); err != nil {
		return err
	}

	return nil
}

func canonicalDatum(name string) string {
	if id, err := coord.ParseDatumID(name); err == nil {
		return id.String()
	}

	return name
}
