package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/kdudkov/datumshift/pkg/model"
)

type ControlPointQuery struct {
	Query[model.ControlPoint]
	uid   string
	datum string
	name  string
}

func NewControlPointQuery(db *gorm.DB) *ControlPointQuery {
	q := new(ControlPointQuery)
	q.setDefaults(db, "created_at DESC")

	return q
}

func (q *ControlPointQuery) Order(s string) *ControlPointQuery {
	q.order = s
	return q
}

func (q *ControlPointQuery) Limit(n int) *ControlPointQuery {
	q.limit = n
	return q
}

func (q *ControlPointQuery) Offset(n int) *ControlPointQuery {
	q.offset = n
	return q
}

func (q *ControlPointQuery) UID(uid string) *ControlPointQuery {
	q.uid = uid
	return q
}

// Datum filters on the stored datum; aliases are resolved first.
func (q *ControlPointQuery) Datum(datum string) *ControlPointQuery {
	q.datum = datum
	return q
}

// Name matches a case-insensitive substring.
func (q *ControlPointQuery) Name(name string) *ControlPointQuery {
	q.name = name
	return q
}

func (q *ControlPointQuery) where() *gorm.DB {
	tx := q.db.Model(&model.ControlPoint{})

	if q.uid != "" {
		tx = tx.Where("uid = ?", q.uid)
	}

	if q.datum != "" {
		tx = tx.Where("datum = ?", canonicalDatum(q.datum))
	}

	if q.name != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.name)+"%")
	}

	return tx
}

func (q *ControlPointQuery) Get() []*model.ControlPoint {
	return q.get(q.where())
}

func (q *ControlPointQuery) One() *model.ControlPoint {
	return q.one(q.where())
}

func (q *ControlPointQuery) Count() int64 {
	return q.count(q.where())
}

// Update changes columns in place. Save hooks are skipped: they validate a
// whole record, not a column map.
func (q *ControlPointQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Session(&gorm.Session{SkipHooks: true}), updates)
}

func (q *ControlPointQuery) Delete() error {
	return q.where().Delete(&model.ControlPoint{}).Error
}
