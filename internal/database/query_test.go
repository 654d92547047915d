package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kdudkov/datumshift/pkg/coord"
	"github.com/kdudkov/datumshift/pkg/model"
)

func getTestDatabase() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		panic("failed to connect database")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func TestGetDatabase(t *testing.T) {
	db, err := GetDatabase(":memory:", false)
	require.NoError(t, err)

	m := New(db)
	require.NoError(t, m.Migrate())
	require.NoError(t, m.Save(model.NewControlPoint("a", "WGS84", 1, 2)))
	assert.EqualValues(t, 1, m.ControlPointQuery().Count())
}

func getTestManager(t *testing.T) *DatabaseManager {
	t.Helper()

	m := New(getTestDatabase())
	require.NoError(t, m.Migrate())

	return m
}

func TestControlPointQuery(t *testing.T) {
	m := getTestManager(t)

	require.NoError(t, m.Save(model.NewControlPoint("Base north", "WGS84", 55.1, 37.1)))
	require.NoError(t, m.Save(model.NewControlPoint("Base south", "sk-42", 54.9, 37.2)))
	require.NoError(t, m.Save(model.NewControlPoint("Pillar", "NAD83", 38.9, -77.03)))

	assert.EqualValues(t, 3, m.ControlPointQuery().Count())
	assert.EqualValues(t, 1, m.ControlPointQuery().Datum("pulkovo42").Count())
	assert.EqualValues(t, 2, m.ControlPointQuery().Name("base").Count())
	assert.Len(t, m.ControlPointQuery().Limit(2).Get(), 2)
	assert.Len(t, m.ControlPointQuery().Order("id").Offset(2).Get(), 1)

	p := m.ControlPointQuery().Name("pillar").One()
	require.NotNil(t, p)
	assert.Equal(t, "NAD83", p.Datum)
	assert.Equal(t, coord.NAD83, p.DatumID())

	assert.Nil(t, m.ControlPointQuery().UID("nope").One())
}

func TestControlPointRejected(t *testing.T) {
	m := getTestManager(t)

	require.ErrorIs(t, m.Save(model.NewControlPoint("x", "ED50", 1, 1)), coord.ErrUnknownDatum)
	require.Error(t, m.Save(&model.ControlPoint{Name: "no uid", Datum: "WGS84"}))

	assert.EqualValues(t, 0, m.ControlPointQuery().Count())
}

func TestSaveControlPoint(t *testing.T) {
	m := getTestManager(t)

	p := model.NewControlPoint("a", "WGS84", 10, 20)
	require.NoError(t, m.SaveControlPoint(p))

	p2 := &model.ControlPoint{UID: p.UID, Name: "b", Datum: "SK42", Lat: 11, Lon: 21}
	require.NoError(t, m.SaveControlPoint(p2))

	assert.EqualValues(t, 1, m.ControlPointQuery().Count())

	res := m.ControlPointQuery().UID(p.UID).One()
	require.NotNil(t, res)
	assert.Equal(t, "b", res.Name)
	assert.Equal(t, "SK42", res.Datum)

	require.NoError(t, m.ControlPointQuery().UID(p.UID).Update(map[string]any{"note": "moved"}))
	assert.Equal(t, "moved", m.ControlPointQuery().UID(p.UID).One().Note)

	require.Error(t, m.ControlPointQuery().UID("nope").Update(map[string]any{"note": "x"}))

	require.NoError(t, m.UpdateControlPoint(p.UID, "renamed", "checked"))
	res = m.ControlPointQuery().UID(p.UID).One()
	require.NotNil(t, res)
	assert.Equal(t, "renamed", res.Name)
	assert.Equal(t, "checked", res.Note)
	assert.Equal(t, "SK42", res.Datum)

	require.Error(t, m.UpdateControlPoint("", "x", "y"))
	require.Error(t, m.UpdateControlPoint("nope", "x", "y"))

	require.NoError(t, m.DeleteControlPoint(p.UID))
	assert.EqualValues(t, 0, m.ControlPointQuery().Count())
	require.Error(t, m.DeleteControlPoint(""))
}

func TestAllControlPoints(t *testing.T) {
	m := getTestManager(t)

	for i := 0; i < 1100; i++ {
		require.NoError(t, m.Create(model.NewControlPoint("p", "WGS84", float64(i%90), 0)))
	}

	assert.Len(t, m.AllControlPoints(), 1100)
}
