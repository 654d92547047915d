package main

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kdudkov/datumshift/pkg/coord"
	"github.com/kdudkov/datumshift/pkg/log"
	"github.com/kdudkov/datumshift/pkg/model"
)

type API struct {
	f    *fiber.App
	addr string
}

func NewAPI(app *App, addr string) *API {
	api := &API{addr: addr}

	api.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true})

	api.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", Level: logLevel(app), DoMetrics: true}))

	api.f.Get("/api/datums", getDatumsHandler())
	api.f.Get("/api/shift", getShiftHandler(app))
	api.f.Get("/api/parse", getParseHandler(app))
	api.f.Get("/api/grid", getGridHandler(app))

	api.f.Get("/api/points", getPointsHandler(app))
	api.f.Post("/api/points", addPointHandler(app))
	api.f.Get("/api/points/nearest", getNearestHandler(app))
	api.f.Get("/api/points/:uid", getPointHandler(app))
	api.f.Patch("/api/points/:uid", patchPointHandler(app))
	api.f.Delete("/api/points/:uid", deletePointHandler(app))

	return api
}

func (api *API) Address() string {
	return api.addr
}

func (api *API) Listen() error {
	return api.f.Listen(api.addr)
}

func (api *API) Shutdown(ctx context.Context) error {
	return api.f.ShutdownWithContext(ctx)
}

func logLevel(app *App) slog.Level {
	if app.logAll {
		return slog.LevelInfo
	}

	return slog.LevelDebug
}

type datumInfo struct {
	Name      string          `json:"name"`
	Hub       bool            `json:"hub"`
	Ellipsoid coord.Ellipsoid `json:"ellipsoid"`
	Transform coord.Helmert   `json:"transform"`
}

func getDatumsHandler() fiber.Handler {
	res := make([]*datumInfo, 0)

	for _, id := range coord.Datums() {
		d := coord.GetDatum(id)
		res = append(res, &datumInfo{
			Name:      id.String(),
			Hub:       id == coord.WGS84,
			Ellipsoid: d.Ellipsoid,
			Transform: d.Transform,
		})
	}

	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(res)
	}
}

type shiftResult struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Datum  string  `json:"datum"`
	Origin string  `json:"origin,omitempty"`
}

func getShiftHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		lat, lon, err := latLonParams(ctx)
		if err != nil {
			shiftErrorMetric.WithLabelValues("params").Inc()
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		st := app.Settings()

		from, err := datumParam(ctx, st, "from")
		if err != nil {
			shiftErrorMetric.WithLabelValues("datum").Inc()
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		to, err := datumParam(ctx, st, "to")
		if err != nil {
			shiftErrorMetric.WithLabelValues("datum").Inc()
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		res, err := st.conv.ShiftID(lat, lon, from, to)
		if err != nil {
			shiftErrorMetric.WithLabelValues("range").Inc()
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		shiftMetric.WithLabelValues(from.String(), to.String()).Inc()

		return ctx.JSON(&shiftResult{Lat: res.Lat, Lon: res.Lon, Datum: to.String(), Origin: from.String()})
	}
}

func getParseHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		lat, lon, err := coord.ParseLatLon(ctx.Query("s"))
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		st := app.Settings()

		to, err := datumParam(ctx, st, "to")
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		res, err := st.conv.ShiftID(lat, lon, coord.WGS84, to)
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		shiftMetric.WithLabelValues(coord.WGS84.String(), to.String()).Inc()

		return ctx.JSON(&shiftResult{Lat: res.Lat, Lon: res.Lon, Datum: to.String()})
	}
}

// getGridHandler takes an east-positive WGS84 position regardless of the
// legacy setting.
func getGridHandler(_ *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		lat, lon, err := latLonParams(ctx)
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		if err := coord.Validate(lat, lon); err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		shiftMetric.WithLabelValues(coord.WGS84.String(), coord.SK42.String()).Inc()

		return ctx.JSON(coord.WGS84ToGrid(lat, lon))
	}
}

func getPointsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		st := app.Settings()

		target, err := datumParam(ctx, st, "datum")
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		var points []*model.ControlPoint

		if bbox := ctx.Query("bbox"); bbox != "" {
			b, err := parseBBox(bbox)
			if err != nil {
				return sendError(ctx, fiber.StatusBadRequest, err)
			}

			points = app.index.Within(b[0], b[1], b[2], b[3])
		} else {
			points = app.dbm.ControlPointQuery().
				Name(ctx.Query("name")).
				Datum(ctx.Query("stored")).
				Limit(ctx.QueryInt("limit", 100)).
				Offset(ctx.QueryInt("offset", 0)).
				Get()
		}

		res := make([]*model.ControlPointDTO, 0, len(points))
		for _, p := range points {
			res = append(res, p.DTO(target))
		}

		return ctx.JSON(res)
	}
}

func getPointHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		st := app.Settings()

		target, err := datumParam(ctx, st, "datum")
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		p := app.dbm.ControlPointQuery().UID(ctx.Params("uid")).One()
		if p == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(p.DTO(target))
	}
}

func addPointHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p := new(model.ControlPoint)

		if err := ctx.BodyParser(p); err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		p.ID = 0

		if p.UID == "" {
			p.UID = uuid.NewString()
		}

		if err := app.dbm.SaveControlPoint(p); err != nil {
			var verr *coord.ValidationError
			if errors.Is(err, coord.ErrUnknownDatum) || errors.As(err, &verr) {
				return sendError(ctx, fiber.StatusBadRequest, err)
			}

			return err
		}

		app.index.Add(p)
		app.counts.Reset()
		pointsMetric.Set(float64(app.index.Size()))

		return ctx.Status(fiber.StatusCreated).JSON(p.DTO(p.DatumID()))
	}
}

type pointPatch struct {
	Name *string `json:"name"`
	Note *string `json:"note"`
}

// patchPointHandler changes name and note. Moving a point is a POST with the same uid.
func patchPointHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p := app.dbm.ControlPointQuery().UID(ctx.Params("uid")).One()
		if p == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		patch := new(pointPatch)
		if err := ctx.BodyParser(patch); err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		if patch.Name != nil {
			p.Name = *patch.Name
		}

		if patch.Note != nil {
			p.Note = *patch.Note
		}

		if err := app.dbm.UpdateControlPoint(p.UID, p.Name, p.Note); err != nil {
			return err
		}

		app.index.Add(p)

		return ctx.JSON(p.DTO(p.DatumID()))
	}
}

func deletePointHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p := app.dbm.ControlPointQuery().UID(ctx.Params("uid")).One()
		if p == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if err := app.dbm.DeleteControlPoint(p.UID); err != nil {
			return err
		}

		app.index.Remove(p.UID)
		app.counts.Invalidate(p.DatumID())
		pointsMetric.Set(float64(app.index.Size()))

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

// getNearestHandler takes lat/lon on the "datum" datum and answers on it too.
func getNearestHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		lat, lon, err := latLonParams(ctx)
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		st := app.Settings()

		datum, err := datumParam(ctx, st, "datum")
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		// the index is keyed on east-positive WGS84 whatever the legacy setting
		pos, err := st.conv.EastPositive().ShiftID(lat, lon, datum, coord.WGS84)
		if err != nil {
			return sendError(ctx, fiber.StatusBadRequest, err)
		}

		k := min(max(ctx.QueryInt("k", 5), 1), st.nearestLimit)

		points := app.index.Nearest(pos.Lat, pos.Lon, k)

		res := make([]*model.ControlPointDTO, 0, len(points))
		for _, p := range points {
			res = append(res, p.DTO(datum).WithDistance(p, pos.Lat, pos.Lon))
		}

		return ctx.JSON(res)
	}
}

// datumParam reads a datum name from the query, falling back to the
// configured default. Unknown names fail only on a strict converter.
func datumParam(ctx *fiber.Ctx, st *settings, key string) (coord.DatumID, error) {
	name := ctx.Query(key)
	if name == "" {
		name = st.defaultDatum
	}

	if st.conv.Strict() {
		return coord.ParseDatumID(name)
	}

	return coord.LookupDatumID(name), nil
}

func latLonParams(ctx *fiber.Ctx) (float64, float64, error) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return 0, 0, errors.New("bad lat parameter")
	}

	lon, err := strconv.ParseFloat(ctx.Query("lon"), 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, 0, errors.New("bad lon parameter")
	}

	return lat, lon, nil
}

// parseBBox reads "minLat,minLon,maxLat,maxLon".
func parseBBox(s string) ([4]float64, error) {
	var res [4]float64

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return res, errors.New("bbox must be minLat,minLon,maxLat,maxLon")
	}

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return res, errors.New("bad bbox value " + strconv.Quote(p))
		}

		res[i] = v
	}

	return res, nil
}

func sendError(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
