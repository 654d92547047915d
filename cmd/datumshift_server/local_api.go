package main

import (
	"context"
	"embed"
	"net/http"
	"runtime/pprof"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kdudkov/datumshift/pkg/coord"
)

//go:embed templates
var templates embed.FS

type LocalAPI struct {
	f    *fiber.App
	addr string
}

func NewLocalAPI(app *App, addr string) *LocalAPI {
	api := &LocalAPI{addr: addr}

	engine := html.NewFileSystem(http.FS(templates), ".html")

	engine.Delims("[[", "]]")

	api.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true, Views: engine})

	api.f.Get("/", getIndexHandler(app))
	api.f.Get("/stack", getStackHandler())
	api.f.Get("/metrics", getMetricsHandler())

	return api
}

func (api *LocalAPI) Address() string {
	return api.addr
}

func (api *LocalAPI) Listen() error {
	return api.f.Listen(api.addr)
}

func (api *LocalAPI) Shutdown(ctx context.Context) error {
	return api.f.ShutdownWithContext(ctx)
}

type datumRow struct {
	Name      string
	Ellipsoid string
	Transform coord.Helmert
	Points    int64
}

func getIndexHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		rows := make([]datumRow, 0)

		for _, id := range coord.Datums() {
			d := coord.GetDatum(id)
			rows = append(rows, datumRow{
				Name:      id.String(),
				Ellipsoid: d.Ellipsoid.Name,
				Transform: d.Transform,
				Points:    app.counts.Load(id),
			})
		}

		conv := app.Converter()

		data := fiber.Map{
			"version": getVersion(),
			"datums":  rows,
			"indexed": app.index.Size(),
			"strict":  conv.Strict(),
			"legacy":  conv.Legacy(),
		}

		return ctx.Render("templates/index", data)
	}
}

func getStackHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return pprof.Lookup("goroutine").WriteTo(ctx.Response().BodyWriter(), 1)
	}
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{DisableCompression: true},
	))
}
