package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kdudkov/datumshift/internal/cache"
	"github.com/kdudkov/datumshift/internal/config"
	"github.com/kdudkov/datumshift/internal/database"
	"github.com/kdudkov/datumshift/internal/index"
	"github.com/kdudkov/datumshift/pkg/coord"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

// settings are the hot-reloadable config values. A snapshot is never
// modified, a config change stores a new one.
type settings struct {
	conv         *coord.Converter
	defaultDatum string
	nearestLimit int
}

type App struct {
	cfg      *config.AppConfig
	dbm      *database.DatabaseManager
	index    *index.Index
	counts   *cache.Cache[coord.DatumID, int64]
	settings atomic.Pointer[settings]
	logAll   bool
	logger   *slog.Logger
}

func NewApp(cfg *config.AppConfig) (*App, error) {
	app := &App{
		cfg:    cfg,
		index:  index.New(),
		logAll: cfg.LogAll(),
		logger: slog.Default().With("logger", "app"),
	}

	db, err := database.GetDatabase(cfg.DB(), cfg.Bool("debug"))
	if err != nil {
		return nil, err
	}

	app.dbm = database.New(db)

	app.counts = cache.NewWithTTL(time.Second*30, func(id coord.DatumID) int64 {
		return app.dbm.ControlPointQuery().Datum(id.String()).Count()
	})

	if err := app.dbm.Migrate(); err != nil {
		return nil, err
	}

	app.reloadSettings()

	return app, nil
}

// Settings returns the current config snapshot.
func (app *App) Settings() *settings {
	return app.settings.Load()
}

// Converter is the shift engine configured by the current config file.
func (app *App) Converter() *coord.Converter {
	return app.Settings().conv
}

func (app *App) reloadSettings() {
	var opts []coord.Option

	if app.cfg.Strict() {
		opts = append(opts, coord.WithStrict())
	}

	if app.cfg.Legacy() {
		opts = append(opts, coord.WithLegacyLongitude())
	}

	st := &settings{
		conv:         coord.NewConverter(opts...),
		defaultDatum: app.cfg.DefaultDatum(),
		nearestLimit: max(app.cfg.NearestLimit(), 1),
	}

	app.settings.Store(st)

	app.logger.Info(fmt.Sprintf("converter: strict %t, legacy longitude %t, default datum %s",
		st.conv.Strict(), st.conv.Legacy(), st.defaultDatum))
}

func (app *App) loadIndex() {
	points := app.dbm.AllControlPoints()
	app.index.Load(points)
	pointsMetric.Set(float64(app.index.Size()))

	app.logger.Info(fmt.Sprintf("%d control points indexed", len(points)))
}

func (app *App) Run(ctx context.Context) error {
	app.loadIndex()

	srv := NewHttp(app)

	if err := srv.Start(); err != nil {
		return err
	}

	if err := app.cfg.Watch(ctx, app.reloadSettings); err != nil {
		app.logger.Error("config watch error", slog.Any("error", err))
	}

	<-ctx.Done()
	app.logger.Info("exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func getVersion() string {
	return fmt.Sprintf("%s:%s", gitBranch, gitRevision)
}

func main() {
	fmt.Printf("version %s\n", getVersion())

	var debug = flag.Bool("debug", false, "debug node")
	var conf = flag.String("config", "datumshift.yml", "name of config file")
	flag.Parse()

	var h slog.Handler
	if *debug {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))

	cfg := config.NewAppConfig()
	cfg.Load(*conf)

	if err := cfg.LoadEnv(config.EnvPrefix, ".env"); err != nil {
		slog.Error("env load error", slog.Any("error", err))
	}

	cfg.Set("debug", *debug)

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("init error", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		slog.Error("run error", slog.Any("error", err))
		os.Exit(1)
	}
}
