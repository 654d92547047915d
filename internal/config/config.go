package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "DATUMSHIFT"

// AppConfig is safe for concurrent use: viper itself is not, so every
// access goes through mx, including reloads made by Watch.
type AppConfig struct {
	mx     sync.RWMutex
	v      *viper.Viper
	files  []string
	logger *slog.Logger
}

func NewAppConfig() *AppConfig {
	c := &AppConfig{
		v:      viper.New(),
		logger: slog.Default().With("logger", "config"),
	}

	setDefaults(c.v)

	return c
}

// Load merges yaml files in order; it reports whether any of them was read.
func (c *AppConfig) Load(filename ...string) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	loaded := false

	for _, name := range filename {
		if err := c.merge(name); err != nil {
			c.logger.Info("error loading config", slog.String("file", name), slog.Any("error", err))
			continue
		}

		loaded = true

		if abs, err := filepath.Abs(name); err == nil && !slices.Contains(c.files, abs) {
			c.files = append(c.files, abs)
		}
	}

	return loaded
}

func (c *AppConfig) merge(name string) error {
	c.v.SetConfigFile(name)

	return c.v.MergeInConfig()
}

// LoadEnv reads .env files into the environment, then lets PREFIX_KEY
// variables override file values (dots in keys become underscores).
func (c *AppConfig) LoadEnv(prefix string, dotenv ...string) error {
	for _, name := range dotenv {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return err
		}

		c.logger.Info("env loaded", slog.String("file", name))
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	c.v.SetEnvPrefix(prefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	return nil
}

// Watch calls fn every time one of the loaded files changes on disk, until
// ctx is done. fn runs after the new values are merged in.
func (c *AppConfig) Watch(ctx context.Context, fn func()) error {
	c.mx.RLock()
	files := slices.Clone(c.files)
	c.mx.RUnlock()

	if len(files) == 0 {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// directories, not files: editors replace files on save
	for _, f := range files {
		if err := w.Add(filepath.Dir(f)); err != nil {
			w.Close()
			return err
		}
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}

				if e.Op&(fsnotify.Write|fsnotify.Create) == 0 || !slices.Contains(files, filepath.Clean(e.Name)) {
					continue
				}

				c.logger.Info("config changed", slog.String("file", e.Name), slog.String("op", e.Op.String()))
				c.reload(files)
				fn()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}

				c.logger.Error("watch error", slog.Any("error", err))
			}
		}
	}()

	return nil
}

func (c *AppConfig) reload(files []string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	for _, name := range files {
		if err := c.merge(name); err != nil {
			c.logger.Warn("error reloading config", slog.String("file", name), slog.Any("error", err))
		}
	}
}

func (c *AppConfig) getBool(key string) bool {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.v.GetBool(key)
}

func (c *AppConfig) getString(key string) string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.v.GetString(key)
}

func (c *AppConfig) getInt(key string) int {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.v.GetInt(key)
}

func (c *AppConfig) Bool(key string) bool {
	return c.getBool(key)
}

func (c *AppConfig) Set(key string, v any) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.v.Set(key, v)
}

func (c *AppConfig) APIAddr() string {
	return c.getString("api_addr")
}

func (c *AppConfig) LocalAddr() string {
	return c.getString("local_addr")
}

func (c *AppConfig) DB() string {
	return c.getString("db")
}

func (c *AppConfig) LogAll() bool {
	return c.getBool("log")
}

// Strict makes the shift API reject unknown datums and bad coordinates.
func (c *AppConfig) Strict() bool {
	return c.getBool("shift.strict")
}

func (c *AppConfig) Legacy() bool {
	return c.getBool("shift.legacy_longitude")
}

func (c *AppConfig) DefaultDatum() string {
	return c.getString("shift.default_datum")
}

func (c *AppConfig) NearestLimit() int {
	return c.getInt("points.nearest_limit")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_addr", ":8080")
	v.SetDefault("local_addr", "localhost:8888")
	v.SetDefault("db", "datumshift.sqlite")
	v.SetDefault("log", false)

	v.SetDefault("shift.strict", false)
	v.SetDefault("shift.legacy_longitude", false)
	v.SetDefault("shift.default_datum", "WGS84")

	v.SetDefault("points.nearest_limit", 50)
}
