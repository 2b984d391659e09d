// Package instafader turns an osu! skin into an "instafade" skin: the
// hitcircle is tinted with one combo color, merged with its overlay and
// baked into every number glyph, and skin.ini is rewritten to match.
//
// Every operation works on a skin folder through an Engine and runs
// synchronously on the caller's goroutine. Transform snapshots the files it
// is about to touch so that Revert can put them back.
//
//	e := instafader.New(dir, instafader.DefaultOptions())
//	cfg, err := e.Load(ctx)
//	if err != nil { ... }
//	report, err := e.Transform(ctx, cfg.Colors[0], func(f float64) { ... })
package instafader

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/setanarut/instafader/backup"
	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/skinini"
	"go.uber.org/zap"
)

type Options struct {
	// Configuration file name at the root of the skin folder.
	ConfigName string
	// Name prefix of backup snapshot directories.
	BackupPrefix string
	// Scratch file holding the merged circle between pipeline steps.
	// It lives in the skin folder and is removed at the end of Transform.
	TempCircleName string
	// Clock for snapshot names.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		ConfigName:     skinini.FileName,
		BackupPrefix:   backup.DefaultPrefix,
		TempCircleName: "instafader-circle.png",
		Now:            time.Now,
	}
}

// Engine runs operations against one skin folder. It holds no state
// between calls; every operation re-reads what it needs from disk.
type Engine struct {
	Dir     string
	Options Options
}

func New(dir string, opt Options) *Engine {
	def := DefaultOptions()
	if opt.ConfigName == "" {
		opt.ConfigName = def.ConfigName
	}
	if opt.BackupPrefix == "" {
		opt.BackupPrefix = def.BackupPrefix
	}
	if opt.TempCircleName == "" {
		opt.TempCircleName = def.TempCircleName
	}
	if opt.Now == nil {
		opt.Now = def.Now
	}
	return &Engine{Dir: dir, Options: opt}
}

// Configuration is what the engine reads from skin.ini.
type Configuration struct {
	Colors     []skinini.Color
	Prefix     string
	Overlap    int
	HasOverlap bool
	Info       skinini.Info
}

// Load parses the folder's skin.ini.
func (e *Engine) Load(ctx context.Context) (Configuration, error) {
	log := logger.L(ctx).With(zap.String("dir", e.Dir))

	text, err := e.readConfig("load")
	if err != nil {
		return Configuration{}, err
	}
	colors, err := skinini.ParseColors(text)
	if err != nil {
		return Configuration{}, parseFailure("load", err)
	}
	cfg := Configuration{
		Colors: colors,
		Prefix: skinini.ParsePrefix(text),
	}
	if n, ok, err := skinini.ParseOverlap(text); err != nil {
		// Transform overwrites it, so a bad value is not fatal here.
		log.Warn("ignoring HitCircleOverlap", zap.Error(err))
	} else {
		cfg.Overlap, cfg.HasOverlap = n, ok
	}
	if info, err := skinini.ParseInfo(text); err != nil {
		log.Warn("ignoring [General] section", zap.Error(err))
	} else {
		cfg.Info = info
	}

	log.Info("loaded configuration",
		zap.Int("colors", len(cfg.Colors)),
		zap.String("prefix", cfg.Prefix),
		zap.String("name", cfg.Info.Name))
	return cfg, nil
}

func (e *Engine) configPath() string {
	return filepath.Join(e.Dir, e.Options.ConfigName)
}

func (e *Engine) readConfig(op string) (string, error) {
	text, err := skinini.ReadFile(e.configPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", &Error{Kind: ErrConfigNotFound, Op: op, Path: e.Options.ConfigName, Err: err}
	}
	if err != nil {
		return "", ioFailure(op, e.Options.ConfigName, err)
	}
	return text, nil
}

// updateConfig is one read-modify-write pass over skin.ini.
func (e *Engine) updateConfig(op string, fn func(string) string) error {
	err := skinini.Update(e.configPath(), func(text string) (string, error) {
		return fn(text), nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: ErrConfigNotFound, Op: op, Path: e.Options.ConfigName, Err: err}
	}
	if err != nil {
		return ioFailure(op, e.Options.ConfigName, err)
	}
	return nil
}

func (e *Engine) backups() *backup.Manager {
	return &backup.Manager{Dir: e.Dir, Prefix: e.Options.BackupPrefix, Now: e.Options.Now}
}

func (e *Engine) resolver() Resolver {
	return Resolver{Dir: e.Dir}
}
