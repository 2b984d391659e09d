package instafader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/setanarut/instafader/backup"
	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/skinini"
	"github.com/setanarut/instafader/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Element names the pipeline works with.
const (
	HitCircle        = "hitcircle"
	HitCircleOverlay = "hitcircleoverlay"
	SliderStart      = "sliderstartcircle"
	SliderStartOver  = "sliderstartcircleoverlay"
)

// ProgressFunc receives the completed fraction of an operation, in [0, 1].
// Successive values never decrease.
type ProgressFunc func(fraction float64)

// Report describes a finished Transform.
type Report struct {
	// Snapshot is the backup directory holding the originals.
	Snapshot string
	// Written lists the files (relative, slash separated) that were
	// replaced with generated images.
	Written []string
	// Overlap is the HitCircleOverlap value written to skin.ini.
	Overlap int
	// Warnings collects non-fatal failures: files that could not be backed
	// up or cleaned up. Use multierr.Errors to split it.
	Warnings error
}

// Transform converts the skin to an instafade skin using c as the only
// combo color:
//
//  1. snapshot skin.ini
//  2. resolve (and snapshot) hitcircle and hitcircleoverlay
//  3. tint the circle with c
//  4. scale both elements
//  5. merge them into a temporary circle image
//  6. bake the circle into number glyphs 1 to 9
//  7. replace glyph 0 with a blank frame
//  8. replace circle and overlay with 1x1 placeholders
//  9. delete the temporary image and slider start elements
//  10. rewrite HitCircleOverlap, the combo colors and the header
//
// A missing element or a failed write stops the pipeline; files already
// written stay written and the snapshot holds their originals.
func (e *Engine) Transform(ctx context.Context, c skinini.Color, progress ProgressFunc) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	ctx = logger.With(ctx, zap.String("dir", e.Dir), zap.String("color", c.String()))
	log := logger.L(ctx)

	text, err := e.readConfig("transform")
	if err != nil {
		return Report{}, err
	}
	run := &transformRun{
		e:        e,
		log:      log,
		color:    c,
		prefix:   skinini.ParsePrefix(text),
		progress: progress,
	}
	log.Info("transform started", zap.String("prefix", run.prefix))

	steps := []struct {
		name string
		fn   func() error
		done float64
	}{
		{"snapshot", run.snapshot, 0.2},
		{"resolve", run.resolveCircle, 0.3},
		{"tint", run.tint, 0.4},
		{"resize", run.resize, 0.5},
		{"composite", run.composite, 0.6},
		{"numbers", run.numbers, 0.78},
		{"zero", run.zero, 0.9},
		{"placeholders", run.placeholders, 0.95},
		{"cleanup", run.cleanup, 0.95},
		{"configuration", run.configure, 1},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			log.Error("transform failed", zap.String("step", s.name), zap.Error(err))
			return run.report(), err
		}
		run.advance(s.done)
	}

	rep := run.report()
	log.Info("transform finished",
		zap.String("snapshot", rep.Snapshot),
		zap.Int("written", len(rep.Written)),
		zap.Int("overlap", rep.Overlap),
		zap.Int("warnings", len(multierr.Errors(rep.Warnings))))
	return rep, nil
}

// transformRun carries the state passed between pipeline steps.
type transformRun struct {
	e        *Engine
	log      *zap.Logger
	color    skinini.Color
	prefix   string
	progress ProgressFunc
	last     float64

	snap     *backup.Snapshot
	circle   Element
	overlay  Element
	base     *image.NRGBA
	top      *image.NRGBA
	frame    image.Point
	numberHD bool
	overlap  int
	written  []string
	warnings error
}

func (r *transformRun) advance(f float64) {
	if f <= r.last {
		return
	}
	r.last = f
	if r.progress != nil {
		r.progress(f)
	}
}

func (r *transformRun) report() Report {
	rep := Report{Written: r.written, Overlap: r.overlap, Warnings: r.warnings}
	if r.snap != nil {
		rep.Snapshot = r.snap.Path
	}
	return rep
}

func (r *transformRun) path(name string) string {
	return filepath.Join(r.e.Dir, filepath.FromSlash(name))
}

// backup copies name into the snapshot. Failure is only a warning: the
// transform still goes ahead, but that file cannot be reverted.
func (r *transformRun) backup(name string) {
	if err := r.snap.Backup(name); err != nil {
		r.log.Warn("backup failed", zap.String("file", name), zap.Error(err))
		r.warnings = multierr.Append(r.warnings, ioFailure("backup", name, err))
	}
}

func (r *transformRun) resolve(base string) (Element, error) {
	el, err := r.e.resolver().Resolve(base)
	if err != nil {
		return Element{}, err
	}
	r.backup(el.Filename)
	return el, nil
}

func (r *transformRun) save(img image.Image, name string) error {
	if err := utils.SaveImage(img, r.path(name)); err != nil {
		return ioFailure("transform", name, err)
	}
	return nil
}

func (r *transformRun) snapshot() error {
	snap, err := r.e.backups().CreateSnapshot()
	if err != nil {
		return ioFailure("transform", "", err)
	}
	r.snap = snap
	r.advance(0.1)
	r.backup(r.e.Options.ConfigName)
	return nil
}

func (r *transformRun) resolveCircle() error {
	var err error
	if r.circle, err = r.resolve(HitCircle); err != nil {
		return err
	}
	r.overlay, err = r.resolve(HitCircleOverlay)
	return err
}

func (r *transformRun) tint() error {
	r.base = Tint(r.circle.Image, r.color)
	return nil
}

func (r *transformRun) resize() error {
	r.base = Resize(r.base, ResizeFactor(r.circle.HighRes, r.overlay.HighRes))
	r.top = Resize(r.overlay.Image, ResizeFactor(r.overlay.HighRes, r.circle.HighRes))
	return nil
}

func (r *transformRun) composite() error {
	return r.save(Composite(r.base, r.top), r.e.Options.TempCircleName)
}

func (r *transformRun) circleHD() bool {
	return r.circle.HighRes || r.overlay.HighRes
}

func (r *transformRun) numbers() error {
	for i := 1; i <= 9; i++ {
		number, err := r.resolve(fmt.Sprintf("%s-%d", r.prefix, i))
		if err != nil {
			return err
		}
		// Re-read from disk each time so every glyph starts from the same
		// encoded circle.
		circle, err := utils.ReadImage(r.path(r.e.Options.TempCircleName))
		if err != nil {
			return ioFailure("transform", r.e.Options.TempCircleName, err)
		}
		frame := OverlayNumber(circle, number.Image, number.HighRes, r.circleHD())
		if err := r.save(frame, number.Filename); err != nil {
			return err
		}
		r.written = append(r.written, number.Filename)
		r.frame = frame.Bounds().Size()
		r.numberHD = number.HighRes
		r.log.Debug("number written", zap.String("file", number.Filename), zap.Stringer("size", r.frame))
		r.advance(0.6 + 0.02*float64(i))
	}
	return nil
}

// zero blanks glyph 0 so that combo numbers ending in 0 still line up.
func (r *transformRun) zero() error {
	zero, err := r.resolve(r.prefix + "-0")
	if err != nil {
		return err
	}
	r.advance(0.85)
	if err := r.save(utils.Transparent(r.frame.X, r.frame.Y), zero.Filename); err != nil {
		return err
	}
	r.written = append(r.written, zero.Filename)
	return nil
}

func (r *transformRun) placeholders() error {
	for _, el := range []Element{r.circle, r.overlay} {
		if err := r.save(utils.Transparent(1, 1), el.Filename); err != nil {
			return err
		}
		r.written = append(r.written, el.Filename)
	}
	return nil
}

// cleanup removes the temporary circle and any slider start elements. Each
// file is handled on its own; absent files are skipped and other failures
// become warnings.
func (r *transformRun) cleanup() error {
	if err := r.remove(r.e.Options.TempCircleName); err != nil {
		r.warn(r.e.Options.TempCircleName, err)
	}
	for _, base := range []string{SliderStart, SliderStartOver} {
		for _, hd := range []bool{false, true} {
			name := ElementFilename(base, hd)
			if _, err := os.Stat(r.path(name)); err != nil {
				continue
			}
			r.backup(name)
			if err := r.remove(name); err != nil {
				r.warn(name, err)
			}
		}
	}
	return nil
}

func (r *transformRun) remove(name string) error {
	err := os.Remove(r.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (r *transformRun) warn(name string, err error) {
	r.log.Warn("cleanup failed", zap.String("file", name), zap.Error(err))
	r.warnings = multierr.Append(r.warnings, ioFailure("cleanup", name, err))
}

func (r *transformRun) configure() error {
	r.overlap = r.frame.X
	if r.numberHD {
		r.overlap /= 2
	}
	if err := r.e.updateConfig("transform", func(text string) string {
		return skinini.SetOverlap(text, r.overlap)
	}); err != nil {
		return err
	}
	if err := r.e.updateConfig("transform", func(text string) string {
		return skinini.SetPrimaryColor(text, r.color)
	}); err != nil {
		return err
	}
	return r.e.updateConfig("transform", skinini.AddHeader)
}
