package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/setanarut/instafader"
	"github.com/setanarut/instafader/cmd/instafader/watch"
	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/settings"
	"github.com/setanarut/instafader/skinini"
	"github.com/setanarut/instafader/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const customColor = "Custom Color"

// gui owns the window state. Fields below the widgets are only touched on
// the fyne goroutine; workers report back through fyne.Do.
type gui struct {
	ctx          context.Context
	log          *zap.Logger
	win          fyne.Window
	prefs        settings.Settings
	settingsPath string

	folder   *widget.Entry
	preview  *canvas.Image
	palette  *widget.Select
	progress *widget.ProgressBar
	fade     *widget.Button
	revert   *widget.Button

	engine   *instafader.Engine
	colors   []skinini.Color
	color    skinini.Color
	custom   bool
	busy     bool
	watcher  *watch.File
	previews watch.Generation
}

func newGUI(ctx context.Context, w fyne.Window, prefs settings.Settings, settingsPath string) *gui {
	return &gui{ctx: ctx, log: logger.L(ctx), win: w, prefs: prefs, settingsPath: settingsPath}
}

func (g *gui) build() fyne.CanvasObject {
	g.folder = widget.NewEntry()
	g.folder.SetPlaceHolder("No skin selected")
	g.folder.Disable()
	browse := widget.NewButton("Select Skin Folder", g.chooseFolder)

	size := float32(g.prefs.PreviewSize)
	g.preview = canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	g.preview.FillMode = canvas.ImageFillContain
	g.preview.SetMinSize(fyne.NewSize(size, size))

	g.palette = widget.NewSelect(nil, g.selectColor)
	g.palette.PlaceHolder = "Combo color"

	g.progress = widget.NewProgressBar()
	g.progress.Hide()

	g.fade = widget.NewButton("Instafade!", g.runTransform)
	g.fade.Importance = widget.HighImportance
	g.revert = widget.NewButton("Revert", g.runRevert)
	g.revert.Importance = widget.DangerImportance
	g.setBusy(false)

	return container.NewVBox(
		container.NewBorder(nil, nil, nil, browse, g.folder),
		container.NewCenter(g.preview),
		g.palette,
		g.fade,
		g.revert,
		g.progress,
	)
}

func (g *gui) chooseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, g.win)
			return
		}
		if uri == nil {
			return
		}
		g.openFolder(uri.Path())
	}, g.win)
}

func (g *gui) openFolder(dir string) {
	g.folder.SetText(dir)
	g.engine = instafader.New(dir, instafader.DefaultOptions())
	g.custom = false
	if err := g.reload(); err != nil {
		g.showError(err)
		return
	}

	if g.watcher != nil {
		g.watcher.Close()
		g.watcher = nil
	}
	w, err := watch.Start(g.ctx, dir, g.engine.Options.ConfigName, func() {
		fyne.Do(func() {
			if err := g.reload(); err != nil {
				g.log.Warn("reload after change", zap.Error(err))
			}
		})
	})
	if err != nil {
		g.log.Warn("cannot watch skin folder", zap.String("dir", dir), zap.Error(err))
	} else {
		g.watcher = w
	}

	g.prefs.LastFolder = dir
	if err := settings.Save(g.settingsPath, g.prefs); err != nil {
		g.log.Warn("saving settings", zap.Error(err))
	}
}

// reload reads the palette from skin.ini and refreshes the preview.
func (g *gui) reload() error {
	if g.engine == nil {
		return nil
	}
	cfg, err := g.engine.Load(g.ctx)
	if err != nil {
		g.colors = nil
		g.palette.SetOptions(nil)
		g.refreshControls()
		return err
	}
	g.colors = cfg.Colors
	opts := make([]string, 0, len(cfg.Colors)+1)
	for _, c := range cfg.Colors {
		opts = append(opts, c.String())
	}
	opts = append(opts, customColor)
	g.palette.SetOptions(opts)
	if !g.custom {
		g.color = cfg.Colors[0]
	}
	g.palette.Selected = g.color.String()
	g.palette.Refresh()
	g.refreshControls()
	g.refreshPreview()
	return nil
}

func (g *gui) selectColor(s string) {
	if s == customColor {
		picker := dialog.NewColorPicker("Custom Color", "Combo color", func(c color.Color) {
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			g.custom = true
			g.color = skinini.Color{R: n.R, G: n.G, B: n.B}
			g.palette.Selected = g.color.String()
			g.palette.Refresh()
			g.refreshPreview()
		}, g.win)
		picker.Advanced = true
		picker.Show()
		return
	}
	c, err := skinini.ParseColor(s)
	if err != nil {
		return
	}
	g.custom = !containsColor(g.colors, c)
	g.color = c
	g.refreshPreview()
}

func containsColor(cs []skinini.Color, c skinini.Color) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

func (g *gui) refreshPreview() {
	if g.engine == nil {
		return
	}
	e, c, size := g.engine, g.color, g.prefs.PreviewSize
	id := g.previews.Next()
	go func() {
		img, err := e.Preview(g.ctx, c)
		if err != nil {
			g.log.Info("no preview", zap.Error(err))
			img = utils.Transparent(1, 1)
		}
		thumb := instafader.Thumbnail(img, size)
		fyne.Do(func() {
			if !g.previews.Current(id) {
				return
			}
			g.preview.Image = thumb
			g.preview.Refresh()
		})
	}()
}

func (g *gui) setBusy(busy bool) {
	g.busy = busy
	g.refreshControls()
	if busy {
		g.progress.SetValue(0)
		g.progress.Show()
	} else {
		g.progress.Hide()
	}
}

func (g *gui) refreshControls() {
	loaded := g.engine != nil
	setEnabled(g.fade, !g.busy && loaded && len(g.colors) > 0)
	setEnabled(g.revert, !g.busy && loaded)
	if g.busy {
		g.palette.Disable()
	} else {
		g.palette.Enable()
	}
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (g *gui) onProgress(f float64) {
	fyne.Do(func() { g.progress.SetValue(f) })
}

func (g *gui) runTransform() {
	e, c := g.engine, g.color
	g.setBusy(true)
	go func() {
		rep, err := e.Transform(g.ctx, c, g.onProgress)
		fyne.Do(func() {
			g.setBusy(false)
			if err != nil {
				g.showError(err)
				return
			}
			msg := fmt.Sprintf("Skin converted with %s.\nOriginals saved in %s.", c, rep.Snapshot)
			if ws := multierr.Errors(rep.Warnings); len(ws) > 0 {
				msg += fmt.Sprintf("\n%d files could not be backed up or cleaned up.", len(ws))
			}
			dialog.ShowInformation("Instafade", msg, g.win)
		})
	}()
}

func (g *gui) runRevert() {
	e := g.engine
	dialog.ShowConfirm("Revert", "Restore the files from the most recent backup?", func(ok bool) {
		if !ok {
			return
		}
		g.setBusy(true)
		go func() {
			rep, err := e.Revert(g.ctx, g.onProgress)
			fyne.Do(func() {
				g.setBusy(false)
				if err != nil {
					g.showError(err)
					return
				}
				g.custom = false
				if err := g.reload(); err != nil {
					g.showError(err)
				}
				dialog.ShowInformation("Revert", fmt.Sprintf("Restored %d files.", rep.Restored), g.win)
			})
		}()
	}, g.win)
}

func (g *gui) showError(err error) {
	switch {
	case errors.Is(err, instafader.ErrConfigNotFound):
		err = errors.New("this folder has no skin.ini")
	case errors.Is(err, instafader.ErrNothingToRevert):
		err = errors.New("no backup found in this folder")
	}
	dialog.ShowError(err, g.win)
}

func (g *gui) close() {
	if g.watcher != nil {
		g.watcher.Close()
	}
}
