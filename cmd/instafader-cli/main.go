// Command instafader-cli converts an osu! skin to an instafade skin from
// the command line.
//
//	instafader-cli -dir ~/osu/Skins/Mine -color "255, 128, 0"
//	instafader-cli -dir ~/osu/Skins/Mine -preview preview.png
//	instafader-cli -dir ~/osu/Skins/Mine -revert
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/instafader"
	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/settings"
	"github.com/setanarut/instafader/skinini"
	"github.com/setanarut/instafader/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	settingsPath, err := settings.Path()
	if err != nil {
		log.Fatalf("locate settings: %v", err)
	}
	prefs, settingsErr := settings.Load(settingsPath)

	dir := flag.String("dir", prefs.LastFolder, "skin folder")
	colorFlag := flag.String("color", "", `combo color, "r, g, b" or #rrggbb (default: first color in skin.ini)`)
	revert := flag.Bool("revert", false, "restore the most recent backup")
	preview := flag.String("preview", "", "write a preview PNG to this path instead of transforming")
	suggest := flag.Bool("suggest", false, "print colors suggested by the skin's "+prefs.Suggest.Element)
	swatch := flag.String("swatch", "", "with -suggest, also write the suggested palette as a PNG")
	verbose := flag.Bool("v", prefs.Verbose, "verbose logging")
	flag.Parse()

	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	if settingsErr != nil {
		l.Warn("using default settings", zap.Error(settingsErr))
	}
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "instafader-cli: -dir is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, l)

	c := &cli{
		engine: instafader.New(*dir, instafader.DefaultOptions()),
		prefs:  prefs,
	}
	switch {
	case *revert:
		err = c.revert(ctx)
	case *suggest:
		err = c.suggest(ctx, *swatch)
	case *preview != "":
		err = c.preview(ctx, *colorFlag, *preview)
	default:
		err = c.transform(ctx, *colorFlag)
	}
	if err != nil {
		fail(err)
	}

	prefs.LastFolder = *dir
	if err := settings.Save(settingsPath, prefs); err != nil {
		l.Warn("saving settings", zap.String("path", settingsPath), zap.Error(err))
	}
}

type cli struct {
	engine *instafader.Engine
	prefs  settings.Settings
}

func (c *cli) revert(ctx context.Context) error {
	bar := newProgress("Reverting")
	rep, err := c.engine.Revert(ctx, bar.update)
	bar.done()
	if err != nil {
		return err
	}
	fmt.Printf("Restored %d files from %s\n", rep.Restored, rep.Snapshot)
	printPalette(rep.Configuration.Colors)
	return nil
}

func (c *cli) suggest(ctx context.Context, swatchPath string) error {
	colors, err := c.engine.SuggestColors(ctx, c.prefs.Suggest.Element, c.prefs.Suggest.Count, c.prefs.PaletteMethod())
	if err != nil {
		return err
	}
	printPalette(colors)
	if swatchPath == "" {
		return nil
	}
	palette := make([]colorful.Color, len(colors))
	for i, col := range colors {
		palette[i] = col.Colorful()
	}
	return utils.SavePalette(palette, 64, swatchPath)
}

func (c *cli) preview(ctx context.Context, colorArg, out string) error {
	col, err := c.pickColor(ctx, colorArg)
	if err != nil {
		return err
	}
	img, err := c.engine.Preview(ctx, col)
	if err != nil {
		return err
	}
	if err := utils.SaveImage(instafader.Thumbnail(img, c.prefs.PreviewSize), out); err != nil {
		return err
	}
	fmt.Printf("Preview written to %s\n", out)
	return nil
}

func (c *cli) transform(ctx context.Context, colorArg string) error {
	col, err := c.pickColor(ctx, colorArg)
	if err != nil {
		return err
	}
	bar := newProgress("Instafading")
	rep, err := c.engine.Transform(ctx, col, bar.update)
	bar.done()
	if err != nil {
		if rep.Snapshot != "" {
			fmt.Fprintf(os.Stderr, "Originals are in %s; run with -revert to restore them.\n", rep.Snapshot)
		}
		return err
	}
	for _, w := range multierr.Errors(rep.Warnings) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
	fmt.Printf("Done: %s, %d files written, HitCircleOverlap %d\n", swatchLine(col), len(rep.Written), rep.Overlap)
	fmt.Printf("Backup: %s\n", rep.Snapshot)
	return nil
}

// pickColor parses arg, or falls back to the first combo color of the skin.
func (c *cli) pickColor(ctx context.Context, arg string) (skinini.Color, error) {
	if arg != "" {
		return skinini.ParseColor(arg)
	}
	cfg, err := c.engine.Load(ctx)
	if err != nil {
		return skinini.Color{}, err
	}
	printPalette(cfg.Colors)
	return cfg.Colors[0], nil
}

func fail(err error) {
	var e *instafader.Error
	switch {
	case errors.Is(err, instafader.ErrNothingToRevert):
		fmt.Fprintln(os.Stderr, "No backup found in this folder.")
	case errors.As(err, &e) && errors.Is(err, instafader.ErrConfigNotFound):
		fmt.Fprintf(os.Stderr, "No %s in this folder. Is it an osu! skin?\n", e.Path)
	default:
		fmt.Fprintf(os.Stderr, "instafader-cli: %v\n", err)
	}
	os.Exit(1)
}
