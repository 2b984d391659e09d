// Command instafader is the desktop front-end: pick a skin folder, choose
// a combo color, preview it and convert the skin.
package main

import (
	"context"
	"flag"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/settings"
	"go.uber.org/zap"
)

func main() {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	settingsPath, err := settings.Path()
	if err != nil {
		log.Fatalf("locate settings: %v", err)
	}
	prefs, settingsErr := settings.Load(settingsPath)

	var l *zap.Logger
	if *verbose || prefs.Verbose {
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

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), l))
	defer cancel()

	a := app.NewWithID("io.github.setanarut.instafader")
	w := a.NewWindow("Instafader")
	w.Resize(fyne.NewSize(400, 500))

	g := newGUI(ctx, w, prefs, settingsPath)
	w.SetContent(g.build())
	w.SetOnClosed(g.close)
	if prefs.LastFolder != "" {
		g.openFolder(prefs.LastFolder)
	}
	w.ShowAndRun()
}
