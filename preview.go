package instafader

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/skinini"
	"go.uber.org/zap"
)

// PreviewDigit is the glyph shown by Preview.
const PreviewDigit = 1

// Preview renders what a numbered hit circle would look like after
// Transform with color c. Nothing in the skin folder is modified; the
// elements are snapshotted to a scratch directory that is removed before
// returning.
func (e *Engine) Preview(ctx context.Context, c skinini.Color) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.L(ctx).With(zap.String("dir", e.Dir), zap.String("color", c.String()))

	text, err := e.readConfig("preview")
	if err != nil {
		return nil, err
	}
	prefix := skinini.ParsePrefix(text)

	scratch := filepath.Join(os.TempDir(), "instafader-preview-"+uuid.NewString())
	snap, err := e.backups().SnapshotAt(scratch)
	if err != nil {
		return nil, ioFailure("preview", "", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			log.Warn("removing preview scratch", zap.String("path", scratch), zap.Error(err))
		}
	}()

	res := e.resolver()
	var els [3]Element
	for i, base := range []string{HitCircle, HitCircleOverlay, fmt.Sprintf("%s-%d", prefix, PreviewDigit)} {
		if els[i], err = res.Resolve(base); err != nil {
			return nil, err
		}
		if err := snap.Backup(els[i].Filename); err != nil {
			log.Debug("preview backup", zap.Error(err))
		}
	}
	circle, overlay, number := els[0], els[1], els[2]

	base := Resize(Tint(circle.Image, c), ResizeFactor(circle.HighRes, overlay.HighRes))
	top := Resize(overlay.Image, ResizeFactor(overlay.HighRes, circle.HighRes))
	img := OverlayNumber(Composite(base, top), number.Image, number.HighRes, circle.HighRes || overlay.HighRes)
	log.Debug("preview rendered", zap.Stringer("size", img.Bounds().Size()))
	return img, nil
}
