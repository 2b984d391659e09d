package instafader

import (
	"context"

	"github.com/setanarut/instafader/logger"
	"github.com/setanarut/instafader/skinini"
	"github.com/setanarut/instafader/utils"
	"go.uber.org/zap"
)

// SuggestColors extracts up to k colors from element (for example
// "cursor" or "hitcircle"), ordered darkest first. They make reasonable
// combo colors that match the rest of the skin.
func (e *Engine) SuggestColors(ctx context.Context, element string, k int, method utils.PaletteMethod) ([]skinini.Color, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	el, err := e.resolver().Resolve(element)
	if err != nil {
		return nil, err
	}
	palette := utils.ExtractPalette(el.Image, k, method)
	utils.SortPaletteByBrightness(palette)

	out := make([]skinini.Color, 0, len(palette))
	for _, col := range palette {
		out = append(out, skinini.FromColorful(col))
	}
	logger.L(ctx).Debug("suggested colors",
		zap.String("element", el.Filename),
		zap.Stringer("method", method),
		zap.Int("count", len(out)))
	return out, nil
}
