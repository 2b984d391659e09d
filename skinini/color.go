package skinini

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is one combo color as written in skin.ini.
type Color struct {
	R, G, B uint8
}

// DefaultColors is the palette a skin uses when it defines no combo colors.
var DefaultColors = []Color{
	{R: 255, G: 192, B: 0},
	{R: 0, G: 202, B: 0},
	{R: 18, G: 124, B: 255},
	{R: 242, G: 24, B: 57},
}

// String formats c the way combo directives are written: "r, g, b".
func (c Color) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA returns c as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c Color) Colorful() colorful.Color {
	col, _ := colorful.MakeColor(c.NRGBA())
	return col
}

// FromColorful converts col, clamping it into the sRGB gamut.
func FromColorful(col colorful.Color) Color {
	r, g, b := col.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// ParseColor accepts either "r, g, b" (as shown by String) or "#rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		col, err := colorful.Hex(s)
		if err != nil {
			return Color{}, &ParseError{Content: s, Err: err}
		}
		return FromColorful(col), nil
	}
	return parseTriple(s)
}

// parseTriple parses "r, g, b". An inline "//" comment is dropped and each
// component is cut to its first three characters before conversion, so
// trailing junk on a hand-edited line does not spoil the value.
func parseTriple(s string) (Color, error) {
	value, _, _ := strings.Cut(s, "//")
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 3 {
		return Color{}, &ParseError{Content: s, Err: fmt.Errorf("want 3 components, got %d", len(parts))}
	}
	var ch [3]uint8
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 3 {
			p = strings.TrimSpace(p[:3])
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Color{}, &ParseError{Content: s, Err: err}
		}
		if n < 0 || n > 255 {
			return Color{}, &ParseError{Content: s, Err: fmt.Errorf("component %d out of range", n)}
		}
		ch[i] = uint8(n)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}
