package utils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSaveAndReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitcircle.png")
	want := solid(3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 200})

	require.NoError(t, SaveImage(want, path))
	got, err := ReadImage(path)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
	assert.Equal(t, want.NRGBAAt(1, 1), got.NRGBAAt(1, 1))
}

func TestReadImageMissing(t *testing.T) {
	_, err := ReadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadImageCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	_, err := ReadImage(path)
	assert.Error(t, err)
}

func TestToNRGBAReanchors(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 8))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, A: 255})
	got := ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 3), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 1, A: 255}, got.NRGBAAt(0, 0))
}

func TestTransparent(t *testing.T) {
	img := Transparent(4, 3)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255}, img.NRGBAAt(3, 2))
	assert.Equal(t, image.Rect(0, 0, 1, 1), Transparent(0, 0).Bounds())
}

func TestWriteFileAtomicKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.ini")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "no", "such", "f"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestExtractPaletteFindsBothColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	red := color.NRGBA{R: 230, G: 20, B: 20, A: 255}
	blue := color.NRGBA{R: 20, G: 20, B: 230, A: 255}
	for y := range 40 {
		for x := range 40 {
			if x < 20 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, blue)
			}
		}
	}

	for _, method := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		t.Run(method.String(), func(t *testing.T) {
			p := ExtractPalette(img, 2, method)
			require.NotEmpty(t, p)
			assert.LessOrEqual(t, len(p), 2)
			redC, _ := colorful.MakeColor(red)
			blueC, _ := colorful.MakeColor(blue)
			nearest := func(c colorful.Color) float64 {
				return min(c.DistanceLab(redC), c.DistanceLab(blueC))
			}
			for _, c := range p {
				assert.Less(t, nearest(c), 0.1, "unexpected color %s", c.Hex())
			}
		})
	}
}

func TestSortPaletteByBrightness(t *testing.T) {
	p := []colorful.Color{{R: 1, G: 1, B: 1}, {R: 0, G: 0, B: 0}, {R: 0.5, G: 0.5, B: 0.5}}
	SortPaletteByBrightness(p)
	assert.Equal(t, colorful.Color{}, p[0])
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, p[2])
}

func TestParsePaletteMethod(t *testing.T) {
	assert.Equal(t, PaletteMethodKMeans, ParsePaletteMethod("kmeans"))
	assert.Equal(t, PaletteMethodDominantColor, ParsePaletteMethod("dominantcolor"))
	assert.Equal(t, PaletteMethodDominantColor, ParsePaletteMethod(""))
}

func TestSavePalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")
	require.NoError(t, SavePalette([]colorful.Color{{R: 1}, {B: 1}}, 8, path))
	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, img.NRGBAAt(12, 4))

	assert.Error(t, SavePalette(nil, 8, path))
}
