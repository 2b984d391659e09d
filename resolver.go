package instafader

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/setanarut/instafader/utils"
)

const (
	HighResSuffix = "@2x"
	imageExt      = ".png"
)

// Element is one skin image as found on disk.
type Element struct {
	// BaseName is the element name without resolution suffix or
	// extension, e.g. "hitcircle" or "fonts/score-3".
	BaseName string
	HighRes  bool
	// Filename is the resolved file, slash separated and relative to the
	// skin folder.
	Filename string
	Image    *image.NRGBA
}

// ElementFilename returns the file name for base at the given resolution.
func ElementFilename(base string, highRes bool) string {
	if highRes {
		return base + HighResSuffix + imageExt
	}
	return base + imageExt
}

// Resolver finds elements in a skin folder, preferring the @2x variant.
type Resolver struct {
	Dir string
}

// Resolve loads base, trying "<base>@2x.png" then "<base>.png".
func (r Resolver) Resolve(base string) (Element, error) {
	if el, ok, err := r.load(base, true); ok || err != nil {
		return el, err
	}
	if el, ok, err := r.load(base, false); ok || err != nil {
		return el, err
	}
	return Element{}, r.notFound(base)
}

func (r Resolver) load(base string, highRes bool) (Element, bool, error) {
	name := ElementFilename(base, highRes)
	p := filepath.Join(r.Dir, filepath.FromSlash(name))
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		return Element{}, false, nil
	} else if err != nil {
		return Element{}, false, ioFailure("resolve", name, err)
	}
	img, err := utils.ReadImage(p)
	if err != nil {
		return Element{}, false, ioFailure("resolve", name, err)
	}
	return Element{BaseName: base, HighRes: highRes, Filename: name, Image: img}, true, nil
}

func (r Resolver) notFound(base string) error {
	err := fmt.Errorf("neither %s nor %s exists", ElementFilename(base, true), ElementFilename(base, false))
	if hint := r.closest(base); hint != "" {
		err = fmt.Errorf("%w; did you mean %s?", err, hint)
	}
	return &Error{Kind: ErrAssetNotFound, Op: "resolve", Path: base, Err: err}
}

// closest returns the png next to where base was expected whose element
// name is nearest to base, or "" when nothing is close.
func (r Resolver) closest(base string) string {
	dir, want := path.Split(base)
	entries, err := os.ReadDir(filepath.Join(r.Dir, filepath.FromSlash(dir)))
	if err != nil {
		return ""
	}
	best, bestDist := "", max(2, len(want)/3)+1
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(path.Ext(name), imageExt) {
			continue
		}
		cand := strings.TrimSuffix(name[:len(name)-len(imageExt)], HighResSuffix)
		if d := levenshtein.ComputeDistance(strings.ToLower(want), strings.ToLower(cand)); d < bestDist {
			best, bestDist = dir+name, d
		}
	}
	return best
}
