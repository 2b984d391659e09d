// Package settings stores the user's preferences for the instafader
// front-ends in a TOML file.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/setanarut/instafader/utils"
)

const (
	appDir   = "instafader"
	fileName = "settings.toml"
)

type Settings struct {
	Verbose     bool    `toml:"verbose"`
	PreviewSize int     `toml:"preview_size"`
	LastFolder  string  `toml:"last_folder"`
	Suggest     Suggest `toml:"suggest"`
}

// Suggest configures palette suggestions.
type Suggest struct {
	Element string `toml:"element"`
	Count   int    `toml:"count"`
	Method  string `toml:"method"` // "dominantcolor" or "kmeans"
}

func Default() Settings {
	return Settings{
		PreviewSize: 195,
		Suggest: Suggest{
			Element: "cursor",
			Count:   4,
			Method:  utils.PaletteMethodDominantColor.String(),
		},
	}
}

// Path returns the settings file location under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load reads settings from path. A missing file yields Default(); keys
// present in the file override the defaults one by one.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		s.normalize()
		return s, fmt.Errorf("load settings %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	s.normalize()
	return s, nil
}

// Save writes s to path, creating its directory.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return utils.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func (s *Settings) normalize() {
	def := Default()
	if s.PreviewSize <= 0 {
		s.PreviewSize = def.PreviewSize
	}
	if s.Suggest.Count <= 0 {
		s.Suggest.Count = def.Suggest.Count
	}
	if s.Suggest.Element == "" {
		s.Suggest.Element = def.Suggest.Element
	}
	s.Suggest.Method = utils.ParsePaletteMethod(s.Suggest.Method).String()
}

// PaletteMethod returns the configured extraction method.
func (s Settings) PaletteMethod() utils.PaletteMethod {
	return utils.ParsePaletteMethod(s.Suggest.Method)
}
