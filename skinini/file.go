package skinini

import (
	"fmt"
	"os"

	"github.com/setanarut/instafader/utils"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileName is the configuration file at the root of a skin folder.
const FileName = "skin.ini"

// ReadFile returns the text of the skin.ini at path. A UTF-8 byte order
// mark is dropped and UTF-16 files (which carry a BOM) are decoded; any
// other content is returned unchanged.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(decoded), nil
}

// WriteFile replaces path with text in one atomic rename.
func WriteFile(path, text string) error {
	return utils.WriteFileAtomic(path, []byte(text), 0o644)
}

// Update is one read-modify-write pass over the skin.ini at path. The file
// is left untouched when fn returns an error or does not change the text.
func Update(path string, fn func(text string) (string, error)) error {
	text, err := ReadFile(path)
	if err != nil {
		return err
	}
	updated, err := fn(text)
	if err != nil {
		return err
	}
	if updated == text {
		return nil
	}
	return WriteFile(path, updated)
}
