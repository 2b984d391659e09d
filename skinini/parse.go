// Package skinini reads and rewrites skin.ini files.
//
// The file is hand edited, so every mutation works on the full text, keeps
// lines it does not own byte for byte, and only touches the directives it
// manages: combo colors, HitCircleOverlap and the generator header. A
// directive whose keyword is preceded by "//" on its line is a comment and
// never treated as data.
package skinini

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	comboKey   = "Combo"
	prefixKey  = "HitCirclePrefix"
	overlapKey = "HitCircleOverlap"

	// DefaultPrefix is the number prefix used when a skin sets none.
	DefaultPrefix = "default"
)

var ErrParse = errors.New("parse failure")

// ParseError reports malformed numeric content in skin.ini.
type ParseError struct {
	Line    int // 1-based; 0 when the content did not come from a file line
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("skin.ini line %d: invalid value %q: %v", e.Line, e.Content, e.Err)
	}
	return fmt.Sprintf("invalid value %q: %v", e.Content, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// ParseColors returns the combo colors of text in order of appearance, or
// DefaultColors when there are none.
func ParseColors(text string) ([]Color, error) {
	var cols []Color
	for i, line := range splitLines(text) {
		value, ok := comboValue(trimEOL(line))
		if !ok {
			continue
		}
		c, err := parseTriple(value)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = i + 1
			}
			return nil, err
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return append([]Color(nil), DefaultColors...), nil
	}
	return cols, nil
}

// ParsePrefix returns the HitCirclePrefix value with backslashes turned
// into slashes, or DefaultPrefix.
func ParsePrefix(text string) string {
	for _, line := range splitLines(text) {
		value, ok := directiveValue(trimEOL(line), prefixKey)
		if !ok {
			continue
		}
		if value == "" {
			break
		}
		return strings.ReplaceAll(value, `\`, "/")
	}
	return DefaultPrefix
}

// ParseOverlap returns the first active HitCircleOverlap value.
func ParseOverlap(text string) (int, bool, error) {
	for i, line := range splitLines(text) {
		value, ok := directiveValue(trimEOL(line), overlapKey)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, false, &ParseError{Line: i + 1, Content: value, Err: err}
		}
		return n, true, nil
	}
	return 0, false, nil
}

// keywordIndex returns the position of key in line, or -1 when key is
// missing or commented out.
func keywordIndex(line, key string) int {
	idx := strings.Index(line, key)
	if idx < 0 {
		return -1
	}
	if c := strings.Index(line, "//"); c >= 0 && c < idx {
		return -1
	}
	return idx
}

// comboValue reports whether line is an active combo directive and returns
// the text from the first digit after its index.
func comboValue(line string) (string, bool) {
	idx := keywordIndex(line, comboKey)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(comboKey):]
	n := 0
	for n < len(rest) && isDigit(rest[n]) {
		n++
	}
	if n == 0 {
		return "", false
	}
	rest = rest[n:]
	for len(rest) > 0 && !isDigit(rest[0]) {
		rest = rest[1:]
	}
	return rest, true
}

// directiveValue returns the trimmed text after the colon of an active
// "key: value" directive.
func directiveValue(line, key string) (string, bool) {
	idx := keywordIndex(line, key)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(key):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 || strings.TrimSpace(rest[:colon]) != "" {
		return "", false
	}
	return strings.TrimSpace(rest[colon+1:]), true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
