package skinini

import (
	"strconv"
	"strings"
)

// Header marks a skin.ini that has been rewritten by instafader. It is the
// same line earlier releases wrote, so skins converted by them are
// recognized.
const Header = "// instafade skin generated by https://github.com/SnowzNZ/instafader"

const (
	coloursSection = "Colours"
	fontsSection   = "Fonts"
)

// SetPrimaryColor drops every active combo directive and writes a single
// "Combo1" with c right after the first [Colours] header, creating the
// section at the end of the document when it is missing.
func SetPrimaryColor(text string, c Color) string {
	nl := lineEnding(text)
	directive := comboKey + "1: " + c.String() + nl

	lines := splitLines(text)
	out := make([]string, 0, len(lines)+2)
	found := false
	for _, line := range lines {
		if _, ok := comboValue(trimEOL(line)); ok {
			continue
		}
		if !found && isSection(line, coloursSection) {
			found = true
			out = append(out, terminate(line, nl), directive)
			continue
		}
		out = append(out, line)
	}
	if !found {
		out = appendSection(out, nl, coloursSection, directive)
	}
	return strings.Join(out, "")
}

// SetOverlap replaces the value of the first active HitCircleOverlap
// directive, or inserts one under [Fonts], creating that section when
// needed.
func SetOverlap(text string, overlap int) string {
	nl := lineEnding(text)
	directive := overlapKey + ": " + strconv.Itoa(overlap)

	lines := splitLines(text)
	for i, line := range lines {
		if _, ok := directiveValue(trimEOL(line), overlapKey); ok {
			lines[i] = directive + line[len(trimEOL(line)):]
			return strings.Join(lines, "")
		}
	}

	for i, line := range lines {
		if isSection(line, fontsSection) {
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:i]...)
			out = append(out, terminate(line, nl), directive+nl)
			out = append(out, lines[i+1:]...)
			return strings.Join(out, "")
		}
	}
	return strings.Join(appendSection(lines, nl, fontsSection, directive+nl), "")
}

// AddHeader puts Header on the first line unless some line already
// carries it.
func AddHeader(text string) string {
	for _, line := range splitLines(text) {
		if strings.Contains(line, Header) {
			return text
		}
	}
	return Header + lineEnding(text) + text
}

// splitLines splits text after each '\n', keeping line endings so that
// joining the result reproduces text exactly.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// lineEnding returns "\r\n" for documents that already use CRLF.
func lineEnding(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func terminate(line, nl string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + nl
}

func isSection(line, name string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "["+name+"]")
}

func appendSection(lines []string, nl, name, directive string) []string {
	if n := len(lines); n > 0 {
		lines[n-1] = terminate(lines[n-1], nl)
	}
	return append(lines, "["+name+"]"+nl, directive)
}
