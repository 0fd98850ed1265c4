// Package injection contains the pure marker splice used to patch manifest
// files. It works on line slices so it can be tested without a real file.
package injection

import (
	"errors"
	"strings"
)

// ErrMissingMarker is returned when no line, once trimmed, equals the marker.
var ErrMissingMarker = errors.New("marker not found")

// FindMarker returns the index of the first line whose trimmed text equals
// marker, or -1.
func FindMarker(lines []string, marker string) int {
	want := strings.TrimSpace(marker)
	for i, line := range lines {
		if strings.TrimSpace(line) == want {
			return i
		}
	}
	return -1
}

// Splice replaces the first marker line with newLines, a blank line and the
// marker again at its original indentation. The input slice is not modified.
func Splice(lines, newLines []string, marker string) ([]string, error) {
	idx := FindMarker(lines, marker)
	if idx < 0 {
		return nil, ErrMissingMarker
	}

	indent := leadingWhitespace(lines[idx])
	replacement := make([]string, 0, len(newLines)+2)
	replacement = append(replacement, Reindent(newLines, indent)...)
	replacement = append(replacement, "", indent+strings.TrimSpace(marker))

	out := make([]string, 0, len(lines)+len(replacement)-1)
	out = append(out, lines[:idx]...)
	out = append(out, replacement...)
	out = append(out, lines[idx+1:]...)
	return out, nil
}

// Reindent strips the common leading whitespace from lines and prefixes each
// non-blank line with indent. Relative indentation inside the block survives.
func Reindent(lines []string, indent string) []string {
	common := commonIndent(lines)
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		out[i] = indent + strings.TrimRight(line[len(common):], " \t")
	}
	return out
}

// Inject splices newLines into content and returns the patched text. The
// content's line terminator (CRLF or LF) is preserved.
func Inject(content string, newLines []string, marker string) (string, error) {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	patched, err := Splice(lines, newLines, marker)
	if err != nil {
		return "", err
	}
	return strings.Join(patched, eol), nil
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func commonIndent(lines []string) string {
	var common string
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ws := leadingWhitespace(line)
		if first {
			common, first = ws, false
			continue
		}
		for !strings.HasPrefix(ws, common) {
			common = common[:len(common)-1]
		}
	}
	return common
}
