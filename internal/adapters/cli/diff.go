package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff renders a line-level diff of before and after. Removed lines are
// prefixed "- ", added lines "+ " and unchanged lines two spaces. Equal
// input returns the empty string.
func LineDiff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range splitKeepingLast(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(removed.Sprint("- " + line))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(added.Sprint("+ " + line))
			default:
				sb.WriteString("  " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitKeepingLast splits text into lines without the terminators. A final
// line without a newline is kept.
func splitKeepingLast(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
