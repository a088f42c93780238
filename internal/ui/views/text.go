package views

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Truncate shortens s to at most width terminal cells. Icons are double
// width, so byte or rune counts are not enough.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// PadRight fills s with spaces up to width cells
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Window returns the [start, end) range of rows to show so that cursor stays
// visible in a viewport of height rows.
func Window(cursor, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start > total-height {
		start = total - height
	}
	return start, start + height
}

// Lines splits rendered text into lines without a trailing empty line
func Lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
