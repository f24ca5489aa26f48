package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	minModalWidth = 40
	maxModalWidth = 80
	modalChrome   = 6 // 2 border + 4 padding
)

// modalInnerWidth is the text width inside the confirmation modal for a screen width.
func modalInnerWidth(screenWidth int) int {
	outer := max(minModalWidth, min(screenWidth-4, maxModalWidth))
	return max(10, outer-modalChrome)
}

// padLines right-pads every line of a block to width cells.
func padLines(block string, width int) string {
	if width <= 0 || block == "" {
		return block
	}
	return strings.Join(padAll(strings.Split(block, "\n"), width), "\n")
}

// fitLines pads a block to width and cuts or extends it to exactly height lines.
func fitLines(block string, width, height int) string {
	if width <= 0 || height <= 0 {
		return block
	}
	lines := strings.Split(block, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	lines = padAll(lines, width)
	blank := strings.Repeat(" ", width)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func padAll(lines []string, width int) []string {
	for i, line := range lines {
		if gap := width - lipgloss.Width(line); gap > 0 {
			lines[i] = line + strings.Repeat(" ", gap)
		}
	}
	return lines
}

// truncateLine shortens plain text to width display cells, ending with "...".
func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
