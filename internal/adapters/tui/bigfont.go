package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 5

// glyphs holds a 5-row block font for the countdown. Digits are 3 cells
// wide and the colon 1; '#' marks a filled cell.
var glyphs = map[rune]string{
	'0': "###|# #|# #|# #|###",
	'1': " # |## | # | # |###",
	'2': "###|  #|###|#  |###",
	'3': "###|  #|###|  #|###",
	'4': "# #|# #|###|  #|  #",
	'5': "###|#  |###|  #|###",
	'6': "###|#  |###|# #|###",
	'7': "###|  #| # | # | # ",
	'8': "###|# #|###|# #|###",
	'9': "###|# #|###|  #|###",
	':': " |#| |#| ",
}

// minBigWidth is the narrowest terminal the block font is drawn in.
const minBigWidth = 40

// bigTime renders a clock string such as "24:59" in the block font.
// Narrow terminals get a single bold line instead.
func bigTime(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < minBigWidth {
		return style.Render(clock)
	}

	var rows [glyphRows]strings.Builder
	for i, ch := range clock {
		glyph, ok := glyphs[ch]
		if !ok {
			continue
		}
		for r, cells := range strings.Split(glyph, "|") {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(strings.ReplaceAll(cells, "#", "█"))
		}
	}

	lines := make([]string, glyphRows)
	for r := range rows {
		lines[r] = style.Render(rows[r].String())
	}
	return strings.Join(lines, "\n")
}
