package render

import (
	"strings"

	"github.com/bdougie/handpreview/internal/hand"
)

// Terminal glyphs for the character-grid projection.
const (
	glyphEmpty = ' '
	glyphBone  = '.'
	glyphJoint = 'o'
	glyphRoot  = 'O'
)

// RenderTerminal projects a frame's skeleton onto a width×height
// character grid for in-terminal playback. Terminal cells are roughly
// twice as tall as wide, so the projection is reused with the height
// treated in cell units.
func RenderTerminal(frame hand.Frame, proj projection, width, height int) string {
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = glyphEmpty
		}
	}

	set := func(x, y int, r rune) {
		if x >= 0 && x < width && y >= 0 && y < height {
			grid[y][x] = r
		}
	}

	markers := hand.SolveJoints(frame)
	for _, bone := range hand.SolveBones(frame, 0) {
		x1, y1 := proj.point(markers[bone.Parent].Position.X(), markers[bone.Parent].Position.Y())
		x2, y2 := proj.point(markers[bone.Child].Position.X(), markers[bone.Child].Position.Y())
		steps := max(abs(x2-x1), abs(y2-y1))
		for i := 0; i <= steps; i++ {
			var x, y int
			if steps == 0 {
				x, y = x1, y1
			} else {
				x = x1 + (x2-x1)*i/steps
				y = y1 + (y2-y1)*i/steps
			}
			set(x, y, glyphBone)
		}
	}

	for _, marker := range markers {
		x, y := proj.point(marker.Position.X(), marker.Position.Y())
		if marker.Root {
			set(x, y, glyphRoot)
		} else {
			set(x, y, glyphJoint)
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// TerminalProjection fits a frame sequence to a character grid.
func TerminalProjection(frames []hand.Frame, width, height int) projection {
	return fitProjection(frames, width, height)
}
