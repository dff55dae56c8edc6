package viz

import (
	"strings"

	"github.com/san-kum/predsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// maxCanvasSegments caps the number of line segments drawn per frame.
const maxCanvasSegments = 4000

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PlotPhase draws points as a connected path with prey on the horizontal
// axis, scaled to fill the canvas.
func (c *Canvas) PlotPhase(points []dynamo.PhasePoint) {
	if len(points) == 0 {
		return
	}

	minX, maxX := points[0].Prey, points[0].Prey
	minY, maxY := points[0].Predators, points[0].Predators
	for _, p := range points {
		minX, maxX = min(minX, p.Prey), max(maxX, p.Prey)
		minY, maxY = min(minY, p.Predators), max(maxY, p.Predators)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	w, h := c.Width*2-1, c.Height*4-1
	project := func(p dynamo.PhasePoint) (int, int) {
		x := int((p.Prey - minX) / rangeX * float64(w))
		y := h - int((p.Predators-minY)/rangeY*float64(h))
		return x, y
	}

	stride := 1
	if len(points) > maxCanvasSegments {
		stride = (len(points) + maxCanvasSegments - 1) / maxCanvasSegments
	}

	px, py := project(points[0])
	c.Set(px, py)
	for i := stride; i < len(points)+stride-1; i += stride {
		if i >= len(points) {
			i = len(points) - 1
		}
		x, y := project(points[i])
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
