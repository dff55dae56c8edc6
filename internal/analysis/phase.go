package analysis

import (
	"strings"

	"github.com/san-kum/predsim/internal/dynamo"
)

// PhaseToASCII draws points in the (prey, predators) plane on a width x
// height character canvas. Prey runs along the horizontal axis.
func PhaseToASCII(points []dynamo.PhasePoint, width, height int) string {
	if len(points) == 0 || width < 1 || height < 1 {
		return ""
	}

	minX, maxX := points[0].Prey, points[0].Prey
	minY, maxY := points[0].Predators, points[0].Predators

	for _, p := range points {
		if p.Prey < minX {
			minX = p.Prey
		}
		if p.Prey > maxX {
			maxX = p.Prey
		}
		if p.Predators < minY {
			minY = p.Predators
		}
		if p.Predators > maxY {
			maxY = p.Predators
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range points {
		col := int((p.Prey - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Predators-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Zero lines only show up once a population goes negative.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which values rises through
// level.
func Crossings(times, values []float64, level float64) []float64 {
	var out []float64
	for i := 1; i < len(values) && i < len(times); i++ {
		prev, curr := values[i-1], values[i]
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// Period estimates the oscillation period from successive upward crossings
// of the prey series through level. It returns 0 with fewer than two
// crossings.
func Period(traj dynamo.Trajectory, level float64) float64 {
	c := Crossings(traj.Times, traj.Prey, level)
	if len(c) < 2 {
		return 0
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1)
}
