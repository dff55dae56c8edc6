package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/predsim/internal/dynamo"
)

// PhaseToSVG draws points as a single path in the (prey, predators) plane.
func PhaseToSVG(points []dynamo.PhasePoint, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	points = thin(points, maxChartPoints)

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

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.Prey - minX) / rangeX * float64(width)
		y := float64(height) - (p.Predators-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
