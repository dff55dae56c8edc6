package export

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// maxChartPoints bounds the number of vertices handed to the renderer.
// Stochastic runs are thinned to this many points.
const maxChartPoints = 20000

var (
	PreyColor      = chart.ColorBlue
	PredatorsColor = chart.ColorRed
	phaseColor     = drawing.Color{R: 0, G: 128, B: 96, A: 255}
)

type ChartOptions struct {
	Title  string
	Width  int
	Height int
}

func (o ChartOptions) size() (int, int) {
	w, h := o.Width, o.Height
	if w < 1 {
		w = 800
	}
	if h < 1 {
		h = 600
	}
	return w, h
}

// TimeSeriesPNG renders prey (blue) and predators (red) against time.
func TimeSeriesPNG(w io.Writer, traj dynamo.Trajectory, opts ChartOptions) error {
	if traj.Len() == 0 {
		return fmt.Errorf("chart needs at least 1 point")
	}

	width, height := opts.size()
	lo, hi := bounds(traj.Prey, traj.Predators)

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Time",
			Range: padRange(traj.Times[0], traj.Times[traj.Len()-1], 0),
		},
		YAxis: chart.YAxis{
			Name:  "Population",
			Range: padRange(lo, hi, 0.05),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Prey",
				XValues: traj.Times,
				YValues: traj.Prey,
				Style:   lineStyle(PreyColor, 2.0, traj.Len()),
			},
			chart.ContinuousSeries{
				Name:    "Predators",
				XValues: traj.Times,
				YValues: traj.Predators,
				Style:   lineStyle(PredatorsColor, 2.0, traj.Len()),
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// PhasePNG renders points in the (prey, predators) plane.
func PhasePNG(w io.Writer, points []dynamo.PhasePoint, opts ChartOptions) error {
	if len(points) == 0 {
		return fmt.Errorf("chart needs at least 1 point")
	}

	points = thin(points, maxChartPoints)
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Prey
		ys[i] = p.Predators
	}

	width, height := opts.size()
	xlo, xhi := bounds(xs)
	ylo, yhi := bounds(ys)

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: "Prey", Range: padRange(xlo, xhi, 0.05)},
		YAxis: chart.YAxis{Name: "Predators", Range: padRange(ylo, yhi, 0.05)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Phase",
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(phaseColor, 1.5, len(xs)),
			},
		},
	}

	return graph.Render(chart.PNG, w)
}

// WriteFile creates path and streams a rendered chart into it.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// lineStyle strokes a series; a single sample has no segment to stroke and
// is drawn as a dot.
func lineStyle(color drawing.Color, width float64, n int) chart.Style {
	style := chart.Style{StrokeColor: color, StrokeWidth: width}
	if n == 1 {
		style.DotColor = color
		style.DotWidth = 3 * width
	}
	return style
}

func bounds(series ...[]float64) (float64, float64) {
	lo, hi := series[0][0], series[0][0]
	for _, s := range series {
		for _, v := range s {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// padRange widens [lo, hi] by frac of its span. A zero span is widened by
// one unit so the renderer never sees an empty range.
func padRange(lo, hi, frac float64) *chart.ContinuousRange {
	span := hi - lo
	if span == 0 {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return &chart.ContinuousRange{Min: lo - span*frac, Max: hi + span*frac}
}

// thin keeps every k-th point so about limit remain, always including the
// last one.
func thin(points []dynamo.PhasePoint, limit int) []dynamo.PhasePoint {
	if len(points) <= limit {
		return points
	}
	k := (len(points) + limit - 1) / limit
	out := make([]dynamo.PhasePoint, 0, limit+1)
	for i := 0; i < len(points); i += k {
		out = append(out, points[i])
	}
	if (len(points)-1)%k != 0 {
		out = append(out, points[len(points)-1])
	}
	return out
}
