package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/predsim/internal/dynamo"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteTrajectoryCSV writes one row per sample with a time,prey,predators
// header.
func WriteTrajectoryCSV(w io.Writer, traj dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "prey", "predators"}); err != nil {
		return err
	}
	for i := 0; i < traj.Len(); i++ {
		t, prey, pred := traj.At(i)
		if err := cw.Write([]string{formatFloat(t), formatFloat(prey), formatFloat(pred)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePointsCSV writes a stochastic run with a step,prey,predators header.
func WritePointsCSV(w io.Writer, points []dynamo.PhasePoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"step", "prey", "predators"}); err != nil {
		return err
	}
	for i, p := range points {
		if err := cw.Write([]string{strconv.Itoa(i), formatFloat(p.Prey), formatFloat(p.Predators)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
