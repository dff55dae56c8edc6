package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/models"
	"github.com/san-kum/predsim/internal/stochastic"
)

type ExportData struct {
	RunID      string    `json:"run_id,omitempty"`
	Mode       string    `json:"mode"`
	Integrator string    `json:"integrator,omitempty"`
	Seed       uint64    `json:"seed,omitempty"`
	Steps      int       `json:"steps"`
	Params     any       `json:"params"`
	Times      []float64 `json:"times,omitempty"`
	Prey       []float64 `json:"prey"`
	Predators  []float64 `json:"predators"`
}

func NewTrajectoryData(runID, integrator string, p models.Params, traj dynamo.Trajectory) ExportData {
	return ExportData{
		RunID:      runID,
		Mode:       "deterministic",
		Integrator: integrator,
		Steps:      traj.Len(),
		Params:     p,
		Times:      traj.Times,
		Prey:       traj.Prey,
		Predators:  traj.Predators,
	}
}

func NewPointsData(runID string, p stochastic.Params, seed uint64, points []dynamo.PhasePoint) ExportData {
	data := ExportData{
		RunID:     runID,
		Mode:      "stochastic",
		Seed:      seed,
		Steps:     len(points),
		Params:    p,
		Prey:      make([]float64, len(points)),
		Predators: make([]float64, len(points)),
	}
	for i, pt := range points {
		data.Prey[i] = pt.Prey
		data.Predators[i] = pt.Predators
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
