package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/lorenzobs/internal/sim"
)

type ExportData struct {
	Sigma        float64            `json:"sigma"`
	Rho          float64            `json:"rho"`
	Beta         float64            `json:"beta"`
	NoiseStd     float64            `json:"noise_std"`
	Dt           float64            `json:"dt"`
	Seed         uint64             `json:"seed"`
	Integrator   string             `json:"integrator"`
	Measurement  string             `json:"measurement"`
	Steps        int                `json:"steps"`
	Times        []float64          `json:"times"`
	States       [][]float64        `json:"states"`
	Measurements []float64          `json:"measurements"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newExportData(result *sim.Result) ExportData {
	tr := result.Trajectory
	p := result.Params
	data := ExportData{
		Sigma:        p.Sigma,
		Rho:          p.Rho,
		Beta:         p.Beta,
		NoiseStd:     p.NoiseStd,
		Dt:           p.Dt,
		Seed:         p.Seed,
		Integrator:   result.Integrator,
		Measurement:  p.Measurement.String(),
		Steps:        result.StepsTaken,
		Times:        tr.Times(),
		States:       make([][]float64, tr.Len()),
		Measurements: tr.Measurements(),
		Metrics:      result.Metrics,
	}
	for i, snap := range tr.History() {
		data.States[i] = snap.State
	}
	return data
}

// WriteJSON encodes a run as indented JSON.
func WriteJSON(w io.Writer, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(result))
}

func ExportJSON(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, result)
}
