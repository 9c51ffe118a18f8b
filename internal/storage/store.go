package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var csvHeader = []string{"time", "x", "y", "z", "x_hat", "y_hat", "z_hat", "xm"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Sigma       float64            `json:"sigma"`
	Rho         float64            `json:"rho"`
	Beta        float64            `json:"beta"`
	NoiseStd    float64            `json:"noise_std"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	StepsTaken  int                `json:"steps_taken"`
	Seed        uint64             `json:"seed"`
	Integrator  string             `json:"integrator"`
	Measurement string             `json:"measurement"`
	Metrics     map[string]float64 `json:"metrics"`
	// Error is set when the run stopped early; the stored trajectory is the
	// valid prefix.
	Error string `json:"error,omitempty"`
}

func newMetadata(id string, result *sim.Result, runErr error) RunMetadata {
	p := result.Params
	meta := RunMetadata{
		ID:          id,
		Timestamp:   time.Now(),
		Sigma:       p.Sigma,
		Rho:         p.Rho,
		Beta:        p.Beta,
		NoiseStd:    p.NoiseStd,
		Dt:          p.Dt,
		Steps:       p.Steps,
		StepsTaken:  result.StepsTaken,
		Seed:        p.Seed,
		Integrator:  result.Integrator,
		Measurement: p.Measurement.String(),
		Metrics:     result.Metrics,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

// Params rebuilds the parameter set the run was made with.
func (m RunMetadata) Params() (dynamo.Params, error) {
	mode, err := dynamo.ParseMeasurementMode(m.Measurement)
	if err != nil {
		return dynamo.Params{}, err
	}
	p := dynamo.Params{
		Sigma:       m.Sigma,
		Rho:         m.Rho,
		Beta:        m.Beta,
		NoiseStd:    m.NoiseStd,
		Dt:          m.Dt,
		Steps:       m.Steps,
		Measurement: mode,
	}
	return p.WithSeed(m.Seed), nil
}

// Save writes a run under a new directory and returns its ID. runErr is the
// error the simulation returned alongside result, if any.
func (s *Store) Save(result *sim.Result, runErr error) (string, error) {
	if result == nil || result.Trajectory == nil {
		return "", errors.New("storage: nothing to save")
	}

	runID := fmt.Sprintf("lorenz_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newMetadata(runID, result, runErr)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Trajectory); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes one row per snapshot. Values use the shortest
// representation that parses back to the same float64.
func WriteCSV(out io.Writer, tr *dynamo.Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for _, snap := range tr.History() {
		row[0] = formatFloat(snap.Time)
		for i, v := range snap.State {
			row[1+i] = formatFloat(v)
		}
		row[len(row)-1] = formatFloat(snap.Measurement)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads the stored snapshots of a run.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tr, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return tr, nil
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader) (*dynamo.Trajectory, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}

	tr := dynamo.NewTrajectory(len(records) - 1)
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
			vals[j] = v
		}
		state := dynamo.State(vals[1 : 1+dynamo.StateDim])
		if err := tr.Record(vals[0], state, vals[len(vals)-1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
	}
	return tr, nil
}
