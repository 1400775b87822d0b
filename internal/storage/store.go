package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/sim"
)

// Store archives runs under baseDir, one directory per run holding
// metadata.json and a states.csv with a row per body per frame.
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
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(cfg sim.Config, result *sim.Result) (string, error) {
	scene := cfg.Scene
	if scene == "" {
		scene = "run"
	}
	runID := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     cfg.Scene,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Params:    cfg.Params,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "body", "x", "y", "z", "vx", "vy", "vz"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, frame := range result.Frames {
		for _, b := range frame.Bodies {
			row := []string{
				strconv.FormatFloat(frame.Time, 'f', 6, 64),
				b.Handle.String(),
				strconv.FormatFloat(b.Position.X(), 'f', 6, 64),
				strconv.FormatFloat(b.Position.Y(), 'f', 6, 64),
				strconv.FormatFloat(b.Position.Z(), 'f', 6, 64),
				strconv.FormatFloat(b.Velocity.X(), 'f', 6, 64),
				strconv.FormatFloat(b.Velocity.Y(), 'f', 6, 64),
				strconv.FormatFloat(b.Velocity.Z(), 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Delete removes a saved run. Only directories carrying a metadata.json
// qualify, so a stray ID cannot take out unrelated paths.
func (s *Store) Delete(runID string) error {
	runDir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); err != nil {
		return fmt.Errorf("run not found: %s", runID)
	}
	return os.RemoveAll(runDir)
}

// LoadSeries reads a run's states back as per-body series in first
// appearance order. Malformed rows are skipped.
func (s *Store) LoadSeries(runID string) ([]sim.Series, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	series := make([]sim.Series, 0)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 8 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		var vals [6]float64
		bad := false
		for j := 0; j < 6; j++ {
			v, err := strconv.ParseFloat(record[j+2], 64)
			if err != nil {
				bad = true
				break
			}
			vals[j] = v
		}
		if bad {
			continue
		}

		id := record[1]
		si, ok := index[id]
		if !ok {
			si = len(series)
			index[id] = si
			series = append(series, sim.Series{Body: id})
		}

		series[si].Times = append(series[si].Times, t)
		series[si].Positions = append(series[si].Positions, particle.Vec3{vals[0], vals[1], vals[2]})
		series[si].Velocities = append(series[si].Velocities, particle.Vec3{vals[3], vals[4], vals[5]})
	}

	return series, nil
}
