package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/resobee/potentials/internal/compute"
	"github.com/resobee/potentials/internal/system"
)

const (
	metadataFile = "metadata.json"
	forcesFile   = "forces.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// PairParams records the parameters of one type pair.
type PairParams struct {
	Types    [2]string `json:"types"`
	Strength float64   `json:"strength"`
	RCut     float64   `json:"r_cut"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Export    string             `json:"export"`
	Potential string             `json:"potential"`
	Backend   string             `json:"backend"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Particles int                `json:"particles"`
	Box       system.Vec3        `json:"box"`
	Params    []PairParams       `json:"params"`
	Energy    float64            `json:"energy"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ForceRow is one particle of a stored run.
type ForceRow struct {
	Type     string      `json:"type"`
	Position system.Vec3 `json:"position"`
	Force    system.Vec3 `json:"force"`
	Energy   float64     `json:"energy"`
}

// Save writes metadata.json and forces.csv under a new run directory and
// returns the run id. ID and Timestamp of meta are filled in.
func (s *Store) Save(meta RunMetadata, sys *system.System, res *compute.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Export, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Particles = sys.N()
	meta.Box = sys.Box.L

	if err := writeRun(runDir, meta, sys, res); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, sys *system.System, res *compute.Result) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, forcesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"id", "type", "x", "y", "z", "fx", "fy", "fz", "energy"}
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := 0; i < sys.N(); i++ {
		p, f := sys.Positions[i], res.Forces[i]
		row := []string{
			strconv.Itoa(i),
			sys.TypeNames[sys.Types[i]],
			format(p[0]), format(p[1]), format(p[2]),
			format(f[0]), format(f[1]), format(f[2]),
			format(res.Energies[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, oldest first.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
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
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadForces(runID string) ([]ForceRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, forcesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []ForceRow{}, nil
	}

	rows := make([]ForceRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) != 9 {
			return nil, fmt.Errorf("storage: %s line %d: expected 9 columns, got %d", forcesFile, i+1, len(rec))
		}

		var vals [7]float64
		for k := range vals {
			v, err := strconv.ParseFloat(rec[k+2], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s line %d: %w", forcesFile, i+1, err)
			}
			vals[k] = v
		}

		rows = append(rows, ForceRow{
			Type:     rec[1],
			Position: system.Vec3{vals[0], vals[1], vals[2]},
			Force:    system.Vec3{vals[3], vals[4], vals[5]},
			Energy:   vals[6],
		})
	}

	return rows, nil
}
