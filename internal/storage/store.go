package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/experiment"
	"github.com/san-kum/partprop/internal/vec"
)

const (
	metadataFile   = "metadata.json"
	candidatesFile = "candidates.csv"
)

var ErrMalformedRow = errors.New("storage: malformed candidate row")

var csvHeader = []string{
	"index", "id", "status", "steps", "trajectory",
	"energy_initial", "energy_final", "redshift_final",
	"x", "y", "z", "field", "deactivated_by",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a saved run. Physical quantities are SI.
type RunMetadata struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Timestamp  time.Time      `json:"timestamp"`
	Seed       int64          `json:"seed"`
	Candidates int            `json:"candidates"`
	Workers    int            `json:"workers"`
	Step       float64        `json:"step"`
	Field      string         `json:"field"`
	Modules    []string       `json:"modules"`
	Summary    map[string]int `json:"summary"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
}

// NewMetadata fills the metadata of a run from its configuration and result.
func NewMetadata(cfg experiment.Config, res *experiment.Result) RunMetadata {
	return RunMetadata{
		Name:       cfg.Name,
		Seed:       cfg.Seed,
		Candidates: len(res.Records),
		Workers:    cfg.Workers,
		Step:       cfg.Step,
		Field:      cfg.Field.Kind,
		Modules:    res.Modules,
		Summary:    res.Summary.ByName(),
		Elapsed:    res.Elapsed,
	}
}

// Save writes meta and the candidate records to a new run directory and
// returns the run id. ID and Timestamp of meta are assigned here.
func (s *Store) Save(meta RunMetadata, records []experiment.Record) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeRecords(filepath.Join(runDir, candidatesFile), records); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeRecords(path string, records []experiment.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.ParticleID),
			r.Status.String(),
			strconv.Itoa(r.Steps),
			formatFloat(r.TrajectoryLength),
			formatFloat(r.InitialEnergy),
			formatFloat(r.FinalEnergy),
			formatFloat(r.FinalRedshift),
			formatFloat(r.Position.X),
			formatFloat(r.Position.Y),
			formatFloat(r.Position.Z),
			formatFloat(r.Field),
			r.DeactivatedBy,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every saved run, oldest first.
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
		return nil, err
	}

	return &meta, nil
}

// LoadCandidates reads the candidate records of a run.
func (s *Store) LoadCandidates(runID string) ([]experiment.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, candidatesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []experiment.Record{}, nil
	}

	records := make([]experiment.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string) (experiment.Record, error) {
	var rec experiment.Record
	var err error

	if rec.Index, err = strconv.Atoi(row[0]); err != nil {
		return rec, err
	}
	if rec.ParticleID, err = strconv.Atoi(row[1]); err != nil {
		return rec, err
	}
	status, ok := candidate.ParseStatus(row[2])
	if !ok {
		return rec, fmt.Errorf("unknown status %q", row[2])
	}
	rec.Status = status
	if rec.Steps, err = strconv.Atoi(row[3]); err != nil {
		return rec, err
	}

	floats := make([]float64, 8)
	for i := range floats {
		if floats[i], err = strconv.ParseFloat(row[4+i], 64); err != nil {
			return rec, err
		}
	}
	rec.TrajectoryLength = floats[0]
	rec.InitialEnergy = floats[1]
	rec.FinalEnergy = floats[2]
	rec.FinalRedshift = floats[3]
	rec.Position = vec.New(floats[4], floats[5], floats[6])
	rec.Field = floats[7]
	rec.DeactivatedBy = row[12]
	return rec, nil
}
