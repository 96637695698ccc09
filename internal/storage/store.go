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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/planktonviz/internal/config"
	"github.com/san-kum/planktonviz/internal/history"
)

const (
	metadataFile = "metadata.json"
	chemicalFile = "chemical.csv"
	freeFile     = "plankton.csv"
	attachedFile = "attached.csv"
)

var (
	ErrRunNotFound   = errors.New("storage: run not found")
	ErrInvalidRunID  = errors.New("storage: invalid run id")
	ErrOrderMismatch = errors.New("storage: history order does not match config")
)

// writeMatrix is replaced in tests to simulate write failures.
var writeMatrix = WriteMatrixFile

// checkRunID accepts IDs that name a directory directly under the store.
func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) || filepath.Base(runID) != runID {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
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

type RunMetadata struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Order     string         `json:"order"`
	Timestamp time.Time      `json:"timestamp"`
	Steps     int            `json:"steps"`
	Config    *config.Config `json:"config"`
}

// Save writes h and its configuration under a new run directory and returns
// the run ID. A failed save leaves no directory behind.
func (s *Store) Save(cfg *config.Config, h *history.History) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	order, err := cfg.HistoryOrder()
	if err != nil {
		return "", err
	}
	if h.Order != order {
		return "", fmt.Errorf("%w: history is %s, config is %s", ErrOrderMismatch, h.Order, cfg.Order)
	}
	if err := h.Validate(cfg.Grid.N); err != nil {
		return "", err
	}

	runID := fmt.Sprintf("%s_%s", cfg.Name, uuid.NewString()[:8])
	if err := checkRunID(runID); err != nil {
		return "", err
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := s.Init(); err != nil {
		return "", err
	}
	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, runID, cfg, h); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir, runID string, cfg *config.Config, h *history.History) error {
	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Order:     h.Order.String(),
		Timestamp: time.Now(),
		Steps:     h.Steps(),
		Config:    cfg,
	}
	if err := writeMatrix(filepath.Join(runDir, chemicalFile), h.Chemical); err != nil {
		return err
	}
	if err := writeMatrix(filepath.Join(runDir, freeFile), h.Free); err != nil {
		return err
	}
	if h.Order == history.FirstOrder {
		if err := writeMatrix(filepath.Join(runDir, attachedFile), h.Attached); err != nil {
			return err
		}
	}

	// metadata last: List only shows runs whose metadata exists
	return writeJSON(filepath.Join(runDir, metadataFile), meta)
}

// List returns the metadata of every readable run, oldest first.
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
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if meta.Config == nil {
		return nil, fmt.Errorf("run %s: metadata has no config", runID)
	}

	return &meta, nil
}

// LoadHistory reads the run's metadata and field history.
func (s *Store) LoadHistory(runID string) (*RunMetadata, *history.History, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	order, err := history.ParseOrder(meta.Order)
	if err != nil {
		return nil, nil, err
	}

	runDir := filepath.Join(s.baseDir, runID)
	h := &history.History{Order: order, Dt: meta.Config.Dt}

	if h.Chemical, err = ReadMatrixFile(filepath.Join(runDir, chemicalFile)); err != nil {
		return nil, nil, err
	}
	if h.Free, err = ReadMatrixFile(filepath.Join(runDir, freeFile)); err != nil {
		return nil, nil, err
	}
	if order == history.FirstOrder {
		if h.Attached, err = ReadMatrixFile(filepath.Join(runDir, attachedFile)); err != nil {
			return nil, nil, err
		}
	}

	if err := h.Validate(meta.Config.Grid.N); err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return meta, h, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WriteMatrixFile writes rows as CSV, one time step per line.
func WriteMatrixFile(path string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteMatrix(f, rows); err != nil {
		return err
	}
	return f.Close()
}

func WriteMatrix(w io.Writer, rows [][]float64) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatrixFile reads a CSV matrix written by WriteMatrixFile or by an
// external simulation. Malformed numbers are reported with their position.
func ReadMatrixFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func ReadMatrix(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", i+1, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
