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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/circles/internal/geom"
	"github.com/san-kum/circles/internal/scene"
)

const (
	metadataFile = "metadata.json"
	contactsFile = "contacts.csv"
	bodiesFile   = "bodies.csv"
)

var ErrMalformedRecord = errors.New("storage: malformed record")

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
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Fingerprint string             `json:"fingerprint"`
	Bodies      int                `json:"bodies"`
	Steps       int                `json:"steps"`
	Frames      int                `json:"frames"`
	Metrics     map[string]float64 `json:"metrics"`
}

// ContactRecord is one row of contacts.csv.
type ContactRecord struct {
	Frame int
	scene.Contact
}

func newRunID(name string, now time.Time) string {
	if name == "" {
		name = "run"
	}
	return fmt.Sprintf("%s_%d_%s", safeName(name), now.Unix(), uuid.NewString()[:8])
}

// safeName keeps a scene name usable as one path element.
func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
}

// Save writes the run under a fresh ID and returns it. ID, Timestamp,
// Frames and Metrics in meta are filled from the run.
func (s *Store) Save(meta RunMetadata, result *scene.Result) (string, error) {
	now := time.Now()
	meta.ID = newRunID(meta.Scene, now)
	meta.Timestamp = now
	meta.Frames = len(result.Frames)
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	contacts := [][]string{{"frame", "a", "b", "relation", "distance_sq", "lo", "hi"}}
	bodies := [][]string{{"frame", "name", "x", "y", "r"}}
	for _, f := range result.Frames {
		idx := strconv.Itoa(f.Index)
		for _, c := range f.Contacts {
			contacts = append(contacts, []string{
				idx, c.A, c.B, c.Relation.String(),
				formatFloat(c.DistanceSq), formatFloat(c.Lo), formatFloat(c.Hi),
			})
		}
		for _, b := range f.Bodies {
			bodies = append(bodies, []string{
				idx, b.Name, formatFloat32(b.X), formatFloat32(b.Y), formatFloat32(b.R),
			})
		}
	}

	if err := writeCSV(filepath.Join(runDir, contactsFile), contacts); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, bodiesFile), bodies); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns all readable runs, oldest first.
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

func (s *Store) LoadContacts(runID string) ([]ContactRecord, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, contactsFile))
	if err != nil {
		return nil, err
	}

	out := make([]ContactRecord, 0, len(records))
	for i, rec := range records {
		if len(rec) != 7 {
			return nil, fmt.Errorf("%w: %s line %d", ErrMalformedRecord, contactsFile, i+2)
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, contactsFile, i+2, err)
		}
		rel, err := geom.ParseRelation(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, contactsFile, i+2, err)
		}
		vals, err := parseFloats(rec[4:])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, contactsFile, i+2, err)
		}
		out = append(out, ContactRecord{
			Frame: frame,
			Contact: scene.Contact{
				A: rec[1], B: rec[2], Relation: rel,
				DistanceSq: vals[0], Lo: vals[1], Hi: vals[2],
			},
		})
	}
	return out, nil
}

// LoadFrames rebuilds the frames of a run from its CSV files. Frame
// indexes outside the metadata frame count are malformed.
func (s *Store) LoadFrames(runID string) ([]scene.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, bodiesFile))
	if err != nil {
		return nil, err
	}

	var frames []scene.Frame
	at := func(idx int) *scene.Frame {
		for len(frames) <= idx {
			frames = append(frames, scene.Frame{Index: len(frames)})
		}
		return &frames[idx]
	}

	for i, rec := range records {
		if len(rec) != 5 {
			return nil, fmt.Errorf("%w: %s line %d", ErrMalformedRecord, bodiesFile, i+2)
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil || idx < 0 || idx >= meta.Frames {
			return nil, fmt.Errorf("%w: %s line %d", ErrMalformedRecord, bodiesFile, i+2)
		}
		vals, err := parseFloats(rec[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, bodiesFile, i+2, err)
		}
		f := at(idx)
		f.Bodies = append(f.Bodies, scene.BodyState{
			Name: rec[1], X: float32(vals[0]), Y: float32(vals[1]), R: float32(vals[2]),
		})
	}

	contacts, err := s.LoadContacts(runID)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		if c.Frame < 0 || c.Frame >= meta.Frames {
			return nil, fmt.Errorf("%w: %s frame %d out of range", ErrMalformedRecord, contactsFile, c.Frame)
		}
		f := at(c.Frame)
		f.Contacts = append(f.Contacts, c.Contact)
	}

	return frames, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// readCSV returns the records after the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloat32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
