package report

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"gopkg.in/yaml.v3"
)

// Report is one named statistic evaluated for every sensor.
// Reports are loaded at startup from YAML files and fingerprinted so cached
// snapshots can tell which definition produced them.
type Report struct {
	Name         string      `json:"name"`
	Kind         string      `json:"kind"`
	Unit         period.Unit `json:"unit"`
	SubtractUnit period.Unit `json:"subtract_unit,omitempty"` // previous_sum only
	OffsetNumber int         `json:"offset_number"`
	ToNow        bool        `json:"to_now"`
	Fingerprint  string      `json:"fingerprint,omitempty"` // SHA-256 of the raw YAML file
}

// ErrNotFound is returned by Repository.Get for an unknown report name.
var ErrNotFound = errors.New("report not found")

// rawReport is the on-disk YAML shape.
type rawReport struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"`
	Unit         string `yaml:"unit"`
	SubtractUnit string `yaml:"subtract_unit"`
	OffsetNumber *int   `yaml:"offset_number"`
	ToNow        bool   `yaml:"to_now"`
}

// Repository defines the interface for loading report definitions.
type Repository interface {
	// Get returns the report with the given name, or an error if not found.
	Get(ctx context.Context, name string) (*Report, error)

	// List returns all loaded reports, optionally filtered by kind.
	List(ctx context.Context, kind string) ([]Report, error)

	// GetReports returns all reports ordered by name.
	GetReports() []Report
}

// FileSystemRepository loads reports from *.yaml files in a directory, one
// report per file. Reports are loaded once; there is no hot reload.
type FileSystemRepository struct {
	dir     string
	reports map[string]Report
}

// NewFileSystemRepository creates a repository and eagerly loads every report
// in dir. A missing directory yields zero reports.
func NewFileSystemRepository(dir string) (*FileSystemRepository, error) {
	repo := &FileSystemRepository{
		dir:     dir,
		reports: make(map[string]Report),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewStaticRepository wraps already-built reports. Duplicate names are rejected.
func NewStaticRepository(reports ...Report) (*FileSystemRepository, error) {
	repo := &FileSystemRepository{reports: make(map[string]Report, len(reports))}
	for _, r := range reports {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, exists := repo.reports[r.Name]; exists {
			return nil, fmt.Errorf("report %q: duplicate report name", r.Name)
		}
		repo.reports[r.Name] = r
	}
	return repo, nil
}

func (r *FileSystemRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("report dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("report path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading report dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading report file %s: %w", path, err)
		}

		var raw rawReport
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing report file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // empty or comment-only file
		}

		rep, err := raw.build()
		if err != nil {
			return err
		}
		rep.Fingerprint = fmt.Sprintf("%x", sha256.Sum256(data))

		if _, exists := r.reports[rep.Name]; exists {
			return fmt.Errorf("report %q: duplicate report name (check multiple YAML files)", rep.Name)
		}
		r.reports[rep.Name] = rep
	}
	return nil
}

func (raw rawReport) build() (Report, error) {
	rep := Report{
		Name:         raw.Name,
		Kind:         strings.TrimSpace(raw.Kind),
		OffsetNumber: 1,
		ToNow:        raw.ToNow,
	}
	if raw.OffsetNumber != nil {
		rep.OffsetNumber = *raw.OffsetNumber
	}

	unit, err := period.ParseUnit(raw.Unit)
	if err != nil {
		return Report{}, fmt.Errorf("report %q: %w", raw.Name, err)
	}
	rep.Unit = unit

	if raw.SubtractUnit != "" {
		sub, err := period.ParseUnit(raw.SubtractUnit)
		if err != nil {
			return Report{}, fmt.Errorf("report %q: subtract_unit: %w", raw.Name, err)
		}
		rep.SubtractUnit = sub
	} else if rep.Kind == KindPreviousSum {
		rep.SubtractUnit = unit
	}

	if err := rep.Validate(); err != nil {
		return Report{}, err
	}
	return rep, nil
}

// Validate checks that the report can be evaluated.
func (r Report) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("report name must not be empty")
	}
	if !ValidKind(r.Kind) {
		return fmt.Errorf("report %q: unsupported kind %q", r.Name, r.Kind)
	}
	if !r.Unit.Valid() {
		return fmt.Errorf("report %q: unsupported unit %q", r.Name, r.Unit)
	}
	if r.Kind == KindPreviousSum && !r.SubtractUnit.Valid() {
		return fmt.Errorf("report %q: unsupported subtract_unit %q", r.Name, r.SubtractUnit)
	}
	if r.Kind != KindCurrentSum && r.OffsetNumber < 1 {
		return fmt.Errorf("report %q: offset_number must be >= 1", r.Name)
	}
	return nil
}

// Get returns the report with the given name, or an error if not found.
func (r *FileSystemRepository) Get(_ context.Context, name string) (*Report, error) {
	rep, ok := r.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return &rep, nil
}

// List returns all loaded reports, optionally filtered by kind.
func (r *FileSystemRepository) List(_ context.Context, kind string) ([]Report, error) {
	var out []Report
	for _, rep := range r.GetReports() {
		if kind != "" && rep.Kind != kind {
			continue
		}
		out = append(out, rep)
	}
	return out, nil
}

// GetReports returns all reports ordered by name.
func (r *FileSystemRepository) GetReports() []Report {
	reports := make([]Report, 0, len(r.reports))
	for _, rep := range r.reports {
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports
}

// NeedsDays reports whether any report reads day-grained records.
func NeedsDays(reports []Report) bool {
	for _, r := range reports {
		if r.ToNow {
			return true
		}
	}
	return false
}
