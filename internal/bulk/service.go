package bulk

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cleared-dev/bulkutil/internal/archive"
	"github.com/cleared-dev/bulkutil/internal/config"
	"github.com/cleared-dev/bulkutil/internal/logging"
	"github.com/cleared-dev/bulkutil/internal/model"
	"github.com/cleared-dev/bulkutil/internal/partition"
	"github.com/cleared-dev/bulkutil/internal/validation"
)

// Service loads bulk upload archives and runs validate, subset and split on them.
type Service struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{cfg: cfg, logger: logger}
}

// Load reads an archive into a Dataset.
func (s *Service) Load(archivePath string) (*model.Dataset, error) {
	ds, err := archive.Load(archivePath)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loaded archive",
		"path", archivePath,
		"properties", len(ds.Properties()),
		"line_items", len(ds.LineItems()),
		"history", len(ds.History()),
	)
	return ds, nil
}

// Validate loads an archive and validates it. A returned error means the
// archive could not be read; data issues are reported in the Result.
func (s *Service) Validate(archivePath string) (validation.Result, error) {
	ds, err := s.Load(archivePath)
	if err != nil {
		return validation.Result{}, err
	}

	v := validation.New(validation.Options{
		Reporter:              logging.ProgressReporter{Logger: s.logger},
		ProgressEvery:         s.cfg.Validation.ProgressEvery,
		CoverageValidRowsOnly: s.cfg.Validation.CoverageValidRowsOnly,
	})
	res := v.Validate(ds)
	s.logger.Info("validated archive", "path", archivePath, "issues", res.IssueCount(), "ok", res.OK())
	return res, nil
}

// SubsetParams holds parameters for Subset.
type SubsetParams struct {
	ArchivePath string
	OutputPath  string
	Properties  int
	DateSuffix  string // defaults to the configured suffix
}

// Subset writes an archive holding the first n properties and their closure.
func (s *Service) Subset(params SubsetParams) (*model.Dataset, error) {
	suffix, err := s.suffix(params.DateSuffix)
	if err != nil {
		return nil, err
	}

	ds, err := s.Load(params.ArchivePath)
	if err != nil {
		return nil, err
	}

	sub, err := partition.Subset(ds, params.Properties)
	if err != nil {
		return nil, err
	}

	if err := archive.Write(params.OutputPath, sub, suffix); err != nil {
		return nil, fmt.Errorf("writing subset: %w", err)
	}
	s.logger.Info("wrote subset", "path", params.OutputPath, "properties", len(sub.Properties()))
	return sub, nil
}

// SplitParams holds parameters for Split.
type SplitParams struct {
	ArchivePath string
	Prefix      string
	BatchSize   int
	OutputDir   string // defaults to the current directory
	DateSuffix  string // defaults to the configured suffix
}

// Batch describes one written split archive.
type Batch struct {
	Path       string
	Properties int
	LineItems  int
	History    int
}

// Split writes one archive per batch named <prefix>_<index>.zip (1-based).
func (s *Service) Split(params SplitParams) ([]Batch, error) {
	if params.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be a positive integer, got %d", partition.ErrInvalidArgument, params.BatchSize)
	}
	suffix, err := s.suffix(params.DateSuffix)
	if err != nil {
		return nil, err
	}

	ds, err := s.Load(params.ArchivePath)
	if err != nil {
		return nil, err
	}

	parts, err := partition.Split(ds, params.BatchSize)
	if err != nil {
		return nil, err
	}

	dir := params.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	batches := make([]Batch, 0, len(parts))
	for i, part := range parts {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.zip", params.Prefix, i+1))
		if err := archive.Write(path, part, suffix); err != nil {
			return nil, fmt.Errorf("writing batch %d: %w", i+1, err)
		}
		b := Batch{
			Path:       path,
			Properties: len(part.Properties()),
			LineItems:  len(part.LineItems()),
			History:    len(part.History()),
		}
		s.logger.Debug("wrote batch", "path", b.Path, "properties", b.Properties)
		batches = append(batches, b)
	}
	s.logger.Info("split archive", "path", params.ArchivePath, "batches", len(batches))
	return batches, nil
}

func (s *Service) suffix(override string) (string, error) {
	suffix := override
	if suffix == "" {
		suffix = s.cfg.Output.DateSuffix
	}
	if suffix == "" {
		suffix = archive.DefaultDateSuffix
	}
	if err := archive.ValidateDateSuffix(suffix); err != nil {
		return "", err
	}
	return suffix, nil
}
