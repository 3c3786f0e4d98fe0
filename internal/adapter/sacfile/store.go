// Package sacfile reads and writes traces as SAC files on the local filesystem.
package sacfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/seismic-prep/internal/config"
	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/couchcryptid/seismic-prep/internal/sac"
)

// Glob patterns for raw simulation output.
const (
	verticalPattern  = "*.z"
	componentPattern = "*.[xyz]"
)

// Store reads raw traces from the input directory and writes decorated and
// final traces to the intermediate and output directories.
// It implements pipeline.TraceSource and pipeline.TraceSink.
type Store struct {
	inputDir        string
	intermediateDir string
	outputDir       string
	logger          *slog.Logger
}

// NewStore creates a Store over the configured directories.
func NewStore(cfg *config.Config, logger *slog.Logger) *Store {
	return &Store{
		inputDir:        cfg.InputDir,
		intermediateDir: cfg.IntermediateDir,
		outputDir:       cfg.OutputDir,
		logger:          logger,
	}
}

// Verticals yields the raw vertical traces (*.z) in sorted filename order.
func (s *Store) Verticals() iter.Seq2[*domain.Trace, error] {
	return s.traces(verticalPattern)
}

// All yields every raw component trace (*.x, *.y, *.z) in sorted filename order.
func (s *Store) All() iter.Seq2[*domain.Trace, error] {
	return s.traces(componentPattern)
}

// traces globs on every call, so the returned sequence can be ranged over
// more than once. Files are read lazily; a bad file yields an error and
// iteration continues with the next one.
func (s *Store) traces(pattern string) iter.Seq2[*domain.Trace, error] {
	return func(yield func(*domain.Trace, error) bool) {
		paths, err := filepath.Glob(filepath.Join(s.inputDir, pattern))
		if err != nil {
			yield(nil, fmt.Errorf("glob %s: %w", pattern, err))
			return
		}
		if len(paths) == 0 {
			yield(nil, fmt.Errorf("%w: no %s files in %s", domain.ErrMissingResource, pattern, s.inputDir))
			return
		}
		sort.Strings(paths)
		s.logger.Debug("traces found", "dir", s.inputDir, "pattern", pattern, "count", len(paths))

		for _, p := range paths {
			t, err := ReadTrace(p)
			if !yield(t, err) {
				return
			}
		}
	}
}

// WriteIntermediate persists a decorated vertical trace as <STA>.<channel>.
func (s *Store) WriteIntermediate(t *domain.Trace) (string, error) {
	name := t.Station + "." + strings.ToLower(t.Channel)
	return s.write(s.intermediateDir, name, t)
}

// WriteFinal persists a transformed trace as <STA>.new_<channel>.
func (s *Store) WriteFinal(t *domain.Trace) (string, error) {
	name := t.Station + ".new_" + strings.ToLower(t.Channel)
	return s.write(s.outputDir, name, t)
}

func (s *Store) write(dir, name string, t *domain.Trace) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := WriteTrace(path, t); err != nil {
		return "", err
	}
	return path, nil
}

// ReadTrace decodes the SAC file at path. A missing file wraps
// domain.ErrMissingResource; an undecodable one, or one without a positive
// finite DELTA, wraps domain.ErrMalformedInput.
func ReadTrace(path string) (*domain.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingResource, path)
		}
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	sf, err := sac.Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedInput, path, err)
	}
	if !sf.Header.Defined(sac.Delta) {
		return nil, fmt.Errorf("%w: %s: DELTA undefined", domain.ErrMalformedInput, path)
	}
	if d := sf.Header.Float(sac.Delta); d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return nil, fmt.Errorf("%w: %s: DELTA %g", domain.ErrMalformedInput, path, d)
	}
	t := domain.TraceFromSAC(sf, path)

	// Headers without KSTNM/KCMPNM fall back to the <STA>.<comp> filename.
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if t.Station == "" {
		t.Station = strings.TrimSuffix(base, ext)
	}
	if t.Channel == "" && ext != "" {
		t.Channel = strings.ToUpper(ext[1:])
	}
	return t, nil
}

// WriteTrace encodes t as a SAC file at path, replacing any existing file.
func WriteTrace(path string, t *domain.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := sac.Write(w, t.ToSAC()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write trace %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush trace %s: %w", path, err)
	}
	return f.Close()
}
