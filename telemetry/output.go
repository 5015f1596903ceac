// Package telemetry records tendril runs as CSV: one row per tip callback,
// one row per sampled frame, and a summary.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/phanxgames/tendril/config"
)

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	tipFile   *os.File
	frameFile *os.File

	// Track if headers have been written
	tipHeaderWritten   bool
	frameHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "tips.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating tips.csv: %w", err)
	}
	om.tipFile = f

	f, err = os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		om.tipFile.Close()
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.frameFile = f

	return om, nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTip appends a record to tips.csv.
func (om *OutputManager) WriteTip(rec TipRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.tipFile, []TipRecord{rec}, &om.tipHeaderWritten); err != nil {
		return fmt.Errorf("writing tip: %w", err)
	}
	return nil
}

// WriteFrame appends a record to frames.csv.
func (om *OutputManager) WriteFrame(rec FrameRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.frameFile, []FrameRecord{rec}, &om.frameHeaderWritten); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// WriteSummary writes summary.csv with a single row.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	if err := gocsv.Marshal([]Summary{s}, f); err != nil {
		f.Close()
		return fmt.Errorf("writing summary: %w", err)
	}
	return f.Close()
}

// writeRecords marshals rows, with headers on the first write only.
func writeRecords[T any](f *os.File, rows []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.tipFile != nil {
		if err := om.tipFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.frameFile != nil {
		if err := om.frameFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
