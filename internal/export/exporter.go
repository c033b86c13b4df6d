package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"poolpulse/internal/domain"
)

// Exporter delivers a finished report table somewhere durable.
type Exporter interface {
	Export(ctx context.Context, table *Table) error
}

// FileExporter writes tables as CSV files under a local directory.
type FileExporter struct {
	dir    string
	logger *slog.Logger
}

// NewFileExporter creates a FileExporter rooted at dir. The directory is
// created on first export if it does not exist.
func NewFileExporter(dir string, logger *slog.Logger) *FileExporter {
	return &FileExporter{
		dir:    dir,
		logger: logger.With(slog.String("component", "file_exporter")),
	}
}

// Export renders the table and writes it to <dir>/<name>.csv, overwriting any
// previous run's output.
func (e *FileExporter) Export(ctx context.Context, table *Table) error {
	data, err := table.CSV()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("export: creating output dir %s: %w", e.dir, err)
	}

	path := filepath.Join(e.dir, table.Name+".csv")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}

	e.logger.Info("report written",
		slog.String("report", table.Name),
		slog.String("path", path),
		slog.Int("rows", table.Len()),
	)
	return nil
}

// BlobExporter uploads tables as CSV objects. Each run gets a unique key so
// historical runs remain retrievable.
type BlobExporter struct {
	writer domain.BlobWriter
	runID  string
	logger *slog.Logger
}

// NewBlobExporter creates a BlobExporter. All tables exported through the same
// instance share one run ID.
func NewBlobExporter(writer domain.BlobWriter, logger *slog.Logger) *BlobExporter {
	return &BlobExporter{
		writer: writer,
		runID:  uuid.NewString(),
		logger: logger.With(slog.String("component", "blob_exporter")),
	}
}

// Export uploads the table to reports/<name>/<date>-<runID>.csv.
func (e *BlobExporter) Export(ctx context.Context, table *Table) error {
	data, err := table.CSV()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("reports/%s/%s-%s.csv", table.Name, time.Now().UTC().Format("2006-01-02"), e.runID)
	if err := e.writer.Put(ctx, path, bytes.NewReader(data), "text/csv"); err != nil {
		return fmt.Errorf("export: uploading %s: %w", path, err)
	}

	e.logger.Info("report uploaded",
		slog.String("report", table.Name),
		slog.String("path", path),
		slog.Int("rows", table.Len()),
	)
	return nil
}

// MultiExporter fans an export out to several destinations. The first failure
// aborts the fan-out.
type MultiExporter []Exporter

// Export delivers the table to each destination in order.
func (m MultiExporter) Export(ctx context.Context, table *Table) error {
	for _, e := range m {
		if err := e.Export(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Exporter = (*FileExporter)(nil)
	_ Exporter = (*BlobExporter)(nil)
	_ Exporter = (MultiExporter)(nil)
)
