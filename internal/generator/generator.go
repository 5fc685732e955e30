package generator

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jo-hoe/appicon/internal/commandstructure"
	"github.com/jo-hoe/appicon/internal/common"
	"github.com/jo-hoe/appicon/internal/sizetable"
	"github.com/jo-hoe/appicon/internal/source"
)

// Generator renders one source into every entry of a size table.
type Generator struct {
	workers  int
	pipeline *commandstructure.CommandInvoker
}

// NewGenerator creates a generator. workers <= 0 uses GOMAXPROCS, 1 processes
// entries sequentially. pipeline may be nil.
func NewGenerator(workers int, pipeline *commandstructure.CommandInvoker) *Generator {
	if pipeline == nil {
		pipeline = commandstructure.NewCommandInvoker(nil)
	}
	return &Generator{
		workers:  workers,
		pipeline: pipeline,
	}
}

// Generate renders src into table below baseDir sequentially without post-processing.
func Generate(src source.Source, table sizetable.Table, baseDir string) (*Report, error) {
	return NewGenerator(1, nil).Generate(src, table, baseDir)
}

// Generate produces one PNG per entry. A failing entry is recorded in the
// report and does not stop the others. The returned error is only set when
// nothing could be attempted.
func (g *Generator) Generate(src source.Source, table sizetable.Table, baseDir string) (*Report, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	start := time.Now()
	slog.Info("starting asset generation",
		"source", src.Name(),
		"base_dir", baseDir,
		"entry_count", len(table),
		"workers", g.workers,
		"post_processors", g.pipeline.Names())

	report := &Report{
		Source:  src.Name(),
		BaseDir: baseDir,
		Results: make([]Result, len(table)),
	}

	// Each worker writes its own slot, so the report keeps table order
	common.ParallelFor(len(table), g.workers, func(i int) {
		report.Results[i] = g.generateEntry(src, table[i], baseDir)
	})

	slog.Info("asset generation completed",
		"source", src.Name(),
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"total_duration_ms", time.Since(start).Milliseconds())

	return report, nil
}

func (g *Generator) generateEntry(src source.Source, entry sizetable.Entry, baseDir string) Result {
	start := time.Now()
	result := Result{Entry: entry, Path: entry.Resolve(baseDir)}

	data, err := g.render(src, entry.Size)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		slog.Error("failed to render asset",
			"id", entry.ID,
			"size", entry.Size,
			"error", err)
		return result
	}

	dir := filepath.Dir(result.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrDirectoryCreation, dir, err)
		result.Duration = time.Since(start)
		slog.Error("failed to create output directory",
			"id", entry.ID,
			"dir", dir,
			"error", err)
		return result
	}

	if err := writeFileAtomic(result.Path, data); err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrWrite, result.Path, err)
		result.Duration = time.Since(start)
		slog.Error("failed to write asset",
			"id", entry.ID,
			"path", result.Path,
			"error", err)
		return result
	}

	result.Bytes = len(data)
	result.Duration = time.Since(start)
	slog.Info("generated asset",
		"id", entry.ID,
		"size", entry.Size,
		"path", result.Path,
		"size_bytes", result.Bytes,
		"duration_ms", result.Duration.Milliseconds())
	return result
}

// render rasterizes, encodes and post-processes one asset.
func (g *Generator) render(src source.Source, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrRender, size)
	}

	img, err := src.Render(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		return nil, fmt.Errorf("%w: source %s returned %dx%d for %dx%d", ErrRender, src.Name(), b.Dx(), b.Dy(), size, size)
	}

	var buf bytes.Buffer
	buf.Grow(size * size)
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: failed to encode PNG: %w", ErrRender, err)
	}

	data, err := g.pipeline.Execute(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return data, nil
}
