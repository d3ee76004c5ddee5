// Package importer loads CSV datasets described by a YAML manifest into a store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hazyhaar/unifold/pkg/store"
)

// Importer reads datasets into a Store.
type Importer struct {
	store  *store.Store
	logger *slog.Logger
}

// New returns an Importer writing into st.
func New(st *store.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: st, logger: logger}
}

// ImportDir imports the dataset in dir: its manifest.yaml and data file.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return 0, err
	}
	return im.ImportFile(ctx, m, filepath.Join(dir, m.DataFile))
}

// ImportURL downloads m.SourceURL into workDir and imports it.
func (im *Importer) ImportURL(ctx context.Context, m *Manifest, workDir string) (int, error) {
	if m.SourceURL == "" {
		return 0, fmt.Errorf("dataset %s: no source_url", m.ID)
	}
	im.logger.Info("downloading dataset", "dataset", m.ID, "url", m.SourceURL)
	path, err := Fetch(ctx, m.SourceURL, workDir)
	if err != nil {
		im.record(ctx, m, 0, err)
		return 0, err
	}
	return im.ImportFile(ctx, m, path)
}

// ImportFile reads path according to m, adds the entries and records the
// outcome in the imports table.
func (im *Importer) ImportFile(ctx context.Context, m *Manifest, path string) (int, error) {
	n, err := im.importFile(ctx, m, path)
	im.record(ctx, m, n, err)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", m.ID, err)
	}
	im.logger.Info("dataset imported", "dataset", m.ID, "entries", n)
	return n, nil
}

func (im *Importer) importFile(ctx context.Context, m *Manifest, path string) (int, error) {
	rc, err := OpenData(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	entries, err := ReadEntries(rc, m)
	if err != nil {
		return 0, err
	}
	return im.store.Add(ctx, entries)
}

func (im *Importer) record(ctx context.Context, m *Manifest, n int, importErr error) {
	imp := store.Import{
		DatasetID: m.ID,
		SourceURL: m.SourceURL,
		License:   m.License,
		Rows:      n,
	}
	if importErr != nil {
		msg := importErr.Error()
		imp.LastError = &msg
	}
	if err := im.store.RecordImport(ctx, imp); err != nil {
		im.logger.Error("record import failed", "dataset", m.ID, "error", err)
	}
}
