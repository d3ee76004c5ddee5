package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/unifold/pkg/importer"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	dir := fs.String("dir", "", "dataset directory to import (manifest.yaml + data file)")
	all := fs.Bool("all", false, "import every dataset under datasets_dir")
	fetch := fs.Bool("fetch", false, "download the manifest's source_url instead of reading the local data file")
	fs.Parse(args)

	logger := newLogger()
	cfg := mustConfig(*cfgPath, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	st, err := openStore(ctx, cfg, false, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	im := importer.New(st, logger)

	switch {
	case *all:
		total, err := importAll(ctx, im, cfg.DatasetsDir, logger)
		if err != nil {
			logger.Error("import failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%d entries imported\n", total)
	case *dir != "":
		var n int
		if *fetch {
			n, err = fetchDir(ctx, im, *dir)
		} else {
			n, err = im.ImportDir(ctx, *dir)
		}
		if err != nil {
			logger.Error("import failed", "dir", *dir, "error", err)
			os.Exit(1)
		}
		fmt.Printf("%d entries imported\n", n)
	default:
		imports, err := st.ListImports(ctx)
		if err != nil {
			logger.Error("list imports", "error", err)
			os.Exit(1)
		}
		fmt.Println("Imported datasets:")
		fmt.Println()
		for _, imp := range imports {
			status := ""
			if imp.LastStatus != nil {
				status = fmt.Sprintf("  [%d]", *imp.LastStatus)
			}
			fmt.Printf("  %-25s  %8d rows  %s%s\n", imp.DatasetID, imp.Rows, imp.SourceURL, status)
		}
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  unifold import --dir <dataset-dir> [--fetch]")
		fmt.Println("  unifold import --all")
	}
}

// fetchDir downloads the dataset's source_url next to its manifest and imports it.
func fetchDir(ctx context.Context, im *importer.Importer, dir string) (int, error) {
	m, err := importer.LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return 0, err
	}
	return im.ImportURL(ctx, m, dir)
}

// importAll imports every subdirectory of root holding a manifest.yaml. A
// failing dataset is logged and skipped; the joined errors are returned.
func importAll(ctx context.Context, im *importer.Importer, root string, logger *slog.Logger) (int, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("read datasets dir: %w", err)
	}

	var (
		total int
		errs  []error
	)
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		dir := filepath.Join(root, d.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		n, err := im.ImportDir(ctx, dir)
		if err != nil {
			logger.Warn("dataset skipped", "dir", dir, "error", err)
			errs = append(errs, err)
			continue
		}
		total += n
	}
	return total, errors.Join(errs...)
}
