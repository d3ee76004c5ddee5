package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hazyhaar/unifold/pkg/store"
)

// Checker performs periodic HEAD requests against the source URLs of imported
// datasets and records their availability in the imports table.
type Checker struct {
	store    *store.Store
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker creates a Checker that will verify source URLs every interval.
func NewChecker(st *store.Store, logger *slog.Logger, interval time.Duration) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		store:    st,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll checks every imported dataset with an http(s) source URL.
func (c *Checker) CheckAll(ctx context.Context) {
	imports, err := c.store.ListImports(ctx)
	if err != nil {
		c.logger.Error("source check: list imports", "error", err)
		return
	}

	var ok, failed int
	for _, imp := range imports {
		if ctx.Err() != nil {
			return
		}
		if !strings.HasPrefix(imp.SourceURL, "http://") && !strings.HasPrefix(imp.SourceURL, "https://") {
			continue
		}

		status, checkErr := c.checkOne(ctx, imp.SourceURL)
		errMsg := ""
		if checkErr != nil {
			errMsg = checkErr.Error()
		} else if status >= 400 {
			errMsg = fmt.Sprintf("HTTP %d", status)
		}

		if err := c.store.RecordCheck(ctx, imp.DatasetID, status, errMsg); err != nil {
			c.logger.Error("source check: record", "dataset", imp.DatasetID, "error", err)
		}

		if status >= 200 && status < 400 {
			ok++
		} else {
			failed++
			c.logger.Warn("source unreachable",
				"dataset", imp.DatasetID,
				"url", imp.SourceURL,
				"status", status,
				"error", errMsg,
			)
		}
	}

	if ok+failed > 0 {
		c.logger.Info("source check complete", "total", ok+failed, "ok", ok, "failed", failed)
	}
}

// checkOne performs a single HEAD request and returns the HTTP status code.
// On network error, status is 0.
func (c *Checker) checkOne(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
