// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest drives the per-reference resolve/download loop and
// produces the final report.
package harvest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// noURLMessage is recorded when no source produced a download URL. The
// reference was not technically a failed download, but the report surfaces
// it the same way.
const noURLMessage = "No PDF URL found"

// URLResolver yields a download URL for one reference, or an empty result.
type URLResolver interface {
	Resolve(ctx context.Context, ref types.Reference) types.ResolutionResult
}

// Downloader fetches a URL to a destination path and validates the result.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) types.DownloadOutcome
}

// Result holds the outcome of a harvest run.
type Result struct {
	Succeeded int
	Failed    int
	Reports   []types.ReferenceReport
}

// Total returns the number of references processed.
func (r Result) Total() int { return r.Succeeded + r.Failed }

// HasFailures reports whether any reference failed.
func (r Result) HasFailures() bool { return r.Failed > 0 }

// Harvester wires the resolver chain and fetcher into the sequential run.
type Harvester struct {
	Resolver URLResolver
	Fetcher  Downloader
	Config   types.HarvestConfig
	Logger   *slog.Logger
}

// Run processes references in order, printing per-item status lines to w,
// and returns one report per input reference in input order. No individual
// failure stops the loop. Afterwards it writes the CSV report, archives the
// run when an archive database is configured, and prints the summary; a
// report-write or archive fault is logged without suppressing the summary.
func (h *Harvester) Run(ctx context.Context, references []types.Reference, w io.Writer) Result {
	logger := h.Logger
	logger.Info("run started", "references", len(references))

	if err := os.MkdirAll(h.Config.OutputDir, 0o755); err != nil {
		// Downloads will fail per-reference; the run itself continues.
		logger.Error("creating output directory", "dir", h.Config.OutputDir, "error", err)
	}

	var result Result
	for i, ref := range references {
		if i > 0 && h.Config.DownloadDelay > 0 {
			time.Sleep(h.Config.DownloadDelay)
		}
		report := h.processOne(ctx, ref, w)
		if report.DownloadStatus == types.StatusSuccess {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Reports = append(result.Reports, report)
	}

	if err := WriteCSV(h.Config.ReportPath, result.Reports); err != nil {
		logger.Error("writing report", "path", h.Config.ReportPath, "error", err)
		fmt.Fprintf(w, "warning: could not write report: %v\n", err)
	}

	h.archive(result)

	fmt.Fprintf(w, "\nSummary: %d processed, %d downloaded, %d failed\n",
		result.Total(), result.Succeeded, result.Failed)
	fmt.Fprintf(w, "Detailed results saved to %s\n", h.Config.ReportPath)

	logger.Info("run finished", "processed", result.Total(),
		"succeeded", result.Succeeded, "failed", result.Failed)
	return result
}

// processOne resolves and downloads a single reference, returning its
// write-once report row.
func (h *Harvester) processOne(ctx context.Context, ref types.Reference, w io.Writer) types.ReferenceReport {
	report := types.ReferenceReport{
		DOI:            ref.DOI,
		DownloadStatus: types.StatusNotAttempted,
	}

	res := h.Resolver.Resolve(ctx, ref)
	if !res.Found() {
		report.DownloadStatus = types.StatusFailed
		report.ErrorMessage = noURLMessage
		fmt.Fprintf(w, "missing: %s (no PDF URL found)\n", ref.DOI)
		return report
	}

	report.PDFFound = true
	report.Source = res.Source
	fmt.Fprintf(w, "found: %s (%s)\n", ref.DOI, res.Source)

	destPath := filepath.Join(h.Config.OutputDir, DestFileName(ref.DOI))
	outcome := h.Fetcher.Download(ctx, res.PDFURL, destPath)
	if outcome.Success {
		report.DownloadStatus = types.StatusSuccess
		report.FilePath = destPath
		fmt.Fprintf(w, "downloaded: %s\n", destPath)
	} else {
		report.DownloadStatus = types.StatusFailed
		report.ErrorMessage = outcome.Message
		fmt.Fprintf(w, "failed: %s (%s)\n", ref.DOI, outcome.Message)
	}
	return report
}

// archive appends the run to the SQLite audit trail when one is configured.
func (h *Harvester) archive(result Result) {
	if h.Config.ArchiveDB == "" {
		return
	}
	store, err := OpenStore(h.Config.ArchiveDB)
	if err != nil {
		h.Logger.Error("opening archive", "path", h.Config.ArchiveDB, "error", err)
		return
	}
	defer store.Close()

	runID, err := store.ArchiveRun(time.Now(), result)
	if err != nil {
		h.Logger.Error("archiving run", "path", h.Config.ArchiveDB, "error", err)
		return
	}
	h.Logger.Info("run archived", "path", h.Config.ArchiveDB, "run_id", runID)
}

// DestFileName derives the download file name from a DOI: the path
// separator is replaced so the DOI stays a single path element.
func DestFileName(doi string) string {
	return strings.ReplaceAll(doi, "/", "_") + ".pdf"
}
