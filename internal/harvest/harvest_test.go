// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubResolver maps DOIs to canned resolution results.
type stubResolver struct {
	results map[string]types.ResolutionResult
}

func (s *stubResolver) Resolve(_ context.Context, ref types.Reference) types.ResolutionResult {
	return s.results[ref.DOI]
}

// stubDownloader returns a canned outcome per URL and records which
// destination paths were requested. On success it writes a plausible file
// the way the real fetcher would.
type stubDownloader struct {
	outcomes map[string]types.DownloadOutcome
	dests    []string
}

func (s *stubDownloader) Download(_ context.Context, url, destPath string) types.DownloadOutcome {
	s.dests = append(s.dests, destPath)
	o := s.outcomes[url]
	if o.Success {
		os.WriteFile(destPath, []byte("%PDF-1.4 "+strings.Repeat("x", 1200)), 0o644)
	}
	return o
}

func newHarvester(t *testing.T, r URLResolver, d Downloader) *Harvester {
	t.Helper()
	dir := t.TempDir()
	return &Harvester{
		Resolver: r,
		Fetcher:  d,
		Config: types.HarvestConfig{
			OutputDir:  filepath.Join(dir, "pdfs"),
			ReportPath: filepath.Join(dir, "results.csv"),
		},
		Logger: discardLogger(),
	}
}

func TestRunProducesOrderedReports(t *testing.T) {
	resolver := &stubResolver{results: map[string]types.ResolutionResult{
		"10.1000/a": {PDFURL: "http://x/a.pdf", Source: "Unpaywall"},
		"10.1000/b": {},
		"10.1000/c": {PDFURL: "http://x/c.pdf", Source: "PubMed"},
	}}
	downloader := &stubDownloader{outcomes: map[string]types.DownloadOutcome{
		"http://x/a.pdf": {Success: true, Message: "Successfully downloaded"},
		"http://x/c.pdf": {Message: "HTTP error: 404"},
	}}
	h := newHarvester(t, resolver, downloader)

	refs := []types.Reference{{DOI: "10.1000/a"}, {DOI: "10.1000/b"}, {DOI: "10.1000/c"}}
	var out bytes.Buffer
	result := h.Run(context.Background(), refs, &out)

	if len(result.Reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(result.Reports))
	}
	for i, ref := range refs {
		if result.Reports[i].DOI != ref.DOI {
			t.Errorf("report[%d].DOI = %s, want %s", i, result.Reports[i].DOI, ref.DOI)
		}
	}

	a := result.Reports[0]
	if !a.PDFFound || a.Source != "Unpaywall" || a.DownloadStatus != types.StatusSuccess {
		t.Errorf("report[0] = %+v", a)
	}
	if a.FilePath == "" || a.ErrorMessage != "" {
		t.Errorf("report[0] path/error = %q/%q", a.FilePath, a.ErrorMessage)
	}

	b := result.Reports[1]
	if b.PDFFound || b.DownloadStatus != types.StatusFailed || b.ErrorMessage != "No PDF URL found" {
		t.Errorf("report[1] = %+v", b)
	}

	c := result.Reports[2]
	if !c.PDFFound || c.DownloadStatus != types.StatusFailed || c.ErrorMessage != "HTTP error: 404" {
		t.Errorf("report[2] = %+v", c)
	}
	if c.FilePath != "" {
		t.Errorf("report[2].FilePath = %q, want empty on failure", c.FilePath)
	}

	if result.Succeeded != 1 || result.Failed != 2 {
		t.Errorf("counts = (%d, %d), want (1, 2)", result.Succeeded, result.Failed)
	}
}

func TestRunDestinationNames(t *testing.T) {
	resolver := &stubResolver{results: map[string]types.ResolutionResult{
		"10.1038/s41586-020-2649-2": {PDFURL: "http://x/a.pdf", Source: "Unpaywall"},
	}}
	downloader := &stubDownloader{outcomes: map[string]types.DownloadOutcome{
		"http://x/a.pdf": {Success: true},
	}}
	h := newHarvester(t, resolver, downloader)

	h.Run(context.Background(), []types.Reference{{DOI: "10.1038/s41586-020-2649-2"}}, io.Discard)

	if len(downloader.dests) != 1 {
		t.Fatalf("downloader called %d times, want 1", len(downloader.dests))
	}
	want := filepath.Join(h.Config.OutputDir, "10.1038_s41586-020-2649-2.pdf")
	if downloader.dests[0] != want {
		t.Errorf("dest = %s, want %s", downloader.dests[0], want)
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	resolver := &stubResolver{results: map[string]types.ResolutionResult{
		"10.1000/b": {PDFURL: "http://x/b.pdf", Source: "PubMed"},
	}}
	downloader := &stubDownloader{outcomes: map[string]types.DownloadOutcome{
		"http://x/b.pdf": {Success: true},
	}}
	h := newHarvester(t, resolver, downloader)

	refs := []types.Reference{{DOI: "10.1000/a"}, {DOI: "10.1000/b"}}
	result := h.Run(context.Background(), refs, io.Discard)

	if result.Succeeded != 1 {
		t.Errorf("second reference did not succeed after first failed: %+v", result)
	}
}

func TestRunWritesReportAndSummary(t *testing.T) {
	resolver := &stubResolver{results: map[string]types.ResolutionResult{}}
	h := newHarvester(t, resolver, &stubDownloader{})

	var out bytes.Buffer
	h.Run(context.Background(), []types.Reference{{DOI: "10.1000/a"}}, &out)

	data, err := os.ReadFile(h.Config.ReportPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "DOI,PDF_Found,Source,Download_Status,File_Path,Error_Message\n") {
		t.Errorf("report header wrong:\n%s", content)
	}
	if !strings.Contains(content, "10.1000/a,false,,Failed,,No PDF URL found") {
		t.Errorf("report row wrong:\n%s", content)
	}

	if !strings.Contains(out.String(), "Summary: 1 processed, 0 downloaded, 1 failed") {
		t.Errorf("summary missing from output:\n%s", out.String())
	}
}

func TestRunSummaryPrintsDespiteReportError(t *testing.T) {
	resolver := &stubResolver{results: map[string]types.ResolutionResult{}}
	h := newHarvester(t, resolver, &stubDownloader{})
	// Point the report at a directory that does not exist.
	h.Config.ReportPath = filepath.Join(h.Config.ReportPath, "nested", "results.csv")

	var out bytes.Buffer
	h.Run(context.Background(), []types.Reference{{DOI: "10.1000/a"}}, &out)

	if !strings.Contains(out.String(), "Summary: 1 processed") {
		t.Errorf("summary missing after report-write failure:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "could not write report") {
		t.Errorf("report-write warning missing:\n%s", out.String())
	}
}

func TestDestFileName(t *testing.T) {
	tests := []struct {
		doi  string
		want string
	}{
		{"10.1038/s41586-020-2649-2", "10.1038_s41586-020-2649-2.pdf"},
		{"10.1000/a/b", "10.1000_a_b.pdf"},
		{"10.1016.j.cell.2020.01.001", "10.1016.j.cell.2020.01.001.pdf"},
	}
	for _, tt := range tests {
		if got := DestFileName(tt.doi); got != tt.want {
			t.Errorf("DestFileName(%q) = %q, want %q", tt.doi, got, tt.want)
		}
	}
}
