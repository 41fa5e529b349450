// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/oa-harvest/internal/httputil"
)

// pubmedAPIBase is the NCBI literature citation exporter's PMC endpoint.
// Declared as a var so tests can substitute an httptest server.
var pubmedAPIBase = "https://api.ncbi.nlm.nih.gov/lit/ctxp/v1/pmc/"

// PubMed resolves DOIs against the NCBI PMC full-text lookup.
type PubMed struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// Name returns the source tag carried into reports.
func (p *PubMed) Name() string { return "PubMed" }

// pubmedResponse captures the fields we need from a PMC record.
type pubmedResponse struct {
	FullTextURL string `json:"full_text_url"`
	PDFURL      string `json:"pdf_url"`
}

// Resolve returns a full-text URL for doi, or "". URLs without a .pdf
// suffix get one appended. That is a best-effort guess at the repository's
// file naming, not validated against actual content.
func (p *PubMed) Resolve(ctx context.Context, doi string) string {
	logger := discardOnNil(p.Logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedAPIBase+doi, nil)
	if err != nil {
		logger.Error("pubmed request build failed", "doi", doi, "error", err)
		return ""
	}
	httputil.SetLookupHeaders(req, userAgentOrDefault(p.UserAgent))

	resp, err := p.Client.Do(req)
	if err != nil {
		logger.Error("pubmed request failed", "doi", doi, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("pubmed non-200", "doi", doi, "status", resp.StatusCode)
		return ""
	}

	var pr pubmedResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		logger.Error("pubmed malformed response", "doi", doi, "error", err)
		return ""
	}

	pdfURL := pr.FullTextURL
	if pdfURL == "" {
		pdfURL = pr.PDFURL
	}
	if pdfURL == "" {
		logger.Debug("pubmed: no full-text URL", "doi", doi)
		return ""
	}

	if !strings.HasSuffix(strings.ToLower(pdfURL), ".pdf") {
		pdfURL += ".pdf"
	}
	return pdfURL
}
