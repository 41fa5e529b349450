// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pdiddy/oa-harvest/internal/httputil"
)

// unpaywallAPIBase is the Unpaywall DOI endpoint. Declared as a var so
// tests can substitute an httptest server.
var unpaywallAPIBase = "https://api.unpaywall.org/v2/"

// Unpaywall resolves DOIs against the Unpaywall open-access aggregator.
// The API requires a contact email; with none configured the resolver
// declines every lookup.
type Unpaywall struct {
	Client    *http.Client
	Email     string
	UserAgent string
	Logger    *slog.Logger
}

// Name returns the source tag carried into reports.
func (u *Unpaywall) Name() string { return "Unpaywall" }

// unpaywallResponse captures the fields we need from an Unpaywall record.
type unpaywallResponse struct {
	IsOA           bool                `json:"is_oa"`
	BestOALocation *unpaywallLocation  `json:"best_oa_location"`
	OALocations    []unpaywallLocation `json:"oa_locations"`
}

// unpaywallLocation is one open-access copy of a work.
type unpaywallLocation struct {
	URLForPDF string `json:"url_for_pdf"`
	URL       string `json:"url"`
}

// pick returns the location's direct-PDF URL, falling back to its landing
// page URL.
func (l unpaywallLocation) pick() string {
	if l.URLForPDF != "" {
		return l.URLForPDF
	}
	return l.URL
}

// Resolve returns an open-access URL for doi, or "". A work counts only
// when Unpaywall flags it open access; the best location's direct-PDF URL
// is preferred over its landing page, and the alternate locations are
// scanned in order when the best location offers neither.
func (u *Unpaywall) Resolve(ctx context.Context, doi string) string {
	logger := discardOnNil(u.Logger)

	if u.Email == "" {
		logger.Warn("unpaywall skipped: no contact email configured", "doi", doi)
		return ""
	}

	apiURL := unpaywallAPIBase + url.PathEscape(doi) + "?email=" + url.QueryEscape(u.Email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		logger.Error("unpaywall request build failed", "doi", doi, "error", err)
		return ""
	}
	httputil.SetLookupHeaders(req, userAgentOrDefault(u.UserAgent))

	resp, err := u.Client.Do(req)
	if err != nil {
		logger.Error("unpaywall request failed", "doi", doi, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("unpaywall non-200", "doi", doi, "status", resp.StatusCode)
		return ""
	}

	var ur unpaywallResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		logger.Error("unpaywall malformed response", "doi", doi, "error", err)
		return ""
	}

	if !ur.IsOA {
		logger.Debug("unpaywall: not open access", "doi", doi)
		return ""
	}

	if ur.BestOALocation != nil {
		if best := ur.BestOALocation.pick(); best != "" {
			return best
		}
	}
	for _, loc := range ur.OALocations {
		if alt := loc.pick(); alt != "" {
			return alt
		}
	}

	logger.Debug("unpaywall: open access but no usable URL", "doi", doi)
	return ""
}
