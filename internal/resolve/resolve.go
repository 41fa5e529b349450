// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a DOI into an open-access PDF URL by querying
// lookup services in fixed priority order.
package resolve

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/pdiddy/oa-harvest/internal/httputil"
	"github.com/pdiddy/oa-harvest/pkg/types"
)

// Resolver looks up one lookup service for a DOI. Resolve is total: it
// returns "" when the service has nothing, the response is malformed, or
// the request fails outright. Faults surface only through the resolver's
// logger, never as errors, so one bad service can never abort a run.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, doi string) string
}

// excelLinkSource tags URLs taken from the spreadsheet's own link column
// rather than a lookup service.
const excelLinkSource = "Excel Link"

// Chain tries resolvers in order and short-circuits on the first hit.
type Chain struct {
	resolvers []Resolver
	logger    *slog.Logger
}

// NewChain builds the standard chain (Unpaywall, then PubMed) over the
// given lookup client.
func NewChain(client *http.Client, cfg types.ResolveConfig, logger *slog.Logger) *Chain {
	return &Chain{
		resolvers: []Resolver{
			&Unpaywall{Client: client, Email: cfg.Email, UserAgent: cfg.UserAgent, Logger: logger},
			&PubMed{Client: client, UserAgent: cfg.UserAgent, Logger: logger},
		},
		logger: logger,
	}
}

// NewChainWith builds a chain over an explicit resolver sequence. The
// ordering of the slice is the resolution policy.
func NewChainWith(logger *slog.Logger, resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers, logger: logger}
}

// Resolve returns the first URL any resolver produces for ref's DOI. When
// every resolver comes up empty and the reference carries a fallback link,
// the link is used as a final source. An empty result means the reference
// could not be located anywhere; that is an outcome, not an error.
func (c *Chain) Resolve(ctx context.Context, ref types.Reference) types.ResolutionResult {
	for _, r := range c.resolvers {
		c.logger.Debug("trying resolver", "resolver", r.Name(), "doi", ref.DOI)
		if url := r.Resolve(ctx, ref.DOI); url != "" {
			c.logger.Info("resolved", "resolver", r.Name(), "doi", ref.DOI, "url", url)
			return types.ResolutionResult{PDFURL: url, Source: r.Name()}
		}
	}

	if ref.FallbackURL != "" {
		c.logger.Info("using spreadsheet link", "doi", ref.DOI, "url", ref.FallbackURL)
		return types.ResolutionResult{PDFURL: ref.FallbackURL, Source: excelLinkSource}
	}

	c.logger.Debug("no source produced a URL", "doi", ref.DOI)
	return types.ResolutionResult{}
}

// discardOnNil returns logger, or a no-op logger when logger is nil, so
// resolvers constructed without one stay usable.
func discardOnNil(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// userAgentOrDefault falls back to the browser user agent.
func userAgentOrDefault(ua string) string {
	if ua != "" {
		return ua
	}
	return httputil.BrowserUserAgent
}
