// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"
)

// BrowserUserAgent is the default User-Agent for lookups and downloads.
// Several publisher file servers reject unrecognized clients outright, so
// the default identifies as a mainstream browser.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// AcceptPDF is the Accept header sent on download requests. Publishers
// serve PDFs under application/pdf, application/octet-stream, or no usable
// content type at all; the wildcard keeps all of them reachable.
const AcceptPDF = "application/pdf,application/octet-stream,*/*"

// Default per-request timeouts. Lookups are small JSON exchanges; downloads
// move whole files and get more time.
const (
	DefaultLookupTimeout   = 10 * time.Second
	DefaultDownloadTimeout = 30 * time.Second
)

// NewClient returns an HTTP client with the given per-request timeout,
// falling back to fallbackTimeout when timeout is zero. Redirect following
// uses the default policy, which DOI resolvers and OA mirrors rely on.
func NewClient(timeout, fallbackTimeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	return &http.Client{Timeout: timeout}
}

// SetLookupHeaders applies the standard headers for API lookups.
func SetLookupHeaders(req *http.Request, userAgent string) {
	if userAgent == "" {
		userAgent = BrowserUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
}

// SetDownloadHeaders applies the standard headers for file downloads.
func SetDownloadHeaders(req *http.Request, userAgent string) {
	SetLookupHeaders(req, userAgent)
	req.Header.Set("Accept", AcceptPDF)
}
