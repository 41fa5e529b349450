// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c := NewClient(5*time.Second, DefaultLookupTimeout)
	assert.Equal(t, 5*time.Second, c.Timeout)

	c = NewClient(0, DefaultDownloadTimeout)
	assert.Equal(t, DefaultDownloadTimeout, c.Timeout)
}

func TestSetLookupHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	SetLookupHeaders(req, "")
	assert.Equal(t, BrowserUserAgent, req.Header.Get("User-Agent"))

	SetLookupHeaders(req, "custom/1.0")
	assert.Equal(t, "custom/1.0", req.Header.Get("User-Agent"))
}

func TestSetDownloadHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	SetDownloadHeaders(req, "")
	assert.Equal(t, BrowserUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, AcceptPDF, req.Header.Get("Accept"))
}
