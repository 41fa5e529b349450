// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads a URL to disk and keeps the file only when it
// plausibly is a PDF.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/pdiddy/oa-harvest/internal/httputil"
	"github.com/pdiddy/oa-harvest/pkg/types"
)

// minPDFSize is the smallest byte count accepted as a plausible PDF.
// Anything under this is an error page or a truncated body.
const minPDFSize = 1000

// pdfSignature is the 4-byte marker every valid PDF starts with.
const pdfSignature = "%PDF"

// allowedContentTypes are substrings of Content-Type values accepted for
// streaming straight to disk. Publishers are sloppy about this header, so
// the match is deliberately loose.
var allowedContentTypes = []string{"pdf", "octet-stream", "binary", "download"}

// Fetcher retrieves PDF files over HTTP. The destination path is fully
// determined by the caller; Fetcher never invents file names.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// Download fetches url into destPath and validates the result. After any
// call, either no file exists at destPath, or the file is at least
// minPDFSize bytes and starts with the PDF signature. The one exception:
// when the signature read itself fails, the already-written file stands
// and the outcome notes the skipped check.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) types.DownloadOutcome {
	logger := f.logger()
	logger.Info("starting download", "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failure(logger, url, fmt.Sprintf("Download error: %v", err))
	}
	httputil.SetDownloadHeaders(req, f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		removeIfExists(destPath)
		return failure(logger, url, fmt.Sprintf("Download error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure(logger, url, fmt.Sprintf("HTTP error: %d", resp.StatusCode))
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !contentTypeAccepted(contentType) {
		return f.downloadUnknownType(resp.Body, contentType, url, destPath)
	}

	written, err := writeBody(destPath, resp.Body)
	if err != nil {
		removeIfExists(destPath)
		return failure(logger, url, fmt.Sprintf("Download error: %v", err))
	}
	logger.Debug("body written", "dest", destPath, "bytes", written)

	return f.validate(destPath, written, "")
}

// downloadUnknownType handles 200 responses whose content type looks wrong.
// Bodies over the size floor are written anyway, since many servers omit or
// mislabel the header; smaller bodies are rejected without touching disk.
func (f *Fetcher) downloadUnknownType(body io.Reader, contentType, url, destPath string) types.DownloadOutcome {
	logger := f.logger()
	logger.Warn("unexpected content type", "url", url, "content_type", contentType)

	data, err := io.ReadAll(body)
	if err != nil {
		removeIfExists(destPath)
		return failure(logger, url, fmt.Sprintf("Download error: %v", err))
	}
	if len(data) <= minPDFSize {
		return failure(logger, url, fmt.Sprintf("Not a PDF file (content-type: %s)", contentType))
	}

	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		removeIfExists(destPath)
		return failure(logger, url, fmt.Sprintf("Download error: %v", err))
	}

	return f.validate(destPath, int64(len(data)), " (unknown content type)")
}

// validate enforces the size floor and signature on a written file. caveat
// is appended to the success message.
func (f *Fetcher) validate(destPath string, size int64, caveat string) types.DownloadOutcome {
	logger := f.logger()

	if size < minPDFSize {
		os.Remove(destPath)
		logger.Warn("file too small, removed", "dest", destPath, "bytes", size)
		return types.DownloadOutcome{Message: "Downloaded file too small"}
	}

	header, err := readSignature(destPath)
	if err != nil {
		// The file is already on disk and passed the size check; a failed
		// signature read is advisory, not grounds to discard it.
		logger.Warn("signature check failed", "dest", destPath, "error", err)
		return types.DownloadOutcome{Success: true, Message: "Successfully downloaded (signature check failed)"}
	}

	if header != pdfSignature {
		os.Remove(destPath)
		logger.Warn("bad signature, removed", "dest", destPath, "header", header)
		return types.DownloadOutcome{Message: "Not a valid PDF file"}
	}

	logger.Info("download validated", "dest", destPath, "bytes", size)
	return types.DownloadOutcome{Success: true, Message: "Successfully downloaded" + caveat}
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeBody streams r into a new file at path.
func writeBody(path string, r io.Reader) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	written, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return written, copyErr
	}
	return written, closeErr
}

// readSignature returns the first 4 bytes of the file at path.
func readSignature(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	header := make([]byte, len(pdfSignature))
	if _, err := io.ReadFull(in, header); err != nil {
		return "", err
	}
	return string(header), nil
}

func contentTypeAccepted(contentType string) bool {
	for _, t := range allowedContentTypes {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func removeIfExists(path string) {
	if _, err := os.Stat(path); err == nil {
		os.Remove(path)
	}
}

func failure(logger *slog.Logger, url, message string) types.DownloadOutcome {
	logger.Warn("download failed", "url", url, "reason", message)
	return types.DownloadOutcome{Message: message}
}
