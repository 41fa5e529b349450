// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the oa-harvest pipeline.
package types

// Reference is one cleaned entry from the input spreadsheet: a normalized
// DOI plus an optional spreadsheet-provided fallback link. Immutable once
// extracted.
type Reference struct {
	// DOI is the normalized identifier, matching 10.NNNN/... .
	DOI string `json:"doi" yaml:"doi"`

	// FallbackURL is the "Link to PDF" cell value, kept only when it is an
	// http(s) URL. Empty means absent.
	FallbackURL string `json:"fallback_url,omitempty" yaml:"fallback_url,omitempty"`
}

// ResolutionResult is the outcome of running the resolver chain for one
// Reference. A zero PDFURL means no source produced anything.
type ResolutionResult struct {
	// PDFURL is the first usable URL found, or empty.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Source names the resolver that produced the URL ("Unpaywall",
	// "PubMed", "Excel Link"). Empty when PDFURL is empty.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Found reports whether the chain produced a URL.
func (r ResolutionResult) Found() bool { return r.PDFURL != "" }

// DownloadOutcome is the result of one fetch-and-validate attempt.
type DownloadOutcome struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

// DownloadStatus enumerates the terminal states of a reference's download.
type DownloadStatus string

const (
	// StatusNotAttempted means no download was started. Only visible in a
	// report when the run was interrupted before the reference was reached.
	StatusNotAttempted DownloadStatus = "Not attempted"

	StatusSuccess DownloadStatus = "Success"
	StatusFailed  DownloadStatus = "Failed"
)

// ReferenceReport is the per-reference row of the final report. Exactly one
// is produced per input Reference, in input order, and it is write-once.
type ReferenceReport struct {
	// DOI identifies the reference this row describes.
	DOI string `json:"doi" yaml:"doi"`

	// PDFFound reports whether any source yielded a URL.
	PDFFound bool `json:"pdf_found" yaml:"pdf_found"`

	// Source is the resolver that produced the URL, empty when none did.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// DownloadStatus is the terminal state of the download attempt.
	DownloadStatus DownloadStatus `json:"download_status" yaml:"download_status"`

	// FilePath is the on-disk path of the validated PDF. Set only when
	// DownloadStatus is Success, in which case the file exists, starts with
	// %PDF, and is at least 1000 bytes.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	// ErrorMessage describes why the download failed, empty on success.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}
