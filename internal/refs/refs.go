// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs extracts cleaned (DOI, fallback link) references from
// tabular input files.
package refs

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// doiPattern matches a DOI-shaped substring: "10.1038/s41586-020-2649-2".
// Extraction takes the leftmost match of the trimmed cell, so surrounding
// prose or prefixes like "doi:" do not disqualify a row.
var doiPattern = regexp.MustCompile(`10\.\d{4,}[/.].+`)

// linkHeader is the spreadsheet column carrying an optional direct PDF link.
const linkHeader = "Link to PDF"

// Load reads the file at path and extracts its references. The format is
// chosen by extension: .xlsx, .csv, or a saved .yaml/.yml reference list.
func Load(path string, logger *slog.Logger) ([]types.Reference, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path, logger)
	case ".csv":
		return loadCSV(path, logger)
	case ".yaml", ".yml":
		lf, err := ReadListFile(path)
		if err != nil {
			return nil, err
		}
		return lf.References, nil
	default:
		return nil, fmt.Errorf("unsupported reference file format: %s", path)
	}
}

// Extract turns a header row plus data rows into cleaned references.
//
// The DOI column is the first header containing "doi" case-insensitively;
// without one the result is empty (not an error). A row is kept iff its DOI
// cell contains a DOI-shaped substring. The fallback link at position i
// corresponds to the DOI at position i after dropping non-matching rows.
func Extract(header []string, rows [][]string, logger *slog.Logger) []types.Reference {
	doiCol := -1
	linkCol := -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if doiCol < 0 && strings.Contains(strings.ToLower(h), "doi") {
			doiCol = i
		}
		if linkCol < 0 && strings.EqualFold(h, linkHeader) {
			linkCol = i
		}
	}

	if doiCol < 0 {
		logger.Error("no DOI column found", "header", header)
		return nil
	}
	logger.Info("located columns", "doi_column", header[doiCol], "link_column", linkCol >= 0)

	var refs []types.Reference
	for _, row := range rows {
		if doiCol >= len(row) {
			continue
		}
		doi := doiPattern.FindString(strings.TrimSpace(row[doiCol]))
		if doi == "" {
			continue
		}
		refs = append(refs, types.Reference{
			DOI:         doi,
			FallbackURL: cleanLink(row, linkCol),
		})
	}

	logger.Info("extracted references", "total_rows", len(rows), "valid", len(refs))
	return refs
}

// cleanLink returns the row's fallback link if it is an http(s) URL,
// otherwise "".
func cleanLink(row []string, linkCol int) string {
	if linkCol < 0 || linkCol >= len(row) {
		return ""
	}
	link := strings.TrimSpace(row[linkCol])
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return ""
}
