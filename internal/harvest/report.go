// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// reportHeader is the CSV report column order.
var reportHeader = []string{"DOI", "PDF_Found", "Source", "Download_Status", "File_Path", "Error_Message"}

// WriteCSV persists the ordered reports as a CSV file, one row per input
// reference.
func WriteCSV(path string, reports []types.ReferenceReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(reportHeader)
	for _, r := range reports {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			r.DOI,
			strconv.FormatBool(r.PDFFound),
			r.Source,
			string(r.DownloadStatus),
			r.FilePath,
			r.ErrorMessage,
		})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}

	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("writing report %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing report %s: %w", path, closeErr)
	}
	return nil
}
