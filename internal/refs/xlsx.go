// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// loadXLSX reads the first sheet of an Excel workbook. The first row is the
// header; excelize returns trailing empty cells trimmed, which Extract
// tolerates via bounds checks.
func loadXLSX(path string, logger *slog.Logger) ([]types.Reference, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return Extract(rows[0], rows[1:], logger), nil
}
