// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// loadCSV reads a comma-separated file whose first record is the header.
func loadCSV(path string, logger *slog.Logger) ([]types.Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are fine, Extract bounds-checks

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return Extract(records[0], records[1:], logger), nil
}
