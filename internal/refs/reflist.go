// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// ListFile is the on-disk representation of an extracted reference list.
// The operator can extract once with `oa-harvest refs --output` and feed the
// saved file to later fetch runs without re-reading the spreadsheet.
type ListFile struct {
	References []types.Reference `yaml:"references"`
	Summary    ListSummary       `yaml:"summary"`
}

// ListSummary stores extraction statistics and a timestamp.
type ListSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteListFile saves an extracted reference list to a YAML file.
func WriteListFile(path string, references []types.Reference) error {
	lf := ListFile{
		References: references,
		Summary: ListSummary{
			Total:     len(references),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&lf)
	if err != nil {
		return fmt.Errorf("marshaling reference list: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadListFile loads a previously saved reference list from disk.
func ReadListFile(path string) (*ListFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference list %s: %w", path, err)
	}
	var lf ListFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing reference list %s: %w", path, err)
	}
	return &lf, nil
}
