// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperbuild/pkg/types"
)

// ExportYAML writes the newest limit records to w as a YAML list, most
// recent first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, limit int) error {
	records, err := s.exportRecords(ctx, limit)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the newest limit records to w as indented JSON, most
// recent first.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, limit int) error {
	records, err := s.exportRecords(ctx, limit)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func (s *Store) exportRecords(ctx context.Context, limit int) ([]types.BuildRecord, error) {
	records, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.BuildRecord{}
	}
	return records, nil
}
