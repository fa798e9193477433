// Package jsonstorage writes the drained record set as a JSON array, one
// object per record with explicit nulls for absent fields.
package jsonstorage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marketpulse/crawler/record"
	"go.uber.org/zap"
)

type JSONStorage struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *JSONStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStorage{path: path, logger: logger}
}

func (s *JSONStorage) Save(records ...*record.Record) error {
	if records == nil {
		records = []*record.Record{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("jsonstorage: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstorage: encode %d records: %w", len(records), err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("jsonstorage: write %s: %w", s.path, err)
	}
	s.logger.Info("records persisted", zap.Int("count", len(records)), zap.String("path", s.path))
	return nil
}
