// Package csvstorage writes records as CSV in the canonical column
// order. Non-scalar cells (investor stats) are JSON-encoded strings.
package csvstorage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/marketpulse/crawler/record"
	"go.uber.org/zap"
)

type CSVStorage struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *CSVStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVStorage{path: path, logger: logger}
}

func (s *CSVStorage) Save(records ...*record.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("csvstorage: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("csvstorage: create %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record.FieldNames); err != nil {
		return fmt.Errorf("csvstorage: write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return fmt.Errorf("csvstorage: write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvstorage: flush %s: %w", s.path, err)
	}

	s.logger.Info("records persisted", zap.Int("count", len(records)), zap.String("path", s.path))
	return nil
}

func row(r *record.Record) []string {
	var stats string
	if len(r.InvestorStats) > 0 {
		if b, err := json.Marshal(r.InvestorStats); err == nil {
			stats = string(b)
		}
	}
	var posted string
	if !r.PostDate.IsZero() {
		posted = r.PostDate.UTC().Format(time.RFC3339)
	}
	return []string{
		r.StockName,
		r.Ticker,
		r.InvestorName,
		stats,
		r.PostContent,
		r.CommentText,
		strconv.Itoa(r.LikesCount),
		posted,
		r.Category,
		r.SourceURL,
	}
}
