// Package sqlstorage persists records into MySQL in batches through the
// low-level sqldb module.
package sqlstorage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketpulse/crawler/record"
	"github.com/marketpulse/crawler/sqldb"
	"go.uber.org/zap"
)

var columns = []sqldb.Field{
	{Title: "id", Type: "BIGINT NOT NULL PRIMARY KEY"},
	{Title: "stock_name", Type: "VARCHAR(512)"},
	{Title: "ticker", Type: "VARCHAR(32)"},
	{Title: "investor_name", Type: "VARCHAR(255)"},
	{Title: "investor_stats", Type: "TEXT"},
	{Title: "post_content", Type: "TEXT"},
	{Title: "comment_text", Type: "TEXT"},
	{Title: "likes_count", Type: "INT"},
	{Title: "post_date", Type: "DATETIME NULL"},
	{Title: "category", Type: "VARCHAR(255)"},
	{Title: "source_url", Type: "VARCHAR(1024) NOT NULL"},
}

type SQLStorage struct {
	options
	created bool
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	s := &SQLStorage{}
	s.options = options
	if s.db == nil {
		db, err := sqldb.New(
			sqldb.WithConnURL(options.sqlURL),
			sqldb.WithLogger(options.logger.Named("sqlDB")),
		)
		if err != nil {
			return nil, err
		}
		s.db = db
	}
	return s, nil
}

// Save writes records in batches of batchCount rows per INSERT. The table
// is created on first use.
func (s *SQLStorage) Save(records ...*record.Record) error {
	if len(records) == 0 {
		return nil
	}
	if !s.created {
		if err := s.db.CreateTable(sqldb.TableMetaData{
			TableName:   s.table,
			ColumnNames: columns,
		}); err != nil {
			return fmt.Errorf("sqlstorage: create table %s: %w", s.table, err)
		}
		s.created = true
	}

	for start := 0; start < len(records); start += s.batchCount {
		end := start + s.batchCount
		if end > len(records) {
			end = len(records)
		}
		if err := s.flush(records[start:end]); err != nil {
			return err
		}
	}
	s.logger.Info("records persisted", zap.Int("count", len(records)), zap.String("table", s.table))
	return nil
}

func (s *SQLStorage) flush(batch []*record.Record) error {
	args := make([]interface{}, 0, len(batch)*len(columns))
	for _, r := range batch {
		args = append(args, r.ID, r.StockName, r.Ticker, r.InvestorName,
			statsJSON(r.InvestorStats), r.PostContent, r.CommentText,
			r.LikesCount, sqlTime(r.PostDate), r.Category, r.SourceURL)
	}
	if err := s.db.Insert(sqldb.TableMetaData{
		TableName:   s.table,
		ColumnNames: columns,
		Args:        args,
		DataCount:   len(batch),
	}); err != nil {
		return fmt.Errorf("sqlstorage: insert %d records: %w", len(batch), err)
	}
	return nil
}

func statsJSON(stats map[string]float64) interface{} {
	if len(stats) == 0 {
		return nil
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return nil
	}
	return string(b)
}

func sqlTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
