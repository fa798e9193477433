package csvstorage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marketpulse/crawler/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	s := New(path, nil)

	err := s.Save(
		&record.Record{
			StockName:   "Tesla Inc",
			Ticker:      "TSLA",
			PostContent: "earnings beat, again",
			LikesCount:  153,
			PostDate:    time.Date(2025, 3, 22, 9, 30, 0, 0, time.UTC),
			Category:    "Automotive",
			SourceURL:   "https://example.com/tsla",
		},
		&record.Record{
			InvestorName:  "jane_doe",
			InvestorStats: map[string]float64{"copiers": 1204},
			SourceURL:     "https://example.com/people",
		},
	)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, record.FieldNames, rows[0])

	assert.Equal(t, []string{
		"Tesla Inc", "TSLA", "", "", "earnings beat, again", "",
		"153", "2025-03-22T09:30:00Z", "Automotive", "https://example.com/tsla",
	}, rows[1])

	assert.Equal(t, "jane_doe", rows[2][2])
	assert.Equal(t, `{"copiers":1204}`, rows[2][3])
	assert.Equal(t, "", rows[2][7], "zero post date stays blank")
}
