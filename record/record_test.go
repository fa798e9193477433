package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDiscriminator(t *testing.T) {
	withTicker := &Record{Ticker: "TSLA", StockName: "Tesla Inc", SourceURL: "https://example.com/d"}
	noTicker := &Record{StockName: "Mystery Motors", SourceURL: "https://example.com/d"}
	investor := &Record{InvestorName: "jane_doe", SourceURL: "https://example.com/d"}

	keys := map[string]bool{
		withTicker.Key(): true,
		noTicker.Key():   true,
		investor.Key():   true,
	}
	assert.Len(t, keys, 3, "records with different discriminators must not collide")
}

func TestKeyStableAcrossLikeCounts(t *testing.T) {
	a := &Record{PostContent: "TSLA to the moon", LikesCount: 120, SourceURL: "https://example.com/feed"}
	b := &Record{PostContent: "TSLA to the moon", LikesCount: 153, SourceURL: "https://example.com/feed"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestKeyDiffersAcrossSources(t *testing.T) {
	a := &Record{Ticker: "TSLA", SourceURL: "https://example.com/a"}
	b := &Record{Ticker: "TSLA", SourceURL: "https://example.com/b"}
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     *Record
		wantErr bool
	}{
		{"ok", &Record{StockName: "Tesla Inc", SourceURL: "https://example.com"}, false},
		{"missing source url", &Record{StockName: "Tesla Inc"}, true},
		{"blank source url", &Record{StockName: "Tesla Inc", SourceURL: "   "}, true},
		{"no content", &Record{LikesCount: 3, SourceURL: "https://example.com"}, true},
		{"comment only", &Record{CommentText: "nice", SourceURL: "https://example.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rec)
			if tt.wantErr {
				var vErr *ValidationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &vErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCoercesNegativeLikes(t *testing.T) {
	rec := &Record{PostContent: "hello", LikesCount: -5, SourceURL: "https://example.com"}
	require.NoError(t, Validate(rec))
	assert.Equal(t, 0, rec.LikesCount)
}

func TestMarshalJSONNulls(t *testing.T) {
	rec := &Record{
		StockName: "Tesla Inc",
		Ticker:    "TSLA",
		SourceURL: "https://example.com/d",
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "Tesla Inc", m["stock_name"])
	assert.Nil(t, m["investor_name"])
	assert.Nil(t, m["post_content"])
	assert.Nil(t, m["post_date"])
	assert.Nil(t, m["investor_stats"])
	assert.EqualValues(t, 0, m["likes_count"])
}

func TestMarshalJSONDateUTC(t *testing.T) {
	rec := &Record{
		PostContent: "hello",
		PostDate:    time.Date(2025, 3, 22, 15, 30, 0, 0, time.FixedZone("x", 3600)),
		SourceURL:   "https://example.com",
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "2025-03-22T14:30:00Z", m["post_date"])
}

func TestCloneDoesNotShareStats(t *testing.T) {
	rec := &Record{InvestorName: "jane", InvestorStats: map[string]float64{"risk_score": 4}, SourceURL: "u"}
	c := rec.Clone()
	c.InvestorStats["risk_score"] = 9
	assert.Equal(t, 4.0, rec.InvestorStats["risk_score"])
}
