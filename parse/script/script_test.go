package script

import (
	"testing"
	"time"

	"github.com/marketpulse/crawler/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickerScript = `
var matches = page.body.match(/\$[A-Z]{1,5}/g) || [];
for (var i = 0; i < matches.length; i++) {
	emit({
		ticker: matches[i].substring(1),
		stock_name: matches[i].substring(1),
		likes_count: "1,2" + i,
	});
}
setNext("cursor-2");
`

func TestScriptEmit(t *testing.T) {
	p := New("cashtags", tickerScript)
	assert.Equal(t, "script:cashtags", p.Name())

	result, err := p.Parse(&collect.RawPage{
		URL:      "https://example.com/board",
		Category: "Chatter",
		Body:     []byte("long $TSLA short $NVDA"),
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "TSLA", result.Records[0].Ticker)
	assert.Equal(t, "NVDA", result.Records[1].Ticker)
	assert.Equal(t, 120, result.Records[0].LikesCount)
	assert.Equal(t, "Chatter", result.Records[0].Category, "page category fills in")
	assert.Equal(t, "https://example.com/board", result.Records[0].SourceURL)
	assert.Equal(t, "cursor-2", result.NextCursor)
}

func TestScriptStatsAndDate(t *testing.T) {
	p := New("profile", `
		emit({
			investor_name: "jane_doe",
			investor_stats: {risk_score: 4, return_12m: "24.6%"},
			post_date: "3 hours ago",
		});
	`)
	fetchedAt := time.Date(2025, 3, 22, 12, 0, 0, 0, time.UTC)
	result, err := p.Parse(&collect.RawPage{
		URL:       "https://example.com/u/jane",
		Body:      []byte(""),
		FetchedAt: fetchedAt,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "jane_doe", rec.InvestorName)
	assert.Equal(t, 4.0, rec.InvestorStats["risk_score"])
	assert.Equal(t, 24.6, rec.InvestorStats["return_12m"])
	assert.Equal(t, fetchedAt.Add(-3*time.Hour), rec.PostDate)
}

func TestScriptBroken(t *testing.T) {
	p := New("broken", `emit(`)
	_, err := p.Parse(&collect.RawPage{URL: "u", Body: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestScriptPureAcrossCalls(t *testing.T) {
	p := New("counter", `
		if (typeof n === "undefined") { n = 0; }
		n++;
		emit({post_content: "call " + n});
	`)
	page := &collect.RawPage{URL: "u", Body: []byte("x")}

	first, err := p.Parse(page)
	require.NoError(t, err)
	second, err := p.Parse(page)
	require.NoError(t, err)

	assert.Equal(t, first.Records[0].PostContent, second.Records[0].PostContent,
		"a fresh VM per call keeps the parser stateless")
}
