package stock

import (
	"testing"

	"github.com/marketpulse/crawler/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoveryPage = `
<html><head><title>Discover Markets</title></head><body>
<div class="stock-card" data-ticker="TSLA"><span class="name">Tesla Inc</span></div>
<div class="stock-card"><span class="name">Mystery Motors</span></div>
<a rel="next" href="/discover?page=2">next</a>
</body></html>`

func TestDiscoveryTiles(t *testing.T) {
	p := NewDiscovery()
	result, err := p.Parse(&collect.RawPage{
		Tag:  collect.PageDiscoveryStock,
		URL:  "https://example.com/discover",
		Body: []byte(discoveryPage),
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "Tesla Inc", result.Records[0].StockName)
	assert.Equal(t, "TSLA", result.Records[0].Ticker)
	assert.Equal(t, "Mystery Motors", result.Records[1].StockName)
	assert.Empty(t, result.Records[1].Ticker, "missing ticker stays null, record still emitted")

	assert.NotEqual(t, result.Records[0].Key(), result.Records[1].Key())
	assert.Equal(t, "/discover?page=2", result.NextCursor)
}

const singleStockPage = `
<html><head>
<title>TSLA | Tesla Inc</title>
<meta name="etoro:category" content="Automotive">
</head><body><h1>TSLA</h1><p>Quote page</p></body></html>`

func TestDiscoveryWholePageFallback(t *testing.T) {
	p := NewDiscovery()
	result, err := p.Parse(&collect.RawPage{
		URL:  "https://example.com/markets/tsla",
		Body: []byte(singleStockPage),
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "TSLA", rec.Ticker)
	assert.Equal(t, "Automotive", rec.Category)
	assert.Equal(t, "https://example.com/markets/tsla", rec.SourceURL)
	assert.Empty(t, result.NextCursor)
}

func TestDiscoveryNoSignal(t *testing.T) {
	p := NewDiscovery()
	result, err := p.Parse(&collect.RawPage{
		URL:  "https://example.com/about",
		Body: []byte(`<html><body><p>nothing here</p></body></html>`),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestGuessTicker(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"TSLA | Tesla Inc", "TSLA"},
		{"AAPL - Apple", "AAPL"},
		{"Tesla Inc (TSLA)", ""},
		{"Quarterly outlook", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessTicker(tt.title))
		})
	}
}

const screenerPage = `
<html><body>
<nav class="breadcrumb">Stocks / Technology / Screener</nav>
<table class="screener-results">
<tr><th>Name</th><th>Symbol</th><th>Price</th></tr>
<tr><td>Apple</td><td>AAPL</td><td>211.4</td></tr>
<tr><td>NVIDIA</td><td>NVDA</td><td>188.9</td></tr>
<tr><td></td><td></td><td></td></tr>
</table>
<div class="pagination"><span class="next"><a href="?start=25">more</a></span></div>
</body></html>`

func TestScreenerRows(t *testing.T) {
	p := NewScreener()
	result, err := p.Parse(&collect.RawPage{
		URL:  "https://example.com/screener",
		Body: []byte(screenerPage),
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "Apple", result.Records[0].StockName)
	assert.Equal(t, "AAPL", result.Records[0].Ticker)
	assert.Equal(t, "Technology", result.Records[0].Category, "category from breadcrumb")
	assert.Equal(t, "NVDA", result.Records[1].Ticker)
	assert.Equal(t, "?start=25", result.NextCursor)
}

func TestScreenerCategoryFallback(t *testing.T) {
	p := NewScreener()
	result, err := p.Parse(&collect.RawPage{
		URL:      "https://example.com/screener",
		Category: "Growth",
		Body:     []byte(`<html><body><table class="screener-results"><tr><td>Apple</td><td>AAPL</td></tr></table></body></html>`),
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Growth", result.Records[0].Category)
}
