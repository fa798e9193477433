// Package stock extracts stock-level records from discovery and screener
// pages.
package stock

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/parse/internal/htmlx"
	"github.com/marketpulse/crawler/record"
	"go.uber.org/zap"
)

var (
	titleSplitRe = regexp.MustCompile(`[\(\|\-–]`)
	tickerRe     = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
)

// GuessTicker extracts a ticker-looking token from a page title. Anything
// after a parenthesis, pipe or dash is discarded first so ISINs and
// suffixes don't win.
func GuessTicker(title string) string {
	if title == "" {
		return ""
	}
	cleaned := titleSplitRe.Split(title, 2)[0]
	return tickerRe.FindString(cleaned)
}

// Discovery parses discover/markets pages. It prefers explicit stock
// tiles; a page without tiles falls back to whole-page heuristics, and a
// page with no stock signal at all quietly yields nothing.
type Discovery struct{}

func NewDiscovery() *Discovery {
	return &Discovery{}
}

func (d *Discovery) Name() string {
	return "stock_discovery"
}

const tileSelector = "[data-ticker], [class*='stock-card'], [class*='stock-tile'], [class*='instrument-card']"

func (d *Discovery) Parse(page *collect.RawPage) (*collect.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", d.Name(), err)
	}

	category := pageCategory(doc, page)
	result := &collect.ParseResult{}

	htmlx.TopLevel(doc.Find(tileSelector)).Each(func(_ int, tile *goquery.Selection) {
		name := htmlx.Text(tile.Find("[class*='name'], h2, h3, strong").First())
		ticker := strings.TrimSpace(tile.AttrOr("data-ticker", ""))
		if ticker == "" {
			ticker = htmlx.Text(tile.Find("[class*='ticker'], [class*='symbol']").First())
		}
		if name == "" && ticker == "" {
			return
		}
		result.Records = append(result.Records, &record.Record{
			StockName: name,
			Ticker:    ticker,
			Category:  category,
			SourceURL: page.URL,
		})
	})

	if len(result.Records) == 0 {
		if rec := wholePageRecord(doc, page, category); rec != nil {
			result.Records = append(result.Records, rec)
		} else {
			zap.S().Debugf("no stock signal detected on %s", page.URL)
		}
	}

	result.NextCursor = htmlx.NextCursor(doc)
	return result, nil
}

// wholePageRecord mirrors the single-stock page shape: name from
// og:title, then h1, then <title>; ticker guessed from the name.
func wholePageRecord(doc *goquery.Document, page *collect.RawPage, category string) *record.Record {
	name := strings.TrimSpace(doc.Find("meta[property='og:title']").AttrOr("content", ""))
	if name == "" {
		name = htmlx.Text(doc.Find("h1").First())
	}
	if name == "" {
		name = htmlx.Text(doc.Find("title").First())
	}

	ticker := GuessTicker(name)
	if name == "" && ticker == "" {
		return nil
	}
	return &record.Record{
		StockName: name,
		Ticker:    ticker,
		Category:  category,
		SourceURL: page.URL,
	}
}

func pageCategory(doc *goquery.Document, page *collect.RawPage) string {
	if c := strings.TrimSpace(doc.Find("meta[name='etoro:category']").AttrOr("content", "")); c != "" {
		return c
	}
	if c := htmlx.Breadcrumb(doc); c != "" {
		return c
	}
	return page.Category
}

// Screener parses tabular screener results, one record per row.
type Screener struct{}

func NewScreener() *Screener {
	return &Screener{}
}

func (s *Screener) Name() string {
	return "stock_screener"
}

const screenerTableSelector = "table[class*='screener'], table[class*='results'], table[class*='instruments']"

func (s *Screener) Parse(page *collect.RawPage) (*collect.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", s.Name(), err)
	}

	category := pageCategory(doc, page)
	result := &collect.ParseResult{}

	doc.Find(screenerTableSelector).First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		name := htmlx.Text(cells.Eq(0))
		var ticker string
		if cells.Length() > 1 {
			ticker = htmlx.Text(cells.Eq(1))
		}
		if name == "" && ticker == "" {
			return
		}
		result.Records = append(result.Records, &record.Record{
			StockName: name,
			Ticker:    ticker,
			Category:  category,
			SourceURL: page.URL,
		})
	})

	zap.S().Debugf("screener %s: %d rows", page.URL, len(result.Records))
	result.NextCursor = htmlx.NextCursor(doc)
	return result, nil
}
