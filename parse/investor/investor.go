// Package investor extracts investor profile cards.
package investor

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

const cardSelector = "[class*='user'], [class*='investor'], [data-etoro-user], [data-user-card]"

// Stat patterns observed on profile cards. Values go into investor_stats
// under the named key; a pattern that doesn't match is simply omitted.
var statPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"risk_score", regexp.MustCompile(`(?i)risk\s*score\s*(\d+)`)},
	{"risk_score", regexp.MustCompile(`(?i)risk[^0-9]*(\d+)\s*/\s*10`)},
	{"return_12m", regexp.MustCompile(`(?i)(?:12m|12\s*months|1y)[^0-9\-+]*([\-+]?\d+(?:\.\d+)?)\s*%`)},
	{"copiers", regexp.MustCompile(`(?i)copiers[^0-9]*([\d,]+)`)},
	{"win_ratio", regexp.MustCompile(`(?i)win\s*ratio[^0-9]*(\d+(?:\.\d+)?)\s*%`)},
}

// Profile parses investor cards: any element whose class mentions user or
// investor, with a name somewhere inside and loose stats text around it.
type Profile struct{}

func NewProfile() *Profile {
	return &Profile{}
}

func (p *Profile) Name() string {
	return "investor_profile"
}

func (p *Profile) Parse(page *collect.RawPage) (*collect.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", p.Name(), err)
	}

	result := &collect.ParseResult{}

	htmlx.TopLevel(doc.Find(cardSelector)).Each(func(_ int, card *goquery.Selection) {
		text := htmlx.Text(card)
		if text == "" {
			return
		}

		name := htmlx.Text(card.Find("strong, b, h2, h3, span[class*='name']").First())
		if name == "" {
			// Fall back to the first wordish token of the card.
			name = strings.SplitN(text, " ", 2)[0]
		}

		result.Records = append(result.Records, &record.Record{
			InvestorName:  name,
			InvestorStats: buildStats(text),
			Category:      page.Category,
			SourceURL:     page.URL,
		})
	})

	if len(result.Records) == 0 {
		zap.S().Debugf("no investor cards detected on %s", page.URL)
	}
	result.NextCursor = htmlx.NextCursor(doc)
	return result, nil
}

// buildStats runs every stat pattern over the card text. Returns nil when
// nothing matches so the stats field stays null.
func buildStats(text string) map[string]float64 {
	var stats map[string]float64
	for _, p := range statPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if _, ok := stats[p.key]; ok {
			continue
		}
		v, ok := record.ParseNumber(m[1])
		if !ok {
			continue
		}
		if stats == nil {
			stats = make(map[string]float64)
		}
		stats[p.key] = v
	}
	return stats
}
