// Package script runs a JavaScript-defined parser variant. It is the
// escape hatch for site markup none of the built-in variants understand:
// a snippet receives the page and emits records, without recompiling the
// binary.
package script

import (
	"fmt"

	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/record"
	"github.com/robertkrimen/otto"
)

// Parser evaluates a JS snippet against each page. The snippet sees a
// `page` object ({url, body, category, fetched_at}) and two callbacks:
//
//	emit({stock_name: "...", ticker: "...", likes_count: "1,2k", ...})
//	setNext("cursor-or-href")
//
// A fresh VM per Parse keeps the variant pure and restartable.
type Parser struct {
	name   string
	source string
}

func New(name, source string) *Parser {
	return &Parser{name: name, source: source}
}

func (p *Parser) Name() string {
	return "script:" + p.name
}

func (p *Parser) Parse(page *collect.RawPage) (*collect.ParseResult, error) {
	vm := otto.New()
	result := &collect.ParseResult{}

	if err := vm.Set("page", map[string]interface{}{
		"url":        page.URL,
		"body":       string(page.Body),
		"category":   page.Category,
		"fetched_at": page.FetchedAt.String(),
	}); err != nil {
		return nil, fmt.Errorf("script %s: %w", p.name, err)
	}

	vm.Set("emit", func(call otto.FunctionCall) otto.Value {
		exported, err := call.Argument(0).Export()
		if err != nil {
			return otto.UndefinedValue()
		}
		fields, ok := exported.(map[string]interface{})
		if !ok {
			return otto.UndefinedValue()
		}
		result.Records = append(result.Records, recordFromFields(fields, page))
		return otto.UndefinedValue()
	})

	vm.Set("setNext", func(call otto.FunctionCall) otto.Value {
		if cursor, err := call.Argument(0).ToString(); err == nil && cursor != "undefined" {
			result.NextCursor = cursor
		}
		return otto.UndefinedValue()
	})

	if _, err := vm.Run(p.source); err != nil {
		return nil, fmt.Errorf("script %s: %w", p.name, err)
	}
	return result, nil
}

// recordFromFields maps the emitted object onto the canonical schema
// using the shared lenient coercion. Unknown keys are ignored.
func recordFromFields(fields map[string]interface{}, page *collect.RawPage) *record.Record {
	rec := &record.Record{
		StockName:    str(fields["stock_name"]),
		Ticker:       str(fields["ticker"]),
		InvestorName: str(fields["investor_name"]),
		PostContent:  str(fields["post_content"]),
		CommentText:  str(fields["comment_text"]),
		LikesCount:   record.ParseCount(str(fields["likes_count"])),
		Category:     str(fields["category"]),
		SourceURL:    page.URL,
	}
	if rec.Category == "" {
		rec.Category = page.Category
	}
	if rec.SourceURL == "" {
		rec.SourceURL = page.URL
	}
	if t, ok := record.ParseTimestamp(str(fields["post_date"]), page.FetchedAt); ok {
		rec.PostDate = t
	}
	if stats, ok := fields["investor_stats"].(map[string]interface{}); ok {
		for k, v := range stats {
			if n, ok := record.ParseNumber(str(v)); ok {
				if rec.InvestorStats == nil {
					rec.InvestorStats = make(map[string]float64)
				}
				rec.InvestorStats[k] = n
			}
		}
	}
	return rec
}

func str(v interface{}) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
