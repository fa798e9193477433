package post

import (
	"encoding/json"
	"fmt"

	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/record"
)

// JSON feed endpoints return posts directly with an opaque continuation
// cursor. Field values are parsed with the same leniency as HTML text.
type feedPayload struct {
	Posts      []feedPost `json:"posts"`
	NextCursor string     `json:"next_cursor"`
}

type feedPost struct {
	Content  string          `json:"content"`
	Likes    json.RawMessage `json:"likes"` // number or quoted string, parsed leniently
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Comments []feedComment   `json:"comments"`
}

type feedComment struct {
	Text  string          `json:"text"`
	Likes json.RawMessage `json:"likes"`
	Date  string          `json:"date"`
}

func parseJSONFeed(page *collect.RawPage) (*collect.ParseResult, error) {
	var payload feedPayload
	if err := json.Unmarshal(page.Body, &payload); err != nil {
		return nil, fmt.Errorf("post_feed: decode json feed: %w", err)
	}

	result := &collect.ParseResult{NextCursor: payload.NextCursor}
	for _, p := range payload.Posts {
		category := p.Category
		if category == "" {
			category = page.Category
		}
		posted, _ := record.ParseTimestamp(p.Date, page.FetchedAt)

		result.Records = append(result.Records, &record.Record{
			PostContent: p.Content,
			LikesCount:  record.ParseCount(string(p.Likes)),
			PostDate:    posted,
			Category:    category,
			SourceURL:   page.URL,
		})

		for _, c := range p.Comments {
			commentTime, ok := record.ParseTimestamp(c.Date, page.FetchedAt)
			if !ok {
				commentTime = posted
			}
			result.Records = append(result.Records, &record.Record{
				PostContent: p.Content,
				CommentText: c.Text,
				LikesCount:  record.ParseCount(string(c.Likes)),
				PostDate:    commentTime,
				Category:    category,
				SourceURL:   page.URL,
			})
		}
	}
	return result, nil
}
