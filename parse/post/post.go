// Package post extracts feed posts and their comments.
package post

import (
	"bytes"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/parse/internal/htmlx"
	"github.com/marketpulse/crawler/record"
	"go.uber.org/zap"
)

const (
	postSelector    = "[class*='post'], [class*='feed-item'], [class*='status']"
	likesSelector   = "[class*='like'], [class*='reaction']"
	commentSelector = "[class*='comment']"
)

// Feed parses a post feed. The payload may be HTML (post cards with
// nested comments) or the JSON feed shape with an explicit next cursor.
type Feed struct{}

func NewFeed() *Feed {
	return &Feed{}
}

func (f *Feed) Name() string {
	return "post_feed"
}

func (f *Feed) Parse(page *collect.RawPage) (*collect.ParseResult, error) {
	if looksLikeJSON(page.Body) {
		return parseJSONFeed(page)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", f.Name(), err)
	}

	result := &collect.ParseResult{}

	htmlx.TopLevel(doc.Find(postSelector)).Each(func(_ int, sel *goquery.Selection) {
		if htmlx.Text(sel) == "" {
			return
		}
		body := postBody(sel)
		likes := nodeLikes(sel)
		posted := nodeTime(sel, page.FetchedAt)

		result.Records = append(result.Records, &record.Record{
			PostContent: body,
			LikesCount:  likes,
			PostDate:    posted,
			Category:    page.Category,
			SourceURL:   page.URL,
		})

		sel.Find(commentSelector).Each(func(_ int, c *goquery.Selection) {
			text := htmlx.Text(c)
			if text == "" || text == body {
				return
			}
			commentTime := nodeTime(c, page.FetchedAt)
			if commentTime.IsZero() {
				// Comments without their own timestamp inherit the post's.
				commentTime = posted
			}
			result.Records = append(result.Records, &record.Record{
				PostContent: body,
				CommentText: text,
				LikesCount:  nodeLikes(c),
				PostDate:    commentTime,
				Category:    page.Category,
				SourceURL:   page.URL,
			})
		})
	})

	if len(result.Records) == 0 {
		zap.S().Debugf("no posts detected on %s", page.URL)
	}
	result.NextCursor = htmlx.NextCursor(doc)
	return result, nil
}

// postBody prefers a dedicated content element, then the first paragraph,
// then the whole card text.
func postBody(sel *goquery.Selection) string {
	if body := htmlx.Text(sel.Find("[class*='content']").First()); body != "" {
		return body
	}
	if body := htmlx.Text(sel.Find("p").First()); body != "" {
		return body
	}
	return htmlx.Text(sel)
}

func nodeLikes(sel *goquery.Selection) int {
	likes := sel.Find(likesSelector).First()
	if likes.Length() == 0 {
		return 0
	}
	return record.ParseCount(likes.Text())
}

func nodeTime(sel *goquery.Selection, fetchedAt time.Time) time.Time {
	node := sel.Find("time").First()
	if node.Length() > 0 {
		if dt, ok := node.Attr("datetime"); ok {
			if t, ok := record.ParseTimestamp(dt, fetchedAt); ok {
				return t
			}
		}
		if t, ok := record.ParseTimestamp(node.Text(), fetchedAt); ok {
			return t
		}
	}
	node = sel.Find("[class*='time'], [class*='date']").First()
	if node.Length() > 0 {
		if t, ok := record.ParseTimestamp(htmlx.Text(node), fetchedAt); ok {
			return t
		}
	}
	return time.Time{}
}

func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// Thread parses a standalone comment-thread page: comment nodes that hang
// off one original post.
type Thread struct{}

func NewThread() *Thread {
	return &Thread{}
}

func (t *Thread) Name() string {
	return "comment_thread"
}

func (t *Thread) Parse(page *collect.RawPage) (*collect.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", t.Name(), err)
	}

	// The thread's original post, when present, gives comments context.
	var body string
	if op := doc.Find("[class*='original-post'], [class*='post-content']").First(); op.Length() > 0 {
		body = htmlx.Text(op)
	}
	postTime := nodeTime(doc.Selection, page.FetchedAt)

	result := &collect.ParseResult{}
	htmlx.TopLevel(doc.Find(commentSelector)).Each(func(_ int, c *goquery.Selection) {
		text := htmlx.Text(c)
		if text == "" || text == body {
			return
		}
		commentTime := nodeTime(c, page.FetchedAt)
		if commentTime.IsZero() {
			commentTime = postTime
		}
		result.Records = append(result.Records, &record.Record{
			PostContent: body,
			CommentText: text,
			LikesCount:  nodeLikes(c),
			PostDate:    commentTime,
			Category:    page.Category,
			SourceURL:   page.URL,
		})
	})

	result.NextCursor = htmlx.NextCursor(doc)
	return result, nil
}
