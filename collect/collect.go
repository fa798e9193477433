package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Fetcher supplies raw pages. Implementations must treat a repeated fetch
// of the same request as safe; the engine retries through this boundary.
type Fetcher interface {
	Get(ctx context.Context, req *Request) (*RawPage, error)
}

// BrowserFetch fetches over HTTP with browser-like headers, normalizing
// the body to UTF-8 whatever the page encoding declares.
type BrowserFetch struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

func (b *BrowserFetch) Get(ctx context.Context, request *Request) (*RawPage, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{
		Timeout: b.Timeout,
	}

	if request.Task != nil && request.Task.Limit != nil {
		if err := request.Task.Limit.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", request.URL, err)
	}

	if request.Task != nil {
		if len(request.Task.Cookie) > 0 {
			req.Header.Set("Cookie", request.Task.Cookie)
		}
		if request.Task.WaitTime > 0 && request.Cursor != "" {
			select {
			case <-time.After(request.Task.WaitTime):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("fetch failed", zap.String("url", request.URL), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", request.URL, resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DetermineEncoding(bodyReader, logger)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())
	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", request.URL, err)
	}

	page := &RawPage{
		FetchedURL: request.URL,
		Cursor:     request.Cursor,
		Body:       body,
		FetchedAt:  time.Now(),
	}
	if request.Task != nil {
		page.Tag = request.Task.PageType
		page.URL = request.Task.URL
		page.Category = request.Task.Category
	} else {
		page.URL = request.URL
	}
	return page, nil
}

// DetermineEncoding sniffs the page charset from the first KB of the body.
func DetermineEncoding(r *bufio.Reader, logger *zap.Logger) encoding.Encoding {
	peek, err := r.Peek(1024)
	if err != nil && err != io.EOF {
		logger.Warn("charset peek failed", zap.Error(err))
		return unicode.UTF8
	}
	e, _, _ := charset.DetermineEncoding(peek, "")
	return e
}
