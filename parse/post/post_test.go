package post

import (
	"testing"
	"time"

	"github.com/marketpulse/crawler/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchedAt = time.Date(2025, 3, 22, 12, 0, 0, 0, time.UTC)

const feedPage = `
<html><body>
<div class="feed-item">
  <div class="item-content">TSLA earnings beat expectations</div>
  <span class="like-count">153 likes</span>
  <time datetime="2025-03-22T09:30:00Z">this morning</time>
  <div class="comment">
    <p>Called it last week</p>
    <span class="reaction">♥ 12</span>
  </div>
</div>
<div class="status">
  <p>Rotating into energy</p>
  <span class="time">3 hours ago</span>
</div>
</body></html>`

func TestFeedHTML(t *testing.T) {
	p := NewFeed()
	result, err := p.Parse(&collect.RawPage{
		URL:       "https://example.com/feed",
		Body:      []byte(feedPage),
		FetchedAt: fetchedAt,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	post := result.Records[0]
	assert.Equal(t, "TSLA earnings beat expectations", post.PostContent)
	assert.Empty(t, post.CommentText)
	assert.Equal(t, 153, post.LikesCount)
	assert.Equal(t, time.Date(2025, 3, 22, 9, 30, 0, 0, time.UTC), post.PostDate)

	comment := result.Records[1]
	assert.Equal(t, "TSLA earnings beat expectations", comment.PostContent)
	assert.Equal(t, "Called it last week ♥ 12", comment.CommentText)
	assert.Equal(t, 12, comment.LikesCount)

	second := result.Records[2]
	assert.Equal(t, "Rotating into energy", second.PostContent)
	assert.Equal(t, fetchedAt.Add(-3*time.Hour), second.PostDate, "relative time resolved against fetch time")
}

func TestFeedEmptyPage(t *testing.T) {
	p := NewFeed()
	result, err := p.Parse(&collect.RawPage{
		URL:  "https://example.com/feed",
		Body: []byte(`<html><body><div class="sidebar">ads</div></body></html>`),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.NextCursor)
}

const feedJSON = `{
  "posts": [
    {
      "content": "Buying more NVDA",
      "likes": 120,
      "date": "2025-03-21T08:00:00Z",
      "comments": [
        {"text": "bold move", "likes": "4", "date": "2 hours ago"}
      ]
    }
  ],
  "next_cursor": "abc123"
}`

func TestFeedJSON(t *testing.T) {
	p := NewFeed()
	result, err := p.Parse(&collect.RawPage{
		URL:       "https://example.com/api/feed",
		Category:  "Semis",
		Body:      []byte(feedJSON),
		FetchedAt: fetchedAt,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "abc123", result.NextCursor)

	post := result.Records[0]
	assert.Equal(t, "Buying more NVDA", post.PostContent)
	assert.Equal(t, 120, post.LikesCount)
	assert.Equal(t, "Semis", post.Category)

	comment := result.Records[1]
	assert.Equal(t, "bold move", comment.CommentText)
	assert.Equal(t, 4, comment.LikesCount)
	assert.Equal(t, fetchedAt.Add(-2*time.Hour), comment.PostDate)
}

func TestFeedJSONMalformed(t *testing.T) {
	p := NewFeed()
	_, err := p.Parse(&collect.RawPage{
		URL:  "https://example.com/api/feed",
		Body: []byte(`{"posts": [`),
	})
	assert.Error(t, err)
}

const threadPage = `
<html><body>
<div class="post-content">Original take on TSLA</div>
<div class="comment"><p>agree</p><span class="like">5</span></div>
<div class="comment"><p>disagree</p></div>
</body></html>`

func TestThread(t *testing.T) {
	p := NewThread()
	result, err := p.Parse(&collect.RawPage{
		URL:       "https://example.com/post/42",
		Body:      []byte(threadPage),
		FetchedAt: fetchedAt,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "Original take on TSLA", result.Records[0].PostContent)
	assert.Equal(t, "agree 5", result.Records[0].CommentText)
	assert.Equal(t, 5, result.Records[0].LikesCount)
	assert.Equal(t, "disagree", result.Records[1].CommentText)
}
