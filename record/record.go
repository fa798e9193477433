package record

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"
)

// FieldNames is the canonical export column order. Exporters must not
// reorder or drop columns.
var FieldNames = []string{
	"stock_name",
	"ticker",
	"investor_name",
	"investor_stats",
	"post_content",
	"comment_text",
	"likes_count",
	"post_date",
	"category",
	"source_url",
}

// Record is the unit of output. Every field except SourceURL is optional:
// source pages are heterogeneous and parsers fill in whatever they can find.
// The zero value of a field means "absent"; exporters render it as null.
type Record struct {
	ID            int64
	StockName     string
	Ticker        string
	InvestorName  string
	InvestorStats map[string]float64
	PostContent   string
	CommentText   string
	LikesCount    int
	PostDate      time.Time
	Category      string
	SourceURL     string
}

// HasContent reports whether the record carries substantive content.
func (r *Record) HasContent() bool {
	return r.StockName != "" || r.InvestorName != "" || r.PostContent != "" || r.CommentText != ""
}

// Key returns the identity key used to detect the same logical record
// across pages. The discriminator prefers the ticker, then the investor
// name, and falls back to a hash of the textual content.
func (r *Record) Key() string {
	var id string
	switch {
	case r.Ticker != "":
		id = "t:" + r.Ticker
	case r.InvestorName != "":
		id = "i:" + r.InvestorName
	default:
		id = "c:" + r.contentHash()
	}
	sum := md5.Sum([]byte(r.SourceURL + "\x00" + id))
	return hex.EncodeToString(sum[:])
}

func (r *Record) contentHash() string {
	sum := md5.Sum([]byte(r.StockName + "\x00" + r.PostContent + "\x00" + r.CommentText))
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy; the stats map is not shared.
func (r *Record) Clone() *Record {
	c := *r
	if r.InvestorStats != nil {
		c.InvestorStats = make(map[string]float64, len(r.InvestorStats))
		for k, v := range r.InvestorStats {
			c.InvestorStats[k] = v
		}
	}
	return &c
}

type jsonRecord struct {
	StockName     *string            `json:"stock_name"`
	Ticker        *string            `json:"ticker"`
	InvestorName  *string            `json:"investor_name"`
	InvestorStats map[string]float64 `json:"investor_stats"`
	PostContent   *string            `json:"post_content"`
	CommentText   *string            `json:"comment_text"`
	LikesCount    int                `json:"likes_count"`
	PostDate      *string            `json:"post_date"`
	Category      *string            `json:"category"`
	SourceURL     string             `json:"source_url"`
}

// MarshalJSON renders absent fields as explicit nulls so downstream
// consumers can tell "not present on the page" from empty values.
func (r Record) MarshalJSON() ([]byte, error) {
	out := jsonRecord{
		StockName:     nullable(r.StockName),
		Ticker:        nullable(r.Ticker),
		InvestorName:  nullable(r.InvestorName),
		InvestorStats: r.InvestorStats,
		PostContent:   nullable(r.PostContent),
		CommentText:   nullable(r.CommentText),
		LikesCount:    r.LikesCount,
		Category:      nullable(r.Category),
		SourceURL:     r.SourceURL,
	}
	if !r.PostDate.IsZero() {
		s := r.PostDate.UTC().Format(time.RFC3339)
		out.PostDate = &s
	}
	return json.Marshal(out)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
