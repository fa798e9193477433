// Package parse maps page-type tags to parser variants.
package parse

import (
	"errors"
	"fmt"
	"sync"

	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/parse/investor"
	"github.com/marketpulse/crawler/parse/post"
	"github.com/marketpulse/crawler/parse/stock"
)

// ErrUnknownPageType marks a registry miss. A miss is a configuration
// error: it fails the target immediately instead of silently dropping
// its pages.
var ErrUnknownPageType = errors.New("unknown page type")

type Registry struct {
	mu      sync.RWMutex
	parsers map[collect.PageType]collect.Parser
}

func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[collect.PageType]collect.Parser),
	}
}

// Register binds a tag to a variant, replacing any previous binding.
func (r *Registry) Register(tag collect.PageType, p collect.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[tag] = p
}

// Dispatch returns the variant for the tag or ErrUnknownPageType.
func (r *Registry) Dispatch(tag collect.PageType) (collect.Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPageType, tag)
	}
	return p, nil
}

// DefaultRegistry binds every built-in variant to its tag.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(collect.PageDiscoveryStock, stock.NewDiscovery())
	r.Register(collect.PageScreener, stock.NewScreener())
	r.Register(collect.PageInvestorProfile, investor.NewProfile())
	r.Register(collect.PagePostFeed, post.NewFeed())
	r.Register(collect.PageCommentThread, post.NewThread())
	return r
}
