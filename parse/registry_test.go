package parse

import (
	"testing"

	"github.com/marketpulse/crawler/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryDispatch(t *testing.T) {
	r := DefaultRegistry()

	for _, tag := range []collect.PageType{
		collect.PageDiscoveryStock,
		collect.PageScreener,
		collect.PageInvestorProfile,
		collect.PagePostFeed,
		collect.PageCommentThread,
	} {
		p, err := r.Dispatch(tag)
		require.NoError(t, err, "tag %s", tag)
		assert.NotNil(t, p)
	}
}

func TestDispatchUnknownTag(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Dispatch(collect.PageType("rss_feed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPageType)
	assert.Contains(t, err.Error(), "rss_feed")
}

func TestRegisterReplaces(t *testing.T) {
	r := DefaultRegistry()

	original, err := r.Dispatch(collect.PagePostFeed)
	require.NoError(t, err)

	replacement, err := r.Dispatch(collect.PageCommentThread)
	require.NoError(t, err)
	r.Register(collect.PagePostFeed, replacement)

	got, err := r.Dispatch(collect.PagePostFeed)
	require.NoError(t, err)
	assert.NotEqual(t, original.Name(), got.Name())
}
