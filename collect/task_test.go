package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURLFirstPage(t *testing.T) {
	task := NewTask(WithURL("https://example.com/discover"))
	got, err := task.ResolveURL("")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/discover", got)
}

func TestResolveURLPageParam(t *testing.T) {
	task := NewTask(
		WithURL("https://example.com/screener?sector=tech"),
		WithPageParam("start", 25),
	)
	assert.True(t, task.Derivable())

	got, err := task.ResolveURL("25")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/screener?sector=tech&start=25", got)
}

func TestResolveURLReference(t *testing.T) {
	task := NewTask(WithURL("https://example.com/feed"))
	assert.False(t, task.Derivable())

	got, err := task.ResolveURL("/feed?cursor=abc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/feed?cursor=abc", got)

	got, err = task.ResolveURL("https://other.example.com/feed?page=2")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/feed?page=2", got)
}

func TestTaskDefaults(t *testing.T) {
	task := NewTask(WithName("x"))
	assert.Equal(t, 50, task.MaxPages)
	assert.Equal(t, 2, task.EmptyPageThreshold)
	assert.Equal(t, 3, task.RetryLimit)
}
