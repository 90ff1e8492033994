package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renkon/renkon/path"
)

func TestRegistrationOrderTieBreak(t *testing.T) {
	m := path.NewMatcher[string]()
	m.Match("/api/users/{id}", "named-params")
	m.Match("/api/users/*", "anything")

	res, ok := m.Parse("/api/users/123")
	require.True(t, ok)
	assert.Equal(t, "named-params", res.Producer, "first registered pattern must win even though both match")
}

func TestAnythingBeatsConstantOnlyByOrder(t *testing.T) {
	m := path.NewMatcher[string]()
	m.Match("/api/*", "wildcard")
	m.Match("/api/users", "exact")

	res, ok := m.Parse("/api/users")
	require.True(t, ok)
	assert.Equal(t, "wildcard", res.Producer, "constant does not outrank anything; only registration order does")
}

func TestCatchallMatchesAnyLongerPath(t *testing.T) {
	m := path.NewMatcher[string]()
	m.Match("/files/**", "files")

	for _, p := range []string{"/files", "/files/a", "/files/a/b/c"} {
		_, ok := m.Parse(p)
		assert.True(t, ok, "catchall should match %q", p)
	}
}

func TestParameterCapturesExactSegment(t *testing.T) {
	m := path.NewMatcher[string]()
	m.Match("/accounts/{id}/transactions/{txId}", "tx")

	res, ok := m.Parse("/accounts/42/transactions/99")
	require.True(t, ok)
	assert.Equal(t, "42", res.Params["id"])
	assert.Equal(t, "99", res.Params["txId"])
}

func TestNoMatchWhenRequestShorterThanPattern(t *testing.T) {
	m := path.NewMatcher[string]()
	m.Match("/a/b/c", "abc")

	_, ok := m.Parse("/a/b")
	assert.False(t, ok)
}

func TestNoMatchWhenPatternShorterThanRequestWithoutCatchall(t *testing.T) {
	m := path.NewMatcher[string]()
	m.Match("/a/b", "ab")

	_, ok := m.Parse("/a/b/c")
	assert.False(t, ok)
}

func TestPathEquality(t *testing.T) {
	assert.True(t, path.Equal(path.New("/a/b"), path.New("/a/b")))
	assert.False(t, path.Equal(path.New("/a/b"), path.New("/a/b/")))
}

func TestPathStemAndExt(t *testing.T) {
	p := path.New("/files/report.csv")
	stem, ok := p.Stem()
	require.True(t, ok)
	assert.Equal(t, "report", stem)

	ext, ok := p.Ext()
	require.True(t, ok)
	assert.Equal(t, "csv", ext)
}
