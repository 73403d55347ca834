package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_MatchesName(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		res     Resource
		want    bool
	}{
		{name: "prefix glob matches", pattern: "a-*", res: Resource{Name: "a-test"}, want: true},
		{name: "prefix glob rejects", pattern: "a-*", res: Resource{Name: "b-prod"}, want: false},
		{name: "empty pattern matches all", pattern: "", res: Resource{Name: "anything"}, want: true},
		{name: "falls back to ID when name empty", pattern: "i-0abc*", res: Resource{ID: "i-0abc123"}, want: true},
		{name: "exact name", pattern: "web", res: Resource{Name: "web"}, want: true},
		{name: "question mark wildcard", pattern: "env-?", res: Resource{Name: "env-1"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Filter{NamePattern: tt.pattern}
			require.NoError(t, f.Compile())
			assert.Equal(t, tt.want, f.Matches(&tt.res))
		})
	}
}

func TestFilter_MatchesTags(t *testing.T) {
	f := &Filter{Tags: map[string]string{"env": "dev", "team": "web"}}
	require.NoError(t, f.Compile())

	assert.True(t, f.Matches(&Resource{Tags: map[string]string{"env": "dev", "team": "web", "extra": "x"}}))
	assert.False(t, f.Matches(&Resource{Tags: map[string]string{"env": "dev"}}))
	assert.False(t, f.Matches(&Resource{Tags: map[string]string{"env": "prod", "team": "web"}}))
	assert.False(t, f.Matches(&Resource{}))
}

func TestFilter_MatchesIDs(t *testing.T) {
	f := &Filter{IDs: []string{"i-1", "my-bucket"}}
	require.NoError(t, f.Compile())

	assert.True(t, f.Matches(&Resource{ID: "i-1"}))
	assert.True(t, f.Matches(&Resource{ID: "x", Name: "my-bucket"}))
	assert.True(t, f.Matches(&Resource{ID: "x", ARN: "i-1"}))
	assert.False(t, f.Matches(&Resource{ID: "i-2"}))
}

func TestFilter_CompileRejectsBadPattern(t *testing.T) {
	f := &Filter{NamePattern: "[unclosed"}
	assert.Error(t, f.Compile())
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags("env=dev,team=web")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"env": "dev", "team": "web"}, tags)

	tags, err = ParseTags("")
	require.NoError(t, err)
	assert.Nil(t, tags)

	_, err = ParseTags("no-equals-sign")
	assert.Error(t, err)

	_, err = ParseTags("=value")
	assert.Error(t, err)
}
