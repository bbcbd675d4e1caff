package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coroproject/corobot/internal/config"
	"github.com/coroproject/corobot/internal/types"
)

func defaultClassifier() *Classifier {
	return New(config.Default().Rules)
}

func TestMatchKeyword(t *testing.T) {
	c := defaultClassifier()

	assert.True(t, c.Match(types.Post{ID: 1, Text: "次の配信やるよ"}))
	assert.False(t, c.Match(types.Post{ID: 5, Text: "今日は天気がいいね"}))
}

func TestReplyExcludedDespiteKeyword(t *testing.T) {
	c := defaultClassifier()

	p := types.Post{ID: 2, Text: "@someone 配信はじまるよ", IsReply: true}
	assert.False(t, c.Match(p))
}

func TestRepostExcludedDespiteAnyRule(t *testing.T) {
	c := defaultClassifier()

	p := types.Post{
		ID:       6,
		Text:     "RT @Aomishibi: 次の配信やるよ",
		Hashtags: []string{"CORO配信"},
		URLs:     []string{"https://twitch.tv/aomishibi"},
		IsRepost: true,
	}
	assert.False(t, c.Match(p))
}

func TestMatchHashtag(t *testing.T) {
	c := defaultClassifier()

	p := types.Post{ID: 3, Text: "今日は天気がいいね", Hashtags: []string{"CORO配信"}}
	assert.True(t, c.Match(p))
}

func TestMatchStreamURL(t *testing.T) {
	c := defaultClassifier()

	p := types.Post{ID: 4, URLs: []string{"https://youtu.be/xyz"}}
	assert.True(t, c.Match(p))
}

func TestKeywordCaseInsensitive(t *testing.T) {
	c := New(config.RulesConfig{Keywords: []string{"Going LIVE"}})

	assert.True(t, c.Match(types.Post{Text: "going live in 5 minutes!"}))
	assert.True(t, c.Match(types.Post{Text: "GOING LIVE NOW"}))
}

func TestHashtagCaseSensitive(t *testing.T) {
	c := New(config.RulesConfig{Hashtags: []string{"CORO配信"}})

	assert.True(t, c.Match(types.Post{Hashtags: []string{"CORO配信"}}))
	assert.False(t, c.Match(types.Post{Hashtags: []string{"coro配信"}}))
}

func TestDomainCaseSensitive(t *testing.T) {
	c := New(config.RulesConfig{StreamDomains: []string{"twitch.tv"}})

	assert.True(t, c.Match(types.Post{URLs: []string{"https://www.twitch.tv/someone"}}))
	assert.False(t, c.Match(types.Post{URLs: []string{"https://TWITCH.TV/someone"}}))
}

func TestEmptyPostNeverMatches(t *testing.T) {
	assert.False(t, defaultClassifier().Match(types.Post{}))
}

func TestExclusionsBeatInclusions(t *testing.T) {
	c := defaultClassifier()

	matching := types.Post{
		Text:     "配信はじまるよ",
		Hashtags: []string{"CORO配信"},
		URLs:     []string{"https://youtube.com/watch?v=abc"},
	}
	assert.True(t, c.Match(matching))

	asReply := matching
	asReply.IsReply = true
	assert.False(t, c.Match(asReply))

	asRepost := matching
	asRepost.IsRepost = true
	assert.False(t, c.Match(asRepost))
}
