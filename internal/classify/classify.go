// Package classify decides whether a post announces a live stream.
//
// The rules are deliberately permissive: substring keyword matching favors
// recall over precision, since a missed announcement costs more than the
// occasional stray repost.
package classify

import (
	"strings"

	"github.com/coroproject/corobot/internal/config"
	"github.com/coroproject/corobot/internal/types"
)

// Classifier applies the configured stream-announcement rules to posts.
type Classifier struct {
	rules config.RulesConfig
}

// New creates a classifier for the given rule set.
func New(rules config.RulesConfig) *Classifier {
	return &Classifier{rules: rules}
}

// Match reports whether the post looks like a stream announcement.
// Exclusions are checked before inclusions, so a reply that happens to
// mention a keyword stays excluded. Pure: no side effects, never fails.
func (c *Classifier) Match(p types.Post) bool {
	// Replies and reposts are never announcements of the author's own stream.
	if p.IsReply || p.IsRepost {
		return false
	}

	lowered := strings.ToLower(p.Text)
	for _, kw := range c.rules.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}

	for _, tag := range p.Hashtags {
		for _, want := range c.rules.Hashtags {
			if tag == want {
				return true
			}
		}
	}

	// Substring match against the full expanded URL, not strict domain
	// parsing: shortener paths like youtu.be/xyz still count.
	for _, u := range p.URLs {
		for _, domain := range c.rules.StreamDomains {
			if domain == "" {
				continue
			}
			if strings.Contains(u, domain) {
				return true
			}
		}
	}

	return false
}
