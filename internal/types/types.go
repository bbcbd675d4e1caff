package types

import (
	"fmt"
	"time"
)

// Post represents a single post fetched from a monitored X account.
// Fields absent from the upstream record default to zero values; callers
// never see an error for a missing entity block.
type Post struct {
	ID           int64     `json:"id"`
	AuthorHandle string    `json:"author_handle"`
	AuthorName   string    `json:"author_name"`
	Text         string    `json:"text"`
	Hashtags     []string  `json:"hashtags"`
	URLs         []string  `json:"urls"`
	IsReply      bool      `json:"is_reply"`
	IsRepost     bool      `json:"is_repost"`
	PostedAt     time.Time `json:"posted_at"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Permalink returns the public URL of the post.
func (p Post) Permalink() string {
	return fmt.Sprintf("https://x.com/%s/status/%d", p.AuthorHandle, p.ID)
}
