// Package xapi talks to the X (Twitter) v1.1 API on behalf of the bot
// account: credential verification, timeline fetches, and reposting.
package xapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter"

	"github.com/coroproject/corobot/internal/types"
)

// Credentials holds the four OAuth1 user-context secrets. Callers load
// them from the environment; see Missing for the variable names.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// Missing returns the env-var names of any unset credential fields.
func (c Credentials) Missing() []string {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "X_API_KEY")
	}
	if c.APISecret == "" {
		missing = append(missing, "X_API_SECRET")
	}
	if c.AccessToken == "" {
		missing = append(missing, "X_ACCESS_TOKEN")
	}
	if c.AccessTokenSecret == "" {
		missing = append(missing, "X_ACCESS_TOKEN_SECRET")
	}
	return missing
}

// Client is an authenticated API handle.
type Client struct {
	api *twitter.Client
}

// New builds a client from credentials. Incomplete credentials are a
// configuration error; no network traffic happens here.
func New(creds Credentials) (*Client, error) {
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return &Client{api: twitter.NewClient(newHTTPClient(creds))}, nil
}

// Verify checks the credentials against the API and returns the handle of
// the authenticated account.
func (c *Client) Verify(_ context.Context) (string, error) {
	user, _, err := c.api.Accounts.VerifyCredentials(&twitter.AccountVerifyParams{
		SkipStatus:      twitter.Bool(true),
		IncludeEntities: twitter.Bool(false),
	})
	if err != nil {
		return "", wrapAPIError("verify credentials", err)
	}
	return user.ScreenName, nil
}

// RecentPosts fetches the account's most recent posts, newest first.
// Replies and reposts are included; the caller decides what to do with
// them.
func (c *Client) RecentPosts(_ context.Context, handle string, count int) ([]types.Post, error) {
	tweets, _, err := c.api.Timelines.UserTimeline(&twitter.UserTimelineParams{
		ScreenName: handle,
		Count:      count,
		TweetMode:  "extended",
	})
	if err != nil {
		return nil, wrapAPIError(fmt.Sprintf("fetch timeline @%s", handle), err)
	}

	now := time.Now()
	posts := make([]types.Post, 0, len(tweets))
	for i := range tweets {
		posts = append(posts, tweetToPost(&tweets[i], handle, now))
	}
	return posts, nil
}

// Repost amplifies the given post on the bot account.
func (c *Client) Repost(_ context.Context, id int64) error {
	_, _, err := c.api.Statuses.Retweet(id, &twitter.StatusRetweetParams{
		TrimUser: twitter.Bool(true),
	})
	return wrapAPIError(fmt.Sprintf("repost %d", id), err)
}

// tweetToPost flattens an upstream record into the bot's Post value.
// Extended-mode responses carry the text in FullText; absent entity
// blocks become empty sets.
func tweetToPost(t *twitter.Tweet, handle string, fetchedAt time.Time) types.Post {
	text := t.FullText
	if text == "" {
		text = t.Text
	}

	p := types.Post{
		ID:           t.ID,
		AuthorHandle: handle,
		Text:         text,
		IsReply:      strings.HasPrefix(strings.TrimSpace(text), "@"),
		IsRepost:     t.RetweetedStatus != nil,
		FetchedAt:    fetchedAt,
	}

	if t.User != nil {
		p.AuthorHandle = t.User.ScreenName
		p.AuthorName = t.User.Name
	}

	if t.Entities != nil {
		for _, h := range t.Entities.Hashtags {
			p.Hashtags = append(p.Hashtags, h.Text)
		}
		for _, u := range t.Entities.Urls {
			if u.ExpandedURL != "" {
				p.URLs = append(p.URLs, u.ExpandedURL)
			}
		}
	}

	if created, err := t.CreatedAtTime(); err == nil {
		p.PostedAt = created
	}

	return p
}
