package xapi

import (
	"errors"
	"fmt"

	"github.com/dghubble/go-twitter/twitter"
)

// v1.1 error codes the bot cares about.
const (
	codePageNotFound     = 34
	codeRateLimited      = 88
	codeNoStatusFound    = 144
	codeAlreadyRetweeted = 327
)

var (
	// ErrAlreadyReposted means the bot account has reposted this post
	// before; the upstream state already matches what we wanted.
	ErrAlreadyReposted = errors.New("already reposted")

	// ErrNotFound means the post no longer exists upstream.
	ErrNotFound = errors.New("post not found")

	// ErrRateLimited means the API refused the call even after the HTTP
	// client's built-in backoff.
	ErrRateLimited = errors.New("rate limited")
)

// wrapAPIError maps upstream error codes onto the sentinels above so
// callers can errors.Is against them; anything else is wrapped as-is.
func wrapAPIError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr twitter.APIError
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Errors {
			switch d.Code {
			case codeAlreadyRetweeted:
				return fmt.Errorf("%s: %w: %s", op, ErrAlreadyReposted, d.Message)
			case codePageNotFound, codeNoStatusFound:
				return fmt.Errorf("%s: %w: %s", op, ErrNotFound, d.Message)
			case codeRateLimited:
				return fmt.Errorf("%s: %w: %s", op, ErrRateLimited, d.Message)
			}
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
