package xapi

import (
	"context"
	"net/http"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/dghubble/oauth1"
	"github.com/hashicorp/go-retryablehttp"
)

// newHTTPClient assembles the client stack: a User-Agent transport at the
// bottom, OAuth1 request signing above it, and retryablehttp outermost so
// every retry attempt is signed afresh. The retry layer honors Retry-After
// on 429 responses, which covers rate-limit waiting for the whole client.
func newHTTPClient(creds Credentials) *http.Client {
	base := &http.Client{
		Transport: &userAgentTransport{next: http.DefaultTransport},
	}

	oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	ctx := context.WithValue(oauth1.NoContext, oauth1.HTTPClient, base)

	// oauth1 only keeps the base transport, so the per-request timeout
	// has to be set on the signing client it returns.
	signing := oauthConfig.Client(ctx, token)
	signing.Timeout = 30 * time.Second

	retry := retryablehttp.NewClient()
	retry.HTTPClient = signing
	retry.RetryMax = 3
	retry.RetryWaitMin = 1 * time.Second
	retry.RetryWaitMax = 30 * time.Second
	retry.Logger = nil

	return retry.StandardClient()
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", "corobot/"+versioninfo.Short())
	return t.next.RoundTrip(clone)
}
