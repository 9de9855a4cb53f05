package satellite

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// accessToken returns a bearer token, reusing the cached one until it is
// within tokenExpiryMargin of expiring. Concurrent refreshes collapse into a
// single in-flight exchange via singleflight.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	tok := c.token
	c.tokenMu.Unlock()

	if tok != nil && c.now().Add(tokenExpiryMargin).Before(tok.Expiry) {
		return tok.AccessToken, nil
	}

	v, err, _ := c.refresh.Do("token", func() (interface{}, error) {
		// Route the exchange through our HTTP client.
		exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
		t, err := c.creds.Token(exchangeCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		c.logger.Debug("access token refreshed", "expires", t.Expiry)

		c.tokenMu.Lock()
		c.token = t
		c.tokenMu.Unlock()
		return t, nil
	})
	if err != nil {
		return "", err
	}
	return v.(*oauth2.Token).AccessToken, nil
}
