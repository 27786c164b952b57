package deploy

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/syncbuild/syncbuild/pkg/runtimecfg"
	"github.com/syncbuild/syncbuild/pkg/version"
)

// Client uploads deployment units to the sync server.
type Client struct {
	http *resty.Client
	env  string
}

func NewClient(settings *runtimecfg.Settings) *Client {
	http := resty.New().
		SetBaseURL(settings.Hostport).
		SetAuthToken(settings.Credentials.SecretKey.Value()).
		SetHeader("User-Agent", "syncbuild/"+version.Version)
	return &Client{http: http, env: settings.EnvironmentTag}
}

// Deploy uploads the batch in a single request. The server applies it
// atomically, so there is nothing to retry piecemeal here.
func (c *Client) Deploy(ctx context.Context, units []Unit) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("env", c.env).
		SetBody(units).
		Post("/sync/deploy")
	if err != nil {
		return NewRequestError(err)
	}
	if resp.IsError() {
		return NewResponseError(resp.StatusCode(), resp.String())
	}
	return nil
}
