package subsonic

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// The jukebox plays on the server's own audio device. There is a single
// jukebox per server.

func (c *Client) jukebox(ctx context.Context, action string, extra url.Values) (*SubsonicResponse, error) {
	params := url.Values{"action": {action}}
	for k, v := range extra {
		params[k] = v
	}
	return c.get(ctx, "jukeboxControl", params)
}

// JukeboxSet replaces the jukebox playlist with songIDs.
func (c *Client) JukeboxSet(ctx context.Context, songIDs []string) error {
	_, err := c.jukebox(ctx, "set", url.Values{"id": songIDs})
	return err
}

// JukeboxSkip jumps to index and starts offset into it. Subsonic only knows
// whole seconds.
func (c *Client) JukeboxSkip(ctx context.Context, index int, offset time.Duration) error {
	_, err := c.jukebox(ctx, "skip", url.Values{
		"index":  {strconv.Itoa(index)},
		"offset": {strconv.Itoa(int(offset / time.Second))},
	})
	return err
}

func (c *Client) JukeboxStart(ctx context.Context) error {
	_, err := c.jukebox(ctx, "start", nil)
	return err
}

func (c *Client) JukeboxStop(ctx context.Context) error {
	_, err := c.jukebox(ctx, "stop", nil)
	return err
}

func (c *Client) JukeboxStatus(ctx context.Context) (JukeboxStatus, error) {
	resp, err := c.jukebox(ctx, "status", nil)
	if err != nil {
		return JukeboxStatus{}, err
	}
	if resp.Response.JukeboxStatus == nil {
		return JukeboxStatus{}, nil
	}
	return *resp.Response.JukeboxStatus, nil
}
