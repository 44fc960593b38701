package subsonic

import (
	"context"
	"net/url"
)

// GetPlaylists lists the playlists visible to the authenticated user.
func (c *Client) GetPlaylists(ctx context.Context) ([]Playlist, error) {
	resp, err := c.get(ctx, "getPlaylists", nil)
	if err != nil {
		return nil, err
	}
	if resp.Response.Playlists == nil {
		return nil, nil
	}
	return resp.Response.Playlists.Playlists, nil
}

// GetPlaylist returns the playlist with its entries in server order.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	resp, err := c.get(ctx, "getPlaylist", url.Values{"id": {id}})
	if err != nil {
		return nil, err
	}
	if resp.Response.Playlist == nil {
		return nil, &APIError{Code: 70, Message: "playlist " + id + " not found"}
	}
	return resp.Response.Playlist, nil
}
