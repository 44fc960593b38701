package subsonic

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]url.Values) {
	t.Helper()

	var seen []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Query())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return Init(srv.URL, "alice", "sesame", "localradio", "1.16.1", 5*time.Second), &seen
}

func TestBuildParamsAuth(t *testing.T) {
	c := Init("http://example", "alice", "sesame", "localradio", "1.16.1", time.Second)
	params := c.buildParams(url.Values{"id": {"1", "2"}})

	assert.Equal(t, "alice", params.Get("u"))
	assert.Equal(t, "1.16.1", params.Get("v"))
	assert.Equal(t, "localradio", params.Get("c"))
	assert.Equal(t, "json", params.Get("f"))
	assert.Equal(t, []string{"1", "2"}, params["id"])
	assert.Empty(t, params.Get("p"), "password must never travel in clear")

	salt := params.Get("s")
	assert.Len(t, salt, 8)
	assert.Equal(t, fmt.Sprintf("%x", md5.Sum([]byte("sesame"+salt))), params.Get("t"))
}

func TestGetPlaylists(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/getPlaylists", r.URL.Path)
		fmt.Fprint(w, `{"subsonic-response":{"status":"ok","version":"1.16.1",
			"playlists":{"playlist":[{"id":"1","name":"radio jazz","songCount":2,"duration":420},
			{"id":"2","name":"gym"}]}}}`)
	})

	playlists, err := c.GetPlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "radio jazz", playlists[0].Name)
	assert.Equal(t, 420, playlists[0].Duration)
	assert.Len(t, *seen, 1)
}

func TestGetPlaylist(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subsonic-response":{"status":"ok","playlist":{"id":"7","name":"radio x",
			"entry":[{"id":"s1","title":"One","duration":180},{"id":"s2","title":"Two","duration":240}]}}}`)
	})

	p, err := c.GetPlaylist(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "7", (*seen)[0].Get("id"))
	require.Len(t, p.Entries, 2)
	assert.Equal(t, "s2", p.Entries[1].ID)
	assert.Equal(t, 240, p.Entries[1].Duration)
}

func TestAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subsonic-response":{"status":"failed","error":{"code":40,"message":"Wrong username or password"}}}`)
	})

	err := c.Ping(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40, apiErr.Code)
}

func TestStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "down")
	})

	err := c.JukeboxStart(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, statusErr.Temporary())
	assert.False(t, (&StatusError{StatusCode: http.StatusNotFound}).Temporary())
}

func TestJukeboxCommands(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/jukeboxControl", r.URL.Path)
		if r.URL.Query().Get("action") == "status" {
			fmt.Fprint(w, `{"subsonic-response":{"status":"ok","jukeboxStatus":{"currentIndex":2,"playing":true,"gain":0.5,"position":61}}}`)
			return
		}
		fmt.Fprint(w, `{"subsonic-response":{"status":"ok"}}`)
	})
	ctx := context.Background()

	require.NoError(t, c.JukeboxSet(ctx, []string{"a", "b", "a", "b"}))
	require.NoError(t, c.JukeboxSkip(ctx, 1, 61900*time.Millisecond))
	require.NoError(t, c.JukeboxStart(ctx))
	require.NoError(t, c.JukeboxStop(ctx))
	status, err := c.JukeboxStatus(ctx)
	require.NoError(t, err)

	require.Len(t, *seen, 5)
	assert.Equal(t, "set", (*seen)[0].Get("action"))
	assert.Equal(t, []string{"a", "b", "a", "b"}, (*seen)[0]["id"])
	assert.Equal(t, "skip", (*seen)[1].Get("action"))
	assert.Equal(t, "1", (*seen)[1].Get("index"))
	assert.Equal(t, "61", (*seen)[1].Get("offset"))
	assert.Equal(t, "start", (*seen)[2].Get("action"))
	assert.Equal(t, "stop", (*seen)[3].Get("action"))
	assert.Equal(t, JukeboxStatus{CurrentIndex: 2, Playing: true, Gain: 0.5, Position: 61}, status)
}
