package subsonic

import (
	"fmt"
	"net/http"
)

type Client struct {
	BaseURL    string
	Username   string
	Password   string
	ClientID   string
	APIVersion string
	HttpClient *http.Client
}

// SubsonicResponse is the JSON envelope of every endpoint this client uses.
type SubsonicResponse struct {
	Response struct {
		Status        string         `json:"status"`
		Version       string         `json:"version"`
		Type          string         `json:"type"`
		ServerVersion string         `json:"serverVersion"`
		OpenSubsonic  bool           `json:"openSubsonic"`
		Playlists     *PlaylistsList `json:"playlists,omitempty"`
		Playlist      *Playlist      `json:"playlist,omitempty"`
		JukeboxStatus *JukeboxStatus `json:"jukeboxStatus,omitempty"`
		Error         *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"subsonic-response"`
}

type PlaylistsList struct {
	Playlists []Playlist `json:"playlist"`
}

type Playlist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"songCount"`
	Duration  int    `json:"duration"` // in seconds
	Entries   []Song `json:"entry"`
}

type Song struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	Duration    int    `json:"duration"` // in seconds
	Track       int    `json:"track"`
	ContentType string `json:"contentType"`
	Suffix      string `json:"suffix"`
	Path        string `json:"path"`
	IsVideo     bool   `json:"isVideo"`
}

// JukeboxStatus reports the server-side player.
type JukeboxStatus struct {
	CurrentIndex int     `json:"currentIndex"`
	Playing      bool    `json:"playing"`
	Gain         float64 `json:"gain"`
	Position     int     `json:"position"` // in seconds
}

// APIError is a failed response carried in a 200 envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("subsonic error %d: %s", e.Code, e.Message)
}

// StatusError is a non-200 HTTP answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d, response: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
