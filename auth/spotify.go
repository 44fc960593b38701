// Package auth obtains an authenticated Spotify client and keeps its OAuth
// token on disk between runs.
package auth

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const tokenFileMode = 0o600

// Scopes needed to list playlists and drive a Connect device.
var Scopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
}

type tokenData struct {
	Token *oauth2.Token `json:"token"`
}

// TokenStore keeps one OAuth token in a JSON file.
type TokenStore struct {
	fs   afero.Fs
	path string
}

func NewTokenStore(fs afero.Fs, path string) *TokenStore {
	return &TokenStore{fs: fs, path: path}
}

// Load returns the saved token; an error wrapping os.ErrNotExist when
// there is none yet.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	if td.Token == nil {
		return nil, fmt.Errorf("token file %s: %w", s.path, os.ErrNotExist)
	}
	return td.Token, nil
}

func (s *TokenStore) Save(token *oauth2.Token) error {
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, data, tokenFileMode)
}

// Credentials come from configuration or the environment, never from source.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewAuthenticator(c Credentials) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithRedirectURL(c.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
		spotifyauth.WithClientID(c.ClientID),
		spotifyauth.WithClientSecret(c.ClientSecret),
	)
}

// Session is an authenticated client together with where its token lives.
type Session struct {
	Client *spotify.Client
	store  *TokenStore
}

// Persist writes the current, possibly refreshed, token back to the store.
func (s *Session) Persist() error {
	token, err := s.Client.Token()
	if err != nil {
		return fmt.Errorf("read spotify token: %w", err)
	}
	return s.store.Save(token)
}

// Login returns a client for the saved token. Without a saved token it runs
// the authorization code flow: the URL is written to out and the code read
// from in.
func Login(ctx context.Context, authenticator *spotifyauth.Authenticator, store *TokenStore, in io.Reader, out io.Writer, logger zerolog.Logger) (*Session, error) {
	token, err := store.Load()
	if errors.Is(err, os.ErrNotExist) {
		logger.Info().Msg("No saved Spotify token, starting OAuth flow")
		token, err = authorize(ctx, authenticator, in, out)
		if err != nil {
			return nil, err
		}
		if err := store.Save(token); err != nil {
			logger.Warn().Err(err).Msg("Failed to save Spotify token")
		}
	} else if err != nil {
		return nil, err
	}

	client := spotify.New(authenticator.Client(ctx, token))
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify authentication: %w", err)
	}
	logger.Info().Str("user", user.DisplayName).Msg("Authenticated with Spotify")
	return &Session{Client: client, store: store}, nil
}

func authorize(ctx context.Context, authenticator *spotifyauth.Authenticator, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	state, err := randomState()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Please visit the following URL to authorize localradio:\n%s\n", authenticator.AuthURL(state))
	fmt.Fprint(out, "Enter the authorization code: ")

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("no authorization code given")
	}

	token, err := authenticator.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
