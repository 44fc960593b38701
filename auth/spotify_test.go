package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStoreMissing(t *testing.T) {
	_, err := NewTokenStore(afero.NewMemMapFs(), "/token.json").Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokenStoreEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/token.json", []byte(`{}`), 0o600))

	_, err := NewTokenStore(fs, "/token.json").Load()
	assert.ErrorIs(t, err, os.ErrNotExist, "a file without token starts a fresh login")
}

func TestTokenStoreSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewTokenStore(fs, "/token.json")
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: expiry}))

	info, err := fs.Stat("/token.json")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFileMode), info.Mode().Perm())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))
}

func TestAuthURLCarriesScopes(t *testing.T) {
	a := NewAuthenticator(Credentials{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://127.0.0.1:8888/callback"})
	url := a.AuthURL("state")

	assert.Contains(t, url, "client_id=id")
	assert.Contains(t, url, "state=state")
	assert.True(t, strings.Contains(url, "user-modify-playback-state"))
}
