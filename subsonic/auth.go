package subsonic

import (
	"crypto/md5"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// Init creates a client for the server at baseUrl. Every request is bounded
// by timeout.
func Init(baseUrl, username, password, clientId, apiVersion string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}
	client := &Client{
		BaseURL:    baseUrl,
		Username:   username,
		Password:   password,
		ClientID:   clientId,
		APIVersion: apiVersion,
		HttpClient: httpClient,
	}
	return client
}

func (c *Client) authToken(password string) (string, string) {
	salt := randSeq(8)
	token := fmt.Sprintf("%x", md5.Sum([]byte(password+salt)))

	return token, salt
}

func (c *Client) buildParams(extraParams url.Values) url.Values {
	token, salt := c.authToken(c.Password)
	params := url.Values{}
	params.Add("u", c.Username)
	params.Add("t", token)
	params.Add("s", salt)
	params.Add("v", c.APIVersion)
	params.Add("c", c.ClientID)
	params.Add("f", "json")

	for k, values := range extraParams {
		for _, v := range values {
			params.Add(k, v)
		}
	}
	return params
}
