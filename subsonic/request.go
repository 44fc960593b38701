package subsonic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// get calls endpoint and decodes the envelope, turning failed statuses into
// *StatusError and failed envelopes into *APIError.
func (c *Client) get(ctx context.Context, endpoint string, extra url.Values) (*SubsonicResponse, error) {
	params := c.buildParams(extra)
	requestUrl := fmt.Sprintf("%s/rest/%s?%s", c.BaseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var subsonicResp SubsonicResponse
	if err := json.Unmarshal(body, &subsonicResp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	if subsonicResp.Response.Status != "ok" {
		apiErr := &APIError{Message: "unknown error"}
		if e := subsonicResp.Response.Error; e != nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Message
		}
		return nil, apiErr
	}

	return &subsonicResp, nil
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "ping", nil)
	return err
}
