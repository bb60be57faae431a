package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const refreshPath = "/api/token/refresh"

// APIClient implements Client against the native auth backend's JSON
// API. The backend responds with absolute expiration dates for both
// tokens.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the auth backend at baseURL. The
// timeout bounds the whole refresh round trip; a timed-out call is
// indistinguishable from any other backend failure to callers.
func NewAPIClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	if baseURL == "" {
		return nil, errors.New("[authclient NewAPIClient] base URL is required")
	}
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshErrorResponse struct {
	Error string `json:"error"`
}

// Refresh exchanges refreshToken for a new token pair. Any non-200
// response, including a rejection of an already-rotated token, is an
// error.
func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, errors.Wrap(err, "[APIClient Refresh] marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "[APIClient Refresh] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[APIClient Refresh] call auth backend")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp refreshErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&errResp)
		if errResp.Error != "" {
			return nil, fmt.Errorf("[APIClient Refresh] auth backend status %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("[APIClient Refresh] auth backend status %d", resp.StatusCode)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, errors.Wrap(err, "[APIClient Refresh] decode response")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, errors.New("[APIClient Refresh] auth backend returned incomplete token pair")
	}

	return &pair, nil
}

var _ Client = (*APIClient)(nil)
