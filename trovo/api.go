package trovo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// API calls the open platform REST endpoints on behalf of a user
type API struct {
	ClientID   string
	BaseURL    string
	HTTPClient *http.Client
}

// NewAPI returns an API for the application client id
func NewAPI(clientID string) *API {
	return &API{ClientID: clientID}
}

// ChatToken returns the token that authenticates the chat websocket
func (a *API) ChatToken(ctx context.Context, accessToken string) (string, error) {
	const endpoint = "/openplatform/chat/token"

	base := DefaultAPIURL
	if a.BaseURL != "" {
		base = strings.TrimRight(a.BaseURL, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Client-ID", a.ClientID)
	req.Header.Set("Authorization", "OAuth "+accessToken)

	var response struct {
		Token string `json:"token"`
	}
	if err := doJSON(a.HTTPClient, req, endpoint, &response); err != nil {
		return "", err
	}
	if response.Token == "" {
		return "", fmt.Errorf("trovo %s: empty chat token", endpoint)
	}

	return response.Token, nil
}
