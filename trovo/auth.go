// Package trovo connects to Trovo chat: open platform authorization, chat token and the chat websocket.
package trovo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// DefaultAPIURL open platform REST base
	DefaultAPIURL = "https://open-api.trovo.live"
	// AuthorizeURL login page the user approves the application on
	AuthorizeURL = "https://open.trovo.live/page/login.html"
)

// Scopes requested by AuthCodeURL
var Scopes = []string{"chat_connect", "send_to_my_channel", "chat_send_self", "manage_messages"}

var (
	// ErrAuthorizationRequired returned by Auth.Token when no token is stored, run the authorization flow first
	ErrAuthorizationRequired = errors.New("trovo: authorization required")

	// ErrMissingCode returned by ExtractCode when the redirect URL carries no code
	ErrMissingCode = errors.New("trovo: redirect url has no code")
)

// APIError a non-2xx answer of the open platform
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trovo %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Auth runs the open platform authorization code flow and keeps the token fresh
type Auth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// BaseURL of the REST API, DefaultAPIURL when empty
	BaseURL    string
	HTTPClient *http.Client
	Store      *TokenStore

	// ExpiryDelta refreshes tokens this long before they expire
	ExpiryDelta time.Duration

	now func() time.Time
}

// NewAuth returns an Auth for the application credentials
func NewAuth(clientID, clientSecret, redirectURL string, store *TokenStore) *Auth {
	return &Auth{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Store:        store,
		ExpiryDelta:  time.Minute,
	}
}

func (a *Auth) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		RedirectURL:  a.RedirectURL,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthorizeURL,
			TokenURL: a.baseURL() + "/openplatform/exchangetoken",
		},
	}
}

// NewState returns a random state value for AuthCodeURL
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL returns the page the user has to open to authorize the application
func (a *Auth) AuthCodeURL(state string) string {
	return a.config().AuthCodeURL(state)
}

// ExtractCode returns the code query parameter of the URL the login page redirected to
func ExtractCode(redirectURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(redirectURL))
	if err != nil {
		return "", fmt.Errorf("trovo: parse redirect url: %w", err)
	}

	code := u.Query().Get("code")
	if code == "" {
		return "", ErrMissingCode
	}

	return code, nil
}

// Exchange trades an authorization code for a token and stores it
func (a *Auth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.requestToken(ctx, "/openplatform/exchangetoken", map[string]string{
		"client_secret": a.ClientSecret,
		"grant_type":    "authorization_code",
		"code":          code,
		"redirect_uri":  a.RedirectURL,
	})
}

// Refresh trades a refresh token for a new token and stores it
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return a.requestToken(ctx, "/openplatform/refreshtoken", map[string]string{
		"client_secret": a.ClientSecret,
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

// Token returns the stored token, refreshed when it is about to expire
func (a *Auth) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := a.Store.Load()
	if errors.Is(err, ErrNoToken) {
		return nil, ErrAuthorizationRequired
	}
	if err != nil {
		return nil, err
	}

	if token.Expiry.IsZero() || a.clock().Add(a.ExpiryDelta).Before(token.Expiry) {
		return token, nil
	}

	if token.RefreshToken == "" {
		return nil, ErrAuthorizationRequired
	}

	return a.Refresh(ctx, token.RefreshToken)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

func (a *Auth) requestToken(ctx context.Context, endpoint string, body map[string]string) (*oauth2.Token, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL()+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("client-id", a.ClientID)

	issued := a.clock()

	var response tokenResponse
	if err := doJSON(a.HTTPClient, req, endpoint, &response); err != nil {
		return nil, err
	}
	if response.AccessToken == "" {
		return nil, fmt.Errorf("trovo %s: empty access token", endpoint)
	}

	token := &oauth2.Token{
		AccessToken:  response.AccessToken,
		TokenType:    response.TokenType,
		RefreshToken: response.RefreshToken,
	}
	if response.ExpiresIn > 0 {
		token.Expiry = issued.Add(time.Duration(response.ExpiresIn) * time.Second)
	}

	if a.Store != nil {
		if err := a.Store.Save(token); err != nil {
			return nil, err
		}
	}

	return token, nil
}

func (a *Auth) baseURL() string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	return DefaultAPIURL
}

func (a *Auth) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func doJSON(client *http.Client, req *http.Request, endpoint string, v any) error {
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("trovo %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{Endpoint: endpoint, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("trovo %s: decode response: %w", endpoint, err)
	}

	return nil
}
