package trovo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/openplatform/chat/token", r.URL.Path)
		assert.Equal(t, "client", r.Header.Get("Client-ID"))
		assert.Equal(t, "OAuth access", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"token":"chat-token"}`))
	}))
	defer srv.Close()

	api := NewAPI("client")
	api.BaseURL = srv.URL

	token, err := api.ChatToken(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, "chat-token", token)
}

func TestChatTokenUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	api := NewAPI("client")
	api.BaseURL = srv.URL

	_, err := api.ChatToken(context.Background(), "expired")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestChatTokenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	api := NewAPI("client")
	api.BaseURL = srv.URL

	_, err := api.ChatToken(context.Background(), "access")
	assert.Error(t, err)
}
