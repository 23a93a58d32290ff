package webclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUnsubscribe(t *testing.T) {
	ts := newBackend(t, map[string]string{})
	client := NewClient(ts.URL+"/", nil)
	ctx := context.Background()

	_, err := client.Subscribe(ctx, "Reader+blog@example.com")
	require.NoError(t, err)
	require.NoError(t, client.Unsubscribe(ctx, "reader+blog@example.com"))

	err = client.Unsubscribe(ctx, "reader+blog@example.com")
	require.NoError(t, err, "unsubscribing twice finds the inactive record")

	err = client.Unsubscribe(ctx, "nobody@example.com")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Email not found", apiErr.Message)
}

func TestClientErrorWithoutJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.Client())
	client.SetToken("tok")

	_, err := client.ListPosts(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
