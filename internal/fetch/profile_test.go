package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileServer(t *testing.T, body string, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestProfileFetcher_FetchProfile(t *testing.T) {
	server, _ := newProfileServer(t, `<html><body><section><h2>Jane Doe</h2><p>Partner since 2010.</p></section></body></html>`, http.StatusOK)

	fetcher := NewProfileFetcher(nil, ProfileFetcherConfig{RequestsPerSecond: 100})
	fragments, err := fetcher.FetchProfile(context.Background(), server.URL+"/team/jane", "Jane Doe")
	require.NoError(t, err)
	// The section and the heading carry different text.
	require.Len(t, fragments, 2)
	assert.Equal(t, "Jane Doe Partner since 2010.", fragments[0].Text)
	assert.Equal(t, "Jane Doe", fragments[1].Text)
}

func TestProfileFetcher_EmptyAnchorSkipsRequest(t *testing.T) {
	server, calls := newProfileServer(t, "<html></html>", http.StatusOK)

	fetcher := NewProfileFetcher(nil, ProfileFetcherConfig{})
	fragments, err := fetcher.FetchProfile(context.Background(), server.URL, "   ")
	require.NoError(t, err)
	assert.Nil(t, fragments)
	assert.Equal(t, 0, *calls)
}

func TestProfileFetcher_HTTPError(t *testing.T) {
	server, _ := newProfileServer(t, "gone", http.StatusNotFound)

	fetcher := NewProfileFetcher(nil, ProfileFetcherConfig{})
	fragments, err := fetcher.FetchProfile(context.Background(), server.URL, "Jane Doe")
	require.Error(t, err)
	assert.Nil(t, fragments)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestProfileFetcher_BrowserFallback(t *testing.T) {
	server, _ := newProfileServer(t, `<html><body><div id="root"></div></body></html>`, http.StatusOK)

	rendered := 0
	fetcher := NewProfileFetcher(nil, ProfileFetcherConfig{
		UseBrowser: true,
		Render: func(_ context.Context, _ string) (string, error) {
			rendered++
			return `<html><body><div id="root"><p>Jane Doe heads research.</p></div></body></html>`, nil
		},
	})

	fragments, err := fetcher.FetchProfile(context.Background(), server.URL, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, 1, rendered)
	require.Len(t, fragments, 1)
	assert.Equal(t, "Jane Doe heads research.", fragments[0].Text)
}

func TestProfileFetcher_BrowserFailureKeepsStaticHTML(t *testing.T) {
	server, _ := newProfileServer(t, `<html><body><p>Jane Doe</p></body></html>`, http.StatusOK)

	fetcher := NewProfileFetcher(nil, ProfileFetcherConfig{
		UseBrowser: true,
		Render: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("chrome not installed")
		},
	})

	fragments, err := fetcher.FetchProfile(context.Background(), server.URL, "Jane Doe")
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "Jane Doe", fragments[0].Text)
}

func TestProfileFetcher_CancelledContext(t *testing.T) {
	server, _ := newProfileServer(t, "<html></html>", http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewProfileFetcher(nil, ProfileFetcherConfig{RequestsPerSecond: 1})
	_, err := fetcher.FetchProfile(ctx, server.URL, "Jane Doe")
	require.Error(t, err)
}
