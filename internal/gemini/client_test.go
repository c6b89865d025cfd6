package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := New(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	return client, server
}

func TestCompleteSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"4"}]}}]}`))
	})
	defer server.Close()

	reply, err := client.Complete(context.Background(), "what is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "4", reply)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "what is 2+2?", gotReq.Contents[0].Parts[0].Text)
}

func TestCompleteUsesFirstCandidate(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[
			{"content":{"parts":[{"text":"first"}]}},
			{"content":{"parts":[{"text":"second"}]}}
		]}`))
	})
	defer server.Close()

	reply, err := client.Complete(context.Background(), "pick one")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)
}

func TestCompleteNoCandidates(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), "anyone?")
	assert.Error(t, err)
}

func TestCompleteEmptyText(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`))
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), "anyone?")
	assert.Error(t, err)
}

func TestCompleteHTTPError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), "anyone?")
	assert.Error(t, err)
}

func TestCompleteMalformedResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), "anyone?")
	assert.Error(t, err)
}

func TestCompleteNetworkError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // refuse the connection

	_, err := client.Complete(context.Background(), "anyone?")
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	c := New(Config{APIKey: "k"})
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.NotNil(t, c.http)
}
