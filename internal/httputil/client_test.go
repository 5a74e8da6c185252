package httputil

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", "https://api.example.test/search",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"query":"rolex"}`, string(body))

			return httpmock.NewStringResponse(200, `{"ok":true}`), nil
		})

	client := NewHTTPClient(transport)
	var out struct {
		OK bool `json:"ok"`
	}
	err := PostJSON(context.Background(), client, "https://api.example.test/search", "secret",
		map[string]string{"query": "rolex"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestPostJSONNon2xx(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", "https://api.example.test/search",
		httpmock.NewStringResponder(429, `{"error":"rate limited"}`))

	client := NewHTTPClient(transport)
	err := PostJSON(context.Background(), client, "https://api.example.test/search", "", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestReadBodyGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"compressed":true}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	resp := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"gzip"}},
		Body:   io.NopCloser(&buf),
	}
	raw, err := ReadBody(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"compressed":true}`, string(raw))
}

func TestReadBodyBrotli(t *testing.T) {
	var buf bytes.Buffer
	br := brotli.NewWriter(&buf)
	_, err := br.Write([]byte(`{"compressed":"br"}`))
	require.NoError(t, err)
	require.NoError(t, br.Close())

	resp := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"br"}},
		Body:   io.NopCloser(&buf),
	}
	raw, err := ReadBody(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"compressed":"br"}`, string(raw))
}

func TestReadBodyPlain(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{},
		Body:   io.NopCloser(bytes.NewReader([]byte("plain"))),
	}
	raw, err := ReadBody(resp)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(raw))
}
