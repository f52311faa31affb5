package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flakyServer(t *testing.T, failures int32) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ord_1"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSendRetriesGet(t *testing.T) {
	srv, calls := flakyServer(t, 1)

	resp, err := NewDefaultClient().Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"ord_1"}`, string(resp.Body))
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestSendRetriesIdempotentPost(t *testing.T) {
	srv, calls := flakyServer(t, 1)

	_, err := NewDefaultClient().Send(context.Background(), &Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{HeaderIdempotency: "key-1"},
		Body:    []byte(`{"amount":"10.00"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestSendDoesNotRetryPlainPost(t *testing.T) {
	srv, calls := flakyServer(t, 1)

	_, err := NewDefaultClient().Send(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Body:   []byte(`{}`),
	})
	require.Error(t, err)

	httpErr, ok := IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
