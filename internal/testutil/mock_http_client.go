package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/shopbridge/mollie-gateway/internal/httpclient"
)

// MockHTTPClient answers requests from registered routes and records what was sent
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   map[string]MockResponse
	requests []*httpclient.Request
}

type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
	}
}

// RegisterResponse registers a response for "METHOD /path" or for a bare path suffix
func (m *MockHTTPClient) RegisterResponse(route string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route] = resp
}

func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	path := req.URL
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}

	var matched MockResponse
	var found bool
	for route, resp := range m.routes {
		method, suffix, hasMethod := strings.Cut(route, " ")
		if !hasMethod {
			suffix = route
		} else if method != req.Method {
			continue
		}
		if strings.HasSuffix(path, suffix) {
			matched = resp
			found = true
			break
		}
	}

	if !found {
		return nil, httpclient.NewError(req, http.StatusNotFound, []byte(`{"status":404,"title":"Not Found","detail":"No route registered"}`))
	}
	if matched.StatusCode >= 400 {
		return nil, httpclient.NewError(req, matched.StatusCode, matched.Body)
	}

	return &httpclient.Response{
		StatusCode: matched.StatusCode,
		Body:       matched.Body,
		Headers:    matched.Headers,
	}, nil
}

// Requests returns the requests sent so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*httpclient.Request(nil), m.requests...)
}

func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.requests = nil
}
