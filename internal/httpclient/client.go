package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client sends a request and returns the response, or an *Error for non-2xx answers
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetryMax   = 2
	HeaderIdempotency = "Idempotency-Key"
)

type DefaultClient struct {
	client    *http.Client
	retrying  *http.Client
	userAgent string
}

func NewDefaultClient() Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = DefaultRetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = DefaultTimeout
	rc.Logger = nil
	// hand the last response back instead of a "giving up" error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &DefaultClient{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		retrying:  rc.StandardClient(),
		userAgent: "mollie-gateway/1.0",
	}
}

// isRetryable reports whether sending req twice cannot book anything twice
func isRetryable(req *Request) bool {
	if req.Method == http.MethodGet {
		return true
	}
	return req.Headers[HeaderIdempotency] != ""
}

func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not build the outgoing request").
			Mark(ierr.ErrHTTPClient)
	}

	if req.Body != nil {
		httpReq.ContentLength = int64(len(req.Body))
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if requestID := types.GetRequestID(ctx); requestID != "" {
		httpReq.Header.Set(types.HeaderRequestID, requestID)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	client := c.client
	if isRetryable(req) {
		client = c.retrying
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The remote service could not be reached").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not read the remote response").
			Mark(ierr.ErrHTTPClient)
	}

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	if resp.StatusCode >= 400 {
		return nil, NewError(req, resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}
