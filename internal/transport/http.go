package transport

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/http2"
)

// DefaultHTTPClient returns a client that negotiates HTTP/2 over TLS and
// falls back to HTTP/1.1 otherwise.
func DefaultHTTPClient() *http.Client {
	tr := &http.Transport{}
	_ = http2.ConfigureTransport(tr)
	return &http.Client{Transport: tr}
}

type HTTPTransferOption func(*HTTPTransfer)

func HTTPWithClient(c *http.Client) HTTPTransferOption {
	return func(t *HTTPTransfer) {
		t.client = c
	}
}

type HTTPTransfer struct {
	client *http.Client
}

func DefaultHTTPTransfer() *HTTPTransfer {
	return &HTTPTransfer{
		client: DefaultHTTPClient(),
	}
}

func NewHTTPTransfer(opts ...HTTPTransferOption) *HTTPTransfer {
	ht := DefaultHTTPTransfer()

	for _, opt := range opts {
		opt(ht)
	}

	return ht
}

type HTTPRequestOption func(*http.Request)

func HTTPRequestHeaders(h map[string]string) HTTPRequestOption {
	return func(req *http.Request) {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
}

type HTTPResponseCallback func(*http.Response) error

func (ht *HTTPTransfer) Do(
	ctx context.Context,
	method, url string,
	respCb HTTPResponseCallback,
	reqOpts ...HTTPRequestOption,
) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}

	for _, opt := range reqOpts {
		opt(req)
	}

	resp, err := ht.client.Do(req)
	if err != nil {
		return err
	}

	return respCb(resp)
}

func (ht *HTTPTransfer) Get(ctx context.Context, url string, respCb HTTPResponseCallback, reqOpts ...HTTPRequestOption) error {
	return ht.Do(ctx, http.MethodGet, url, respCb, reqOpts...)
}

func (ht *HTTPTransfer) Head(ctx context.Context, url string, respCb HTTPResponseCallback, reqOpts ...HTTPRequestOption) error {
	return ht.Do(ctx, http.MethodHead, url, respCb, reqOpts...)
}

// StatusError reports a non-success HTTP response status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}
