package clients

import (
	"context"
	"net/http"
)

// Authenticator decorates an outgoing request with vendor credentials
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// AuthenticatorFunc adapts a function to Authenticator
type AuthenticatorFunc func(ctx context.Context, req *http.Request) error

// Authenticate calls f
func (f AuthenticatorFunc) Authenticate(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}

// HeaderAuth sets fixed headers, e.g. API keys
type HeaderAuth map[string]string

// Authenticate implements Authenticator
func (h HeaderAuth) Authenticate(_ context.Context, req *http.Request) error {
	for k, v := range h {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return nil
}

// BearerAuth sets "Authorization: Bearer <token>"
type BearerAuth string

// Authenticate implements Authenticator
func (b BearerAuth) Authenticate(_ context.Context, req *http.Request) error {
	if b != "" {
		req.Header.Set("Authorization", "Bearer "+string(b))
	}
	return nil
}

// BasicAuth sets HTTP basic credentials
type BasicAuth struct {
	Username string
	Password string
}

// Authenticate implements Authenticator
func (b BasicAuth) Authenticate(_ context.Context, req *http.Request) error {
	if b.Username != "" {
		req.SetBasicAuth(b.Username, b.Password)
	}
	return nil
}

// QueryAuth adds a credential as a query parameter
type QueryAuth struct {
	Param string
	Value string
}

// Authenticate implements Authenticator
func (q QueryAuth) Authenticate(_ context.Context, req *http.Request) error {
	if q.Value == "" {
		return nil
	}
	values := req.URL.Query()
	values.Set(q.Param, q.Value)
	req.URL.RawQuery = values.Encode()
	return nil
}

// ChainAuth applies several authenticators in order
type ChainAuth []Authenticator

// Authenticate implements Authenticator
func (c ChainAuth) Authenticate(ctx context.Context, req *http.Request) error {
	for _, a := range c {
		if a == nil {
			continue
		}
		if err := a.Authenticate(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
