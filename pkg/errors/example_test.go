package errors_test

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeValidation, "missing required parameter(s): site_id").
		WithDetail("entity", "workbooks").
		WithDetail("missing", []string{"site_id"})

	fmt.Println(err.Error())

	// Output:
	// validation: missing required parameter(s): site_id
}

// ExampleWrap shows how to wrap transport errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeConnection, "request to copper failed").
		WithDetail("entity", "leads")

	if errors.IsType(err, errors.ErrorTypeConnection) {
		fmt.Println("connection error")
	}
	fmt.Println(errors.IsRetryable(err))

	// Output:
	// connection error
	// true
}

// ExampleFromHTTPStatus shows how vendor responses are classified.
func ExampleFromHTTPStatus() {
	for _, code := range []int{
		http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusUnauthorized,
		http.StatusNotFound,
		http.StatusConflict,
	} {
		err := errors.FromHTTPStatus(code, "vendor call failed")
		fmt.Printf("%d %s retryable=%v\n", errors.StatusCode(err), err.Type, errors.IsRetryable(err))
	}

	// Output:
	// 429 rate_limit retryable=true
	// 502 connection retryable=true
	// 401 authentication retryable=false
	// 404 not_found retryable=false
	// 409 query retryable=false
}
