package httpx

import "net/http"

// Client is the outbound HTTP surface used by infra clients. It mirrors the
// net/http client shape so tests can swap in a mock.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
