package httpx

import "net/http"

// Response is a response received from the remote service, regardless of its
// status code.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is in the 2xx range.
func (r *Response) Success() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode <= 299
}
