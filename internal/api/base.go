package api

import "time"

// DefaultBaseURL is the API root served by the UniBot web proxy.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout bounds every request so a hung server resolves to a
// connectivity failure instead of waiting forever.
const DefaultTimeout = 15 * time.Second

// NewDefaultClient builds a client pointed at the default UniBot API URL.
func NewDefaultClient(timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, timeout...)
}
