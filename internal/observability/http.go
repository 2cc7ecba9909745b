package observability

import (
	"net"
	"net/http"
	"strings"
)

// Headers the edge proxy forwards with each request.
const (
	headerDeviceID     = "X-Device-Id"
	headerRequestID    = "X-Request-Id"
	headerForwardedFor = "X-Forwarded-For"
)

// DeviceIDFromRequest returns the caller's device id, if the edge supplied one.
func DeviceIDFromRequest(r *http.Request) string {
	return r.Header.Get(headerDeviceID)
}

// RequestIDFromRequest returns the edge-assigned request id, or "".
func RequestIDFromRequest(r *http.Request) string {
	return r.Header.Get(headerRequestID)
}

// IPFromRequest resolves the client address, preferring the first
// forwarded-for hop over the socket peer.
func IPFromRequest(r *http.Request) string {
	if forwarded := r.Header.Get(headerForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
