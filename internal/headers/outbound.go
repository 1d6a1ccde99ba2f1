package headers

import (
	"net/http"
	"strings"
)

// blocked reports whether an incoming header must not reach the upstream.
// It drops the caller's origin and referrer, edge-infrastructure headers,
// forwarding chains and the overlay carrier itself.
func blocked(name string) bool {
	n := strings.ToLower(name)
	return strings.HasPrefix(n, "origin") ||
		strings.Contains(n, "eferer") ||
		strings.HasPrefix(n, "cf-") ||
		strings.HasPrefix(n, "x-forw") ||
		n == strings.ToLower(OverlayHeader)
}

// Outbound builds the header set sent upstream: in minus blocked and
// hop-by-hop headers, with overlay entries set last.
func Outbound(in http.Header, overlay Overlay) http.Header {
	src := RemoveHopByHop(in)
	dst := make(http.Header, len(src)+len(overlay))
	for key, vals := range src {
		if blocked(key) {
			continue
		}
		dst[key] = append([]string(nil), vals...)
	}
	for name, val := range overlay {
		dst.Set(name, val)
	}
	return dst
}
