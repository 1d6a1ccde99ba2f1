// Package headers builds the outbound request headers and the CORS response
// headers of the proxy. Every function returns a fresh http.Header and leaves
// its inputs untouched.
package headers

import (
	"net/http"
	"sort"
	"strings"
)

// Header names used by the proxy.
const (
	Origin        = "Origin"
	OverlayHeader = "X-Cors-Headers"
	ReceivedName  = "cors-received-headers"

	RequestMethod  = "Access-Control-Request-Method"
	RequestHeaders = "Access-Control-Request-Headers"

	AllowOrigin   = "Access-Control-Allow-Origin"
	AllowMethods  = "Access-Control-Allow-Methods"
	AllowHeaders  = "Access-Control-Allow-Headers"
	ExposeHeaders = "Access-Control-Expose-Headers"

	ContentTypeOptions = "X-Content-Type-Options"
)

// nullValue is written where the matching request header is missing.
const nullValue = "null"

// hopByHop are headers that should not be forwarded by proxies.
var hopByHop = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Value returns all values of name joined with ", " and whether the header was present.
func Value(h http.Header, name string) (string, bool) {
	vals := h.Values(name)
	if len(vals) == 0 {
		return "", false
	}
	return strings.Join(vals, ", "), true
}

// RemoveHopByHop returns a copy of src without hop-by-hop headers,
// including any header named in a Connection value.
func RemoveHopByHop(src http.Header) http.Header {
	dst := src.Clone()
	if dst == nil {
		return make(http.Header)
	}
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				dst.Del(name)
			}
		}
	}
	for _, name := range hopByHop {
		dst.Del(name)
	}
	return dst
}

// Received snapshots an upstream header set: the sorted lowercase names and
// a name-to-value map with repeated values joined by ", ".
func Received(h http.Header) ([]string, map[string]string) {
	all := make(map[string]string, len(h))
	for key, vals := range h {
		name := strings.ToLower(key)
		if prev, ok := all[name]; ok {
			all[name] = prev + ", " + strings.Join(vals, ", ")
			continue
		}
		all[name] = strings.Join(vals, ", ")
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, all
}
