package headers

import (
	"net/http"
)

// CORS returns a copy of h with the CORS response headers for a request
// whose headers are in. The incoming Origin is reflected as-is. For a
// preflight the requested method and headers are granted verbatim and
// X-Content-Type-Options is removed.
func CORS(h http.Header, preflight bool, in http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		out = make(http.Header)
	}

	out.Set(AllowOrigin, valueOrNull(in, Origin))

	if preflight {
		out.Set(AllowMethods, valueOrNull(in, RequestMethod))
		if requested, ok := Value(in, RequestHeaders); ok && requested != "" {
			out.Set(AllowHeaders, requested)
		}
		out.Del(ContentTypeOptions)
	}
	return out
}

func valueOrNull(h http.Header, name string) string {
	if v, ok := Value(h, name); ok {
		return v
	}
	return nullValue
}
