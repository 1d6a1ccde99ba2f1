package headers

import (
	"bytes"
	"encoding/json"

	"golang.org/x/net/http/httpguts"
)

// Overlay is a caller-supplied set of headers applied on top of the
// forwarded request headers.
type Overlay map[string]string

// ParseOverlay decodes the JSON object carried in the overlay header.
// Malformed JSON, or JSON that is not an object, yields no overlay.
// Non-string values are kept as their JSON text, and entries that are not
// valid HTTP header fields are dropped.
func ParseOverlay(raw string, present bool) (Overlay, bool) {
	if !present {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return nil, false
	}

	o := make(Overlay, len(fields))
	for name, rawVal := range fields {
		rawVal = bytes.TrimSpace(rawVal)
		val := string(rawVal)
		if len(rawVal) > 0 && rawVal[0] == '"' {
			if err := json.Unmarshal(rawVal, &val); err != nil {
				continue
			}
		}
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(val) {
			continue
		}
		o[name] = val
	}
	return o, true
}

// String renders the overlay as a JSON object.
func (o Overlay) String() string {
	b, err := json.Marshal(map[string]string(o))
	if err != nil {
		return "{}"
	}
	return string(b)
}
