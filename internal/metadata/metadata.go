// Package metadata holds the ordered field list returned for a file and the
// Fetcher that obtains it from an extraction session.
package metadata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Entry is one metadata field as reported by the extraction tool.
// Key is a colon-delimited tag name such as "EXIF:Make".
type Entry struct {
	Key   string
	Value any
}

// Metadata is the list of fields for one file, in the order the
// extraction tool emitted them.
type Metadata []Entry

// Get returns the value stored under key and whether it was present.
func (m Metadata) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in order.
func (m Metadata) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Filter returns the entries whose key contains substr. Matching is
// case-sensitive and order is preserved. An empty substr keeps everything.
func (m Metadata) Filter(substr string) Metadata {
	if substr == "" {
		return m
	}
	out := make(Metadata, 0, len(m))
	for _, e := range m {
		if strings.Contains(e.Key, substr) {
			out = append(out, e)
		}
	}
	return out
}

// Object is a nested JSON object that keeps its key order. It only shows up
// for structured tags.
type Object []Entry

// FormatValue renders a field value as display text.
func FormatValue(v any) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
	case string:
		b.WriteString(val)
	case json.Number:
		b.WriteString(val.String())
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case []any:
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, e := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Key)
			b.WriteString(": ")
			writeValue(b, e.Value)
		}
		b.WriteByte('}')
	default:
		fmt.Fprint(b, val)
	}
}
