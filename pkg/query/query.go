// Package query encodes ordered key/value pairs into URL query strings and
// decodes callback URLs back into single-valued parameters.
package query

import (
	"net/url"
	"strings"
)

// Pair is a single query parameter
type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered list of query parameters. Order is part of the wire
// contract and is never sorted.
type Pairs []Pair

// Add appends a pair and returns the extended list
func (p Pairs) Add(key, value string) Pairs {
	return append(p, Pair{Key: key, Value: value})
}

// String returns the encoded query string
func (p Pairs) String() string {
	return Encode(p)
}

// Encode joins key=Escape(value) with "&", preserving input order.
// Keys are emitted verbatim.
func Encode(pairs Pairs) string {
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(pair.Key)
		b.WriteByte('=')
		b.WriteString(Escape(pair.Value))
	}
	return b.String()
}

// Escape percent-encodes everything except RFC 3986 unreserved characters.
// Space becomes %20 so that '+' in decoded values is never ambiguous.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Decode extracts the query parameters of a URL or of a bare query string.
// The last value wins for duplicate keys and malformed pairs are skipped.
func Decode(rawURL string) map[string]string {
	values := make(map[string]string)

	rawQuery := rawURL
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawQuery = rawURL[i+1:]
	} else if strings.Contains(rawURL, "://") {
		return values
	}
	if i := strings.IndexByte(rawQuery, '#'); i >= 0 {
		rawQuery = rawQuery[:i]
	}

	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(key)
		if err != nil || key == "" {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		values[key] = value
	}

	return values
}
