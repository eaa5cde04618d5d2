package contract

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL substitutes :name tokens in path with the matching params. Only
// whole tokens are replaced, so a :id param never touches an :idx token.
// Tokens without a param are left as they are.
func BuildURL(path string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(path, ":") {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); {
		if path[i] != ':' {
			b.WriteByte(path[i])
			i++
			continue
		}
		end := i + 1
		for end < len(path) && isTokenByte(path[end]) {
			end++
		}
		key := path[i+1 : end]
		if value, ok := params[key]; ok && key != "" {
			b.WriteString(url.PathEscape(fmt.Sprint(value)))
		} else {
			b.WriteString(path[i:end])
		}
		i = end
	}
	return b.String()
}

// WithQuery appends the non-empty values of query to u.
func WithQuery(u string, query url.Values) string {
	clean := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				clean.Add(key, v)
			}
		}
	}
	if len(clean) == 0 {
		return u
	}
	return u + "?" + clean.Encode()
}

func isTokenByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
