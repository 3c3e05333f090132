// Package urlx resolves server-relative media and avatar paths against the
// API base URL.
package urlx

import "strings"

// Join glues base and path with exactly one slash between them, regardless
// of trailing/leading slashes on either operand. An already-absolute path
// (http/https) is returned unchanged; an empty path yields "".
func Join(base, path string) string {
	if path == "" {
		return ""
	}
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
