// Package models defines the normalized client-side entities and the mapping
// from the server's heterogeneous payload shapes into them.
package models

// DefaultAvatar is the placeholder avatar reference used whenever the server
// omits a profile photo.
const DefaultAvatar = "default.png"

// Session is the authenticated identity. A non-nil session always carries a
// non-empty token and user id; anything else is treated as signed-out.
type Session struct {
	Token   string
	UserID  string
	Name    string
	IsAdmin bool
	Avatar  string
}

// Valid reports whether the session satisfies the session invariant.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.UserID != ""
}
