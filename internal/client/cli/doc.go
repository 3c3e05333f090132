// Package cli provides the interactive Uni Yatwon command-line client.
//
// It wires configuration, the local session store, the HTTP API client, and
// an interactive REPL. Typical flow: restore the saved session (or prompt
// for credentials), then browse the feed and run user commands.
//
// Key features:
//   - Login / Signup / Logout with a persisted session
//   - Feed browsing by category, optimistic like/save toggles
//   - Comments and replies, like lists, search with history
//   - Notifications, profiles, following, profile editing
//   - Admin-only posting of announcements and push broadcasts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
