// Package chatserver implements the multi-session TCP chat server: the
// listener, one handler goroutine per connection, the session registry,
// the per-session history store and the in-process admin console. Reply
// generation lives behind the Replier interface; this package owns no
// model or routing logic.
package chatserver

import "context"

// History entry roles. These are the only two roles the store accepts;
// anything else is rejected at the boundary.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one message in a session's conversation log.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Replier computes the assistant text for one message given the session's
// history so far. Implementations may call remote services; the handler
// treats any returned error as recoverable and the session stays open.
type Replier interface {
	Reply(ctx context.Context, history []Entry, message string) (string, error)
}

// ReplierFunc adapts a plain function to the Replier interface.
type ReplierFunc func(ctx context.Context, history []Entry, message string) (string, error)

func (f ReplierFunc) Reply(ctx context.Context, history []Entry, message string) (string, error) {
	return f(ctx, history, message)
}
