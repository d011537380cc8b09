package repo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidConversationID = errors.New("invalid conversation ID: cannot be empty")
	ErrInvalidUserID         = errors.New("invalid user ID: cannot be empty")

	// ErrDuplicate surfaces a unique-index violation: a concurrent writer
	// already inserted the document.
	ErrDuplicate = errors.New("duplicate document")
)

const (
	// Timeouts
	defaultWriteTimeout = 5 * time.Second
	defaultReadTimeout  = 10 * time.Second

	// Collections touched by the message-send transaction and the index
	// bootstrap; the rest are bound where the generic repositories are
	// constructed.
	collConversations = "conversations"
	collMessages      = "messages"
	collUnread        = "unread"
	collReactions     = "reactions"
)

// ensureTimeout caps an operation's context when the caller did not bring
// its own deadline.
func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hadDeadline := ctx.Deadline(); hadDeadline {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
