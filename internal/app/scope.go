package app

import (
	"context"
	"errors"
)

var (
	// ErrSuperseded cancels a request replaced by a newer one from the same owner.
	ErrSuperseded = errors.New("request superseded")
	ErrLoggedOut  = errors.New("user logged out")
)

type scope struct {
	token  uint64
	cancel context.CancelCauseFunc
}

// Scope derives a context for a request made on behalf of owner (a view,
// such as "planner" or "vision"). Starting a new scope for the same owner
// cancels the previous one with ErrSuperseded. release must be called
// when the request ends.
func (c *Controller) Scope(parent context.Context, owner string) (ctx context.Context, release func()) {
	ctx, cancel := context.WithCancelCause(parent)

	c.mu.Lock()
	if prev, ok := c.scopes[owner]; ok {
		prev.cancel(ErrSuperseded)
	}
	c.scopeSeq++
	token := c.scopeSeq
	c.scopes[owner] = scope{token: token, cancel: cancel}
	c.mu.Unlock()

	return ctx, func() {
		c.mu.Lock()
		if s, ok := c.scopes[owner]; ok && s.token == token {
			delete(c.scopes, owner)
		}
		c.mu.Unlock()
		cancel(nil)
	}
}

// cancelScopes must run with the lock held.
func (c *Controller) cancelScopes(cause error) {
	for owner, s := range c.scopes {
		s.cancel(cause)
		delete(c.scopes, owner)
	}
}
