package app

import (
	"slices"

	"nutiai.com/nutiai-server/internal/models"
)

// ChatHistory is the conversation so far. It lives only in memory.
func (c *Controller) ChatHistory() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.chat)
}

// AppendChat records one exchange, keeping at most ChatLimit messages.
func (c *Controller) AppendChat(msgs ...models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chat = append(c.chat, msgs...)
	if over := len(c.chat) - c.opts.ChatLimit; over > 0 {
		c.chat = slices.Delete(c.chat, 0, over)
	}
}

func (c *Controller) ResetChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chat = nil
}
