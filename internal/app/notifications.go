package app

import (
	"slices"

	"nutiai.com/nutiai-server/internal/models"
)

// notify queues a notification; listeners get it once the lock is released.
func (c *Controller) notify(kind models.NotificationType, title, message string) models.Notification {
	n := models.Notification{
		ID:        c.opts.NewID(),
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: c.opts.Now(),
	}
	c.pruneExpired()
	c.notifications = append(c.notifications, n)
	c.pending = append(c.pending, n)
	return n
}

// Notify raises a notification from outside the controller, such as a
// failed generation.
func (c *Controller) Notify(kind models.NotificationType, title, message string) models.Notification {
	c.mu.Lock()
	defer c.unlock()
	return c.notify(kind, title, message)
}

// Notifications returns the live notifications, oldest first. Expired ones
// are dropped.
func (c *Controller) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneExpired()
	return slices.Clone(c.notifications)
}

func (c *Controller) pruneExpired() {
	now := c.opts.Now()
	c.notifications = slices.DeleteFunc(c.notifications, func(n models.Notification) bool {
		return now.Sub(n.CreatedAt) >= c.opts.NotificationTTL
	})
}

// Dismiss removes a notification before it expires.
func (c *Controller) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.notifications)
	c.notifications = slices.DeleteFunc(c.notifications, func(n models.Notification) bool { return n.ID == id })
	return len(c.notifications) < before
}

// Subscribe registers fn for every new notification. The returned func
// unregisters it. fn runs outside the controller lock.
func (c *Controller) Subscribe(fn func(models.Notification)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}
