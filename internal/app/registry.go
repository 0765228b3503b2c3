package app

import (
	"sync"

	"nutiai.com/nutiai-server/internal/store"
)

// Namespacer hands out one isolated KV per user.
type Namespacer interface {
	Namespace(ns string) store.KV
}

// NamespaceFunc adapts a function to Namespacer.
type NamespaceFunc func(ns string) store.KV

func (f NamespaceFunc) Namespace(ns string) store.KV { return f(ns) }

// Registry keeps one controller per user, created on first use.
type Registry struct {
	mu          sync.Mutex
	kv          Namespacer
	opts        Options
	controllers map[string]*Controller
}

func NewRegistry(kv Namespacer, opts Options) *Registry {
	return &Registry{
		kv:          kv,
		opts:        opts.withDefaults(),
		controllers: make(map[string]*Controller),
	}
}

func (r *Registry) Get(userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[userID]; ok {
		return c
	}
	opts := r.opts
	opts.Logger = r.opts.Logger.With("user", userID)
	c := New(store.NewSlots(r.kv.Namespace(userID), opts.Logger), opts)
	r.controllers[userID] = c
	return c
}
