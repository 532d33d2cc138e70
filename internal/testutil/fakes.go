package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"consciousbet/internal/events"
)

// MemoryCache is a JSON cache held in a map
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Deleted []string // Every key passed to Delete, in order
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string][]byte{}}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *MemoryCache) Set(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.Deleted = append(c.Deleted, k)
	}
	return nil
}

// Has reports whether key is cached
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// RecordingPublisher keeps every published event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.BetEvent
	Err    error // Returned from Publish when set
}

func (p *RecordingPublisher) Publish(_ context.Context, e events.BetEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of what was published
func (p *RecordingPublisher) Events() []events.BetEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.BetEvent(nil), p.events...)
}

// Types returns the type of every published event, in order
func (p *RecordingPublisher) Types() []string {
	var types []string
	for _, e := range p.Events() {
		types = append(types, e.Type)
	}
	return types
}
