package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryCenter keeps messages in process memory. Each message schedules its
// own removal.
type MemoryCenter struct {
	mu       sync.Mutex
	messages map[string][]Message
	now      func() time.Time
	after    func(time.Duration, func()) *time.Timer
}

// NewMemoryCenter returns an empty MemoryCenter.
func NewMemoryCenter() *MemoryCenter {
	return &MemoryCenter{
		messages: make(map[string][]Message),
		now:      time.Now,
		after:    time.AfterFunc,
	}
}

// Push appends a message and schedules its removal after Lifetime.
func (c *MemoryCenter) Push(_ context.Context, key string, severity Severity, text string) (Message, error) {
	msg := newMessage(c.now(), severity, text)
	c.mu.Lock()
	c.messages[key] = append(c.messages[key], msg)
	c.mu.Unlock()
	c.after(Lifetime, func() { c.remove(key, msg.ID) })
	return msg, nil
}

// Active returns the messages still visible for key.
func (c *MemoryCenter) Active(_ context.Context, key string) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages[key]...), nil
}

func (c *MemoryCenter) remove(key, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.messages[key]
	for i, msg := range list {
		if msg.ID == id {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(c.messages, key)
		return
	}
	c.messages[key] = list
}
