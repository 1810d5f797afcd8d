package events

import (
	"context"
	"fmt"
	"sync"
)

// MemoryPublisher buffers messages per subject in channels. It is used in
// development and tests, where Next reads back what was published.
type MemoryPublisher struct {
	channels map[string]chan []byte
	capacity int
	closed   bool
	mu       sync.Mutex
}

// NewMemoryPublisher creates an in-memory publisher holding up to capacity
// messages per subject
func NewMemoryPublisher(capacity int) *MemoryPublisher {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryPublisher{
		channels: make(map[string]chan []byte),
		capacity: capacity,
	}
}

func (p *MemoryPublisher) channel(subject string) (chan []byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("publisher closed")
	}
	ch, ok := p.channels[subject]
	if !ok {
		ch = make(chan []byte, p.capacity)
		p.channels[subject] = ch
	}
	return ch, nil
}

// Publish copies data into the subject's buffer; it fails when the buffer is full
func (p *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	ch, err := p.channel(subject)
	if err != nil {
		return err
	}

	msg := make([]byte, len(data))
	copy(msg, data)

	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// Next blocks until a message is available on subject or ctx is done
func (p *MemoryPublisher) Next(ctx context.Context, subject string) ([]byte, error) {
	ch, err := p.channel(subject)
	if err != nil {
		return nil, err
	}

	select {
	case msg := <-ch:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns the number of buffered messages for a subject
func (p *MemoryPublisher) Pending(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ch, ok := p.channels[subject]; ok {
		return len(ch)
	}
	return 0
}

// Close drops all buffered messages
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.channels = make(map[string]chan []byte)
	return nil
}
