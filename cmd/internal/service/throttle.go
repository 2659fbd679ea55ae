package service

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/registry"
	"sync"

	"golang.org/x/time/rate"
)

// MessageSender is the relay contract the transport dispatches to.
type MessageSender interface {
	Send(sender registry.Conn, payload *contract.SendMessagePayload)
}

// ThrottledMessageService wraps the relay with a per-connection token
// bucket so one flooding client cannot monopolize the durable store.
// Over-limit sends are rejected with message_error, never queued.
type ThrottledMessageService struct {
	next  MessageSender
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewThrottledMessageService(next MessageSender, perSecond float64, burst int) *ThrottledMessageService {
	return &ThrottledMessageService{
		next:     next,
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (t *ThrottledMessageService) Send(sender registry.Conn, payload *contract.SendMessagePayload) {
	if !t.limiterFor(sender.ID()).Allow() {
		sendError(sender, "rate limit exceeded")
		return
	}
	t.next.Send(sender, payload)
}

// Release drops the limiter state for a connection that went away.
func (t *ThrottledMessageService) Release(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.limiters, connID)
}

func (t *ThrottledMessageService) limiterFor(connID string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	limiter, ok := t.limiters[connID]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[connID] = limiter
	}
	return limiter
}
