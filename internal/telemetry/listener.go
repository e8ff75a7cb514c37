// Package telemetry keeps the most recent device snapshot and turns the gateway's
// asynchronous refresh into a synchronous read.
package telemetry

import (
	"sync"
	"sync/atomic"

	"reclaim_control/internal/gateway"
	"reclaim_control/internal/models"
)

// Listener stores the latest snapshot delivered by the gateway and hands replies to
// the refreshes waiting for them. One writer (the gateway callback) and any number
// of readers.
type Listener struct {
	latest atomic.Pointer[models.DeviceSnapshot]
	seq    atomic.Uint64

	mu      sync.Mutex
	waiters map[string]waiter
}

type waiter struct {
	ch       chan models.DeviceSnapshot // buffered, keeps the first match
	untagged bool
}

var _ gateway.Listener = (*Listener)(nil)

func NewListener() *Listener {
	return &Listener{waiters: make(map[string]waiter)}
}

// OnMessage stamps s with the next sequence number, publishes it and hands it to
// every waiter it answers: the one whose token it carries, and when s is untagged,
// those that accept untagged replies.
func (l *Listener) OnMessage(s models.DeviceSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.Seq = l.seq.Add(1)
	l.latest.Store(&s)

	if s.RequestID != "" {
		if w, ok := l.waiters[s.RequestID]; ok {
			offer(w.ch, s)
		}
		return
	}
	for _, w := range l.waiters {
		if w.untagged {
			offer(w.ch, s)
		}
	}
}

func offer(ch chan models.DeviceSnapshot, s models.DeviceSnapshot) {
	select {
	case ch <- s:
	default:
	}
}

// Await registers a waiter for the reply tagged with token. Only snapshots delivered
// after Await returns are considered. The returned func unregisters the waiter and
// must be called.
func (l *Listener) Await(token string, acceptUntagged bool) (<-chan models.DeviceSnapshot, func()) {
	ch := make(chan models.DeviceSnapshot, 1)
	l.mu.Lock()
	l.waiters[token] = waiter{ch: ch, untagged: acceptUntagged}
	l.mu.Unlock()
	return ch, func() {
		l.mu.Lock()
		delete(l.waiters, token)
		l.mu.Unlock()
	}
}

// Latest returns the newest snapshot, or false if nothing has arrived yet.
func (l *Listener) Latest() (models.DeviceSnapshot, bool) {
	p := l.latest.Load()
	if p == nil {
		return models.DeviceSnapshot{}, false
	}
	return *p, true
}

// Seq is the sequence number of the newest snapshot; 0 before the first one.
func (l *Listener) Seq() uint64 { return l.seq.Load() }
