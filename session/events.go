// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

// Event identifies a session change
type Event uint8

const (
	EventSignedUp Event = iota + 1
	EventSignedIn
	EventSignedOut
	EventPasswordReset
)

func (e Event) String() string {
	switch e {
	case EventSignedUp:
		return "signed_up"
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventPasswordReset:
		return "password_reset"
	}
	return "unknown"
}

// Change is delivered to subscribers after the database work succeeded
type Change struct {
	Event     Event
	Principal models.Principal
	At        time.Time
}

// Subscribe registers fn for every future change. Callbacks run
// synchronously on the goroutine that made the change and must not block.
// The returned function removes the subscription and is safe to call more
// than once.
func (m *Manager) Subscribe(fn func(Change)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Close drops every subscriber. Later Subscribe calls are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	clear(m.subs)
}

func (m *Manager) notify(event Event, p models.Principal) {
	m.mu.Lock()
	fns := make([]func(Change), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	c := Change{Event: event, Principal: p, At: m.now()}
	for _, fn := range fns {
		fn(c)
	}
}
