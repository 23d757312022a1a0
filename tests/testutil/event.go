package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
)

// RecordingEventHandler stores every event it receives
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingEventHandler records events of eventTypes, or of every type when none are given
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the received events
func (h *RecordingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// Types returns the event types received, in order
func (h *RecordingEventHandler) Types() []string {
	events := h.Handled()
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.EventType()
	}
	return types
}

// SetError makes Handle fail with err
func (h *RecordingEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitForEventCount waits until at least count events arrived
func (h *RecordingEventHandler) WaitForEventCount(count int, timeout time.Duration) bool {
	return WaitForCondition(func() bool {
		return len(h.Handled()) >= count
	}, timeout, 10*time.Millisecond)
}

var _ shared.EventHandler = (*RecordingEventHandler)(nil)
