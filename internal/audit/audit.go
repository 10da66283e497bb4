package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Event names the security-relevant actions worth an audit trail.
type Event string

const (
	EventLoginFailed        Event = "login_failed"
	EventLoginSuccessful    Event = "login_successful"
	EventLogout             Event = "logout"
	EventSessionExpired     Event = "session_expired"
	EventRememberMeLogin    Event = "remember_me_login"
	EventImpersonate        Event = "impersonate"
	EventImpersonateStop    Event = "impersonate_stop"
	EventPermissionsChanged Event = "permissions_changed"
	EventAccessDenied       Event = "access_denied"
)

// Recorder persists audit events. Implementations must tolerate nil or
// empty fields.
type Recorder interface {
	Record(ctx context.Context, event Event, fields map[string]any)
}

// LogRecorder writes audit events as structured log records.
type LogRecorder struct {
	log *slog.Logger
}

// NewLogRecorder creates a Recorder backed by log.
func NewLogRecorder(log *slog.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(ctx context.Context, event Event, fields map[string]any) {
	attrs := make([]slog.Attr, 0, len(fields)+2)
	attrs = append(attrs,
		slog.String("type", "audit"),
		slog.String("event", string(event)))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	r.log.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// Entry is a recorded event, kept by MemoryRecorder for assertions.
type Entry struct {
	Event  Event
	Fields map[string]any
}

// MemoryRecorder collects audit events in memory. Test use only.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, event Event, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.entries = append(r.entries, Entry{Event: event, Fields: copied})
}

// Entries returns a snapshot of everything recorded so far.
func (r *MemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Events returns just the event names, in record order.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Event
	}
	return out
}
