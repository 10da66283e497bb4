package session

import (
	"testing"
	"time"
)

func TestSession_IsAuthenticated(t *testing.T) {
	s := New("id", "token")
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true for anonymous session, want false")
	}

	uid := "user-1"
	s.UserID = &uid
	if !s.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after setting UserID, want true")
	}

	empty := ""
	s.UserID = &empty
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true for empty UserID, want false")
	}
}

func TestSession_IsExpired_Boundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	maxIdle := 30 * time.Minute

	s := New("id", "token")

	// Exactly at the boundary: not expired.
	s.StartedAt = now.Add(-maxIdle)
	if s.IsExpired(maxIdle, now) {
		t.Error("session at exact boundary reported expired")
	}

	// One second past: expired.
	s.StartedAt = now.Add(-maxIdle - time.Second)
	if !s.IsExpired(maxIdle, now) {
		t.Error("session one second past boundary not reported expired")
	}

	// Evaluation is instant-based regardless of wall-clock zone.
	loc := time.FixedZone("UTC+5", 5*3600)
	s.StartedAt = now.Add(-maxIdle).In(loc)
	if s.IsExpired(maxIdle, now.In(loc)) {
		t.Error("zone representation changed the expiry verdict")
	}
}

func TestSession_Extend(t *testing.T) {
	s := New("id", "token")
	s.StartedAt = time.Now().Add(-time.Hour)

	now := time.Now()
	s.Extend(now)

	if !s.StartedAt.Equal(now.UTC()) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, now.UTC())
	}
}

func TestSession_IsImpersonating(t *testing.T) {
	s := New("id", "token")
	if s.IsImpersonating() {
		t.Error("new session reports impersonating")
	}

	former := "admin-1"
	s.FormerUserID = &former
	if !s.IsImpersonating() {
		t.Error("session with FormerUserID does not report impersonating")
	}
}
