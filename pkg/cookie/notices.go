package cookie

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Severity classifies a notice for rendering.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a one-shot UI message carried across a redirect. Notices are
// queued in an encrypted cookie and consumed on the next request.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

const noticeCookie = "gh_notices"

// noticeEnvelope is the versioned on-wire form of the notice queue. The
// explicit version and field list replace generic object serialization:
// anything that does not decode to exactly this shape is dropped.
type noticeEnvelope struct {
	Version int      `json:"v"`
	Notices []Notice `json:"n"`
}

const noticeEnvelopeVersion = 1

// PushNotice appends a notice to the pending queue.
func (m *Manager) PushNotice(w http.ResponseWriter, r *http.Request, n Notice) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	pending, _ := m.readNotices(r) // malformed queue starts fresh

	env := noticeEnvelope{Version: noticeEnvelopeVersion, Notices: append(pending, n)}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return m.SetEncrypted(w, noticeCookie, string(data), 0)
}

// PopNotices returns all pending notices and clears the queue. A missing
// queue yields an empty slice; a malformed one is discarded silently.
func (m *Manager) PopNotices(w http.ResponseWriter, r *http.Request) ([]Notice, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}

	notices, err := m.readNotices(r)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		// Undecodable queue: clear it and move on.
		m.Delete(w, noticeCookie)
		return nil, nil
	}

	m.Delete(w, noticeCookie)
	return notices, nil
}

func (m *Manager) readNotices(r *http.Request) ([]Notice, error) {
	raw, err := m.GetEncrypted(r, noticeCookie)
	if err != nil {
		return nil, err
	}
	var env noticeEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, err
	}
	if env.Version != noticeEnvelopeVersion {
		return nil, errors.New("cookie: unsupported notice version")
	}
	return env.Notices, nil
}
