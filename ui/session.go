package ui

import (
	"sync"

	"github.com/gin-gonic/gin"

	"fretedash/domain/core"
	"fretedash/domain/freight"
)

const sessionCookie = "fretedash_session"

// SessionManager keeps one filter selection per browser session. Sessions
// never share selections, so concurrent users cannot clobber each other's
// filters; the merged table itself is shared and read-only.
type SessionManager struct {
	mu         sync.RWMutex
	selections map[core.SessionID]freight.FilterSelection
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		selections: make(map[core.SessionID]freight.FilterSelection),
	}
}

// SessionID returns the request's session ID, minting a cookie on first
// contact.
func (m *SessionManager) SessionID(c *gin.Context) core.SessionID {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		if id, err := core.ParseSessionID(cookie); err == nil {
			return id
		}
	}
	id := core.SessionID(core.NewID())
	c.SetCookie(sessionCookie, id.String(), 0, "/", "", false, true)
	return id
}

// Selection returns the session's current selection, empty when none set.
func (m *SessionManager) Selection(id core.SessionID) freight.FilterSelection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sel, ok := m.selections[id]; ok {
		return sel.Clone()
	}
	return freight.NewFilterSelection()
}

// SetSelection stores a selection for the session.
func (m *SessionManager) SetSelection(id core.SessionID, sel freight.FilterSelection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[id] = sel.Clone()
}

// ClearSelection drops the session's selection.
func (m *SessionManager) ClearSelection(id core.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selections, id)
}
