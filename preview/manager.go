package preview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iotanames/inresolver/schema"
)

type session struct {
	ctrl      *Controller
	createdAt time.Time
	cancel    context.CancelFunc
}

// Manager owns the live previews, one per preview page view.
type Manager struct {
	lock     sync.RWMutex
	sessions map[string]*session
	interval time.Duration
	now      func() time.Time
}

func NewManager(interval time.Duration) *Manager {
	if interval <= 0 {
		interval = time.Second
	}
	return &Manager{
		sessions: make(map[string]*session),
		interval: interval,
		now:      time.Now,
	}
}

// Open validates the target and starts the countdown.
func (m *Manager) Open(name, target, detailsUrl string) (string, error) {
	ctrl, err := NewController(name, target, detailsUrl, nil)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	m.lock.Lock()
	m.sessions[id] = &session{ctrl: ctrl, createdAt: m.now(), cancel: cancel}
	m.lock.Unlock()

	go ctrl.Run(ctx, m.interval)
	return id, nil
}

func (m *Manager) Get(id string) (*Controller, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, schema.ErrSessionNotExist
	}
	return s.ctrl, nil
}

// Close drops a session, the equivalent of the preview view unloading.
func (m *Manager) Close(id string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.cancel()
		delete(m.sessions, id)
	}
}

// Sweep closes sessions that finished or were abandoned for longer than maxAge.
func (m *Manager) Sweep(maxAge time.Duration) int {
	now := m.now()
	m.lock.Lock()
	defer m.lock.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.ctrl.State().Phase.Terminal() || now.Sub(s.createdAt) > maxAge {
			s.cancel()
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.sessions)
}

func (m *Manager) Stop() {
	m.lock.Lock()
	defer m.lock.Unlock()
	for id, s := range m.sessions {
		s.cancel()
		delete(m.sessions, id)
	}
}
