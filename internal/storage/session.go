package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/topup-store/internal/storefront"
)

var ErrSessionNotFound = errors.New("session not found")

// PageFactory создаёт состояние страницы для нового посетителя
type PageFactory func() *storefront.Page

type session struct {
	page     *storefront.Page
	lastSeen time.Time
}

// SessionStore хранит страницы посетителей в памяти. Сессия живёт,
// пока к ней обращаются чаще, чем раз в ttl.
type SessionStore struct {
	ttl     time.Duration
	newPage PageFactory
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionStore(ttl time.Duration, newPage PageFactory) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		newPage:  newPage,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create заводит новую сессию
func (s *SessionStore) Create() (string, *storefront.Page) {
	id := uuid.NewString()
	page := s.newPage()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &session{page: page, lastSeen: s.now()}
	return id, page
}

// Get возвращает страницу сессии и продлевает её жизнь
func (s *SessionStore) Get(id string) (*storefront.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess.page, nil
}

// GetOrCreate - существующая сессия по id либо новая
func (s *SessionStore) GetOrCreate(id string) (string, *storefront.Page) {
	if id != "" {
		if page, err := s.Get(id); err == nil {
			return id, page
		}
	}
	return s.Create()
}

// Evict удаляет просроченные сессии и возвращает их количество
func (s *SessionStore) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len - количество живых и ещё не вычищенных сессий
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunEviction периодически чистит хранилище, пока не отменён ctx
func (s *SessionStore) RunEviction(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}

func (s *SessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
