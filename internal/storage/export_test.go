package storage

import "time"

// WithClock подменяет часы хранилища в тестах
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}
