package tenant

import "sync"

// Session es almacenamiento key-value con alcance de sesión (el análogo
// del sessionStorage de un tab de browser: vive lo que vive el proceso
// cliente y no se comparte entre sesiones).
type Session interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// memorySession implementa Session en memoria. Thread-safe.
type memorySession struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewSession crea una Session en memoria vacía.
func NewSession() Session {
	return &memorySession{m: make(map[string]string)}
}

func (s *memorySession) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *memorySession) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *memorySession) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}
