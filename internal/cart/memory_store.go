package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps serialized carts in process memory. Used by tests and
// local development; state does not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) ([]Line, error) {
	s.mu.RLock()
	payload, ok := s.blobs[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeLines(payload)
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, lines []Line) error {
	payload, err := encodeLines(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[sessionID] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.blobs, sessionID)
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a session's blob with an unparseable payload. Test
// hook for the hydration fallback path.
func (s *MemoryStore) Corrupt(sessionID string) {
	s.mu.Lock()
	s.blobs[sessionID] = []byte("{not json")
	s.mu.Unlock()
}
