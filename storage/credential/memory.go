package credstore

import (
	"sync"

	"github.com/educhain/backend/core/actor"
)

// memoryStore holds the credential for the lifetime of the process. The HTTP
// server uses it because its clients present credentials per request.
type memoryStore struct {
	mu   sync.Mutex
	cred string
}

var _ actor.CredentialStore = (*memoryStore)(nil)

func NewMemoryStore() actor.CredentialStore {
	return &memoryStore{}
}

func (st *memoryStore) Load() (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cred, nil
}

func (st *memoryStore) Save(cred string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cred = cred
	return nil
}

func (st *memoryStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cred = ""
	return nil
}
