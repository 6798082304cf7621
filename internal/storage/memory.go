package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"claimdesk/internal/utils"
	"claimdesk/pkg/types"
)

// MemoryStore is an in-process Store used in tests and local development.
// It records upload and delete calls so tests can assert on blob traffic.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	Uploads int
	Deletes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(_ context.Context, owner types.AttachmentOwner, ownerID, fileName, contentType string, body io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("memory://%s/%s/%s/%s", owner, ownerID, utils.NanoIDSize(8), fileName)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[url] = data
	s.Uploads++

	return &UploadResult{URL: url, Size: int64(len(data)), MimeType: contentType}, nil
}

// Delete is idempotent like the real store: deleting a missing URL succeeds.
func (s *MemoryStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, url)
	s.Deletes++
	return nil
}

func (s *MemoryStore) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
