package analyses

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/storage/object"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	openErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Save(_ context.Context, userID, name, _ string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s/%d_%s", userID, len(s.objects)+1, name)
	s.objects[key] = data
	return key, int64(len(data)), nil
}

func (s *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) put(key string, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = []byte(data)
}

type fakeQueue struct {
	mu   sync.Mutex
	sent []queue.Message
	err  error
}

func (q *fakeQueue) Send(_ context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, evt notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testDeps struct {
	svc   *Service
	repo  *MemoryRepo
	store *fakeStore
	queue *fakeQueue
	pub   *fakePublisher
}

func newTestService(t *testing.T) testDeps {
	t.Helper()
	deps := testDeps{
		repo:  NewMemoryRepo(),
		store: newFakeStore(),
		queue: &fakeQueue{},
		pub:   &fakePublisher{},
	}
	var seq int
	var mu sync.Mutex
	deps.svc = &Service{
		Repo:      deps.repo,
		Store:     deps.store,
		Queue:     deps.queue,
		Publisher: deps.pub,
		Now:       func() time.Time { return fixedNow },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("a-%d", seq)
		},
	}
	return deps
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func fixtureRequest(t *testing.T, name string) AnalyzeRequest {
	t.Helper()
	req, err := DecodeRequest(readFixture(t, name))
	require.NoError(t, err)
	return req
}
