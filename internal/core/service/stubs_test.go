package service

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // by email
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Confirm(_ context.Context, email string) error {
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Confirmed = true
	return nil
}

// stubProfileRepo replays insertErrs in order before falling back to a real
// insert, so tests can script propagation races.
type stubProfileRepo struct {
	mu         sync.Mutex
	rows       map[string]*domain.Profile
	insertErrs []error
	findErr    error
	// beforeInsert runs under the lock ahead of each insert.
	beforeInsert func(rows map[string]*domain.Profile)
	inserts    int
	finds      int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{rows: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Insert(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.beforeInsert != nil {
		r.beforeInsert(r.rows)
	}
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := r.rows[p.ID]; exists {
		return domain.ErrProfileExists
	}
	clone := *p
	r.rows[p.ID] = &clone
	return nil
}

func (r *stubProfileRepo) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.IsAdmin = isAdmin
	return nil
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

type stubObjectStore struct {
	putErr  error
	calls   int
	objects map[string][]byte
	types   map[string]string
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *stubObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	s.calls++
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *stubObjectStore) PublicURL(key string) string {
	return "https://cdn.example.test/objects/videos/" + key
}

type stubVideoWriter struct {
	err      error
	calls    int
	inserted []*domain.VideoRecord
}

func (w *stubVideoWriter) Insert(_ context.Context, v *domain.VideoRecord) (string, error) {
	w.calls++
	if w.err != nil {
		return "", w.err
	}
	clone := *v
	w.inserted = append(w.inserted, &clone)
	return "vid-1", nil
}

type stubVideoRepo struct {
	records []domain.VideoRecord
	listErr error
	owners  []string // ownerID passed to each List call
}

func (r *stubVideoRepo) Create(_ context.Context, v *domain.VideoRecord) (string, error) {
	clone := *v
	clone.ID = "generated-id"
	r.records = append(r.records, clone)
	return clone.ID, nil
}

func (r *stubVideoRepo) FindByID(_ context.Context, id string) (*domain.VideoRecord, error) {
	for i := range r.records {
		if r.records[i].ID == id {
			clone := r.records[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrVideoNotFound
}

// List mirrors the real stores: owner scoping plus newest-first ordering.
func (r *stubVideoRepo) List(_ context.Context, ownerID string) ([]domain.VideoRecord, error) {
	r.owners = append(r.owners, ownerID)
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []domain.VideoRecord{}
	for _, v := range r.records {
		if ownerID != "" && v.UserID != ownerID {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type stubViewRepo struct {
	events   []domain.ViewEvent
	counts   map[string]int64
	countErr error
}

func (r *stubViewRepo) Insert(_ context.Context, e *domain.ViewEvent) error {
	r.events = append(r.events, *e)
	return nil
}

func (r *stubViewRepo) CountByVideo(_ context.Context) (map[string]int64, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	if r.counts != nil {
		return r.counts, nil
	}
	out := make(map[string]int64)
	for _, e := range r.events {
		out[e.VideoID]++
	}
	return out, nil
}
