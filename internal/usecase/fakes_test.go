package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/google/uuid"
)

// memUserRepo mirrors the Postgres semantics: one row per email.
type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	err     error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, email, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.byEmail[email]; ok {
		return nil, domain.ErrEmailTaken
	}
	now := time.Now()
	u := &domain.User{ID: uuid.NewString(), Email: email, PasswordHash: &passwordHash, CreatedAt: now, UpdatedAt: now}
	r.byEmail[email] = u
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindOrCreateByEmail(_ context.Context, email, name string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.byEmail[email]; ok {
		if u.Name == nil && name != "" {
			n := name
			u.Name = &n
		}
		return u, nil
	}
	now := time.Now()
	u := &domain.User{ID: uuid.NewString(), Email: email, CreatedAt: now, UpdatedAt: now}
	if name != "" {
		u.Name = &name
	}
	r.byEmail[email] = u
	return u, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

// memEventRepo enforces ownership the way the SQL predicates do.
type memEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	seq    int
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*domain.Event)}
}

func (r *memEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	created := *e
	created.ID = uuid.NewString()
	created.CreatedAt = time.Date(2024, 1, 1, 0, 0, r.seq, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	r.events[created.ID] = &created
	out := created
	return &out, nil
}

func (r *memEventRepo) GetByID(_ context.Context, id, userID string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEventNotFound
	}
	out := *e
	return &out, nil
}

func (r *memEventRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range r.events {
		if e.UserID == userID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memEventRepo) Update(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.events[e.ID]
	if !ok || cur.UserID != e.UserID {
		return nil, domain.ErrEventNotFound
	}
	cur.Title, cur.Description, cur.Date = e.Title, e.Description, e.Date
	out := *cur
	return &out, nil
}

func (r *memEventRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type memStateRepo struct {
	mu     sync.Mutex
	states map[string]*domain.OAuthState
	now    func() time.Time
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{states: make(map[string]*domain.OAuthState), now: time.Now}
}

func (r *memStateRepo) Create(_ context.Context, s *domain.OAuthState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[s.StateHash]; ok {
		return fmt.Errorf("duplicate state")
	}
	c := *s
	r.states[s.StateHash] = &c
	return nil
}

func (r *memStateRepo) Consume(_ context.Context, stateHash string) (*domain.OAuthState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[stateHash]
	if !ok {
		return nil, domain.ErrOAuthStateInvalid
	}
	delete(r.states, stateHash)
	if !s.ExpiresAt.After(r.now()) {
		return nil, domain.ErrOAuthStateInvalid
	}
	return s, nil
}

func (r *memStateRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, s := range r.states {
		if s.ExpiresAt.Before(cutoff) {
			delete(r.states, k)
			n++
		}
	}
	return n, nil
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

type fakeVerifier struct {
	verify func(ctx context.Context, credential string) (*domain.OAuthProfile, error)
}

func (v *fakeVerifier) Verify(ctx context.Context, credential string) (*domain.OAuthProfile, error) {
	return v.verify(ctx, credential)
}

type fakeProvider struct {
	authCodeURL func(state, verifier string) string
	exchange    func(ctx context.Context, code, verifier string) (*domain.OAuthProfile, error)
}

func (p *fakeProvider) AuthCodeURL(state, verifier string) string {
	return p.authCodeURL(state, verifier)
}

func (p *fakeProvider) Exchange(ctx context.Context, code, verifier string) (*domain.OAuthProfile, error) {
	return p.exchange(ctx, code, verifier)
}
