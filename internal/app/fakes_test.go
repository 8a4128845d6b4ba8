package app_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"barrio_hotels/internal/domain"
)

// ---- in-memory repo fake (hotels + reviews) ----

type memRepo struct {
	mu        sync.Mutex
	hotels    map[int64]domain.Hotel
	reviews   map[int64]domain.Review
	hotelSeq  int64
	reviewSeq int64
	clock     time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		hotels:  map[int64]domain.Hotel{},
		reviews: map[int64]domain.Review{},
		clock:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick makes every write a second apart so newest-first ordering is stable.
func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRepo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotelSeq++
	h.ID = m.hotelSeq
	h.CreatedAt = m.tick()
	h.UpdatedAt = h.CreatedAt
	m.hotels[h.ID] = h
	return h, nil
}

func (m *memRepo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.hotels[h.ID]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.CreatedAt = old.CreatedAt
	h.UpdatedAt = m.tick()
	m.hotels[h.ID] = h
	return h, nil
}

func (m *memRepo) DeleteHotel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.hotels, id)
	for rid, rv := range m.reviews {
		if rv.HotelID == id {
			delete(m.reviews, rid)
		}
	}
	return nil
}

func (m *memRepo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (m *memRepo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Hotel, 0, len(m.hotels))
	for _, h := range m.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memRepo) InsertReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviewSeq++
	rv.ID = m.reviewSeq
	rv.CreatedAt = m.tick()
	m.reviews[rv.ID] = rv
	return rv, nil
}

func (m *memRepo) ApproveReview(ctx context.Context, id int64) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	rv.IsApproved = true
	m.reviews[id] = rv
	return rv, nil
}

func (m *memRepo) DeleteReview(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *memRepo) listReviews(keep func(domain.Review) bool) []domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range m.reviews {
		if keep(rv) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memRepo) ListApprovedReviews(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	return m.listReviews(func(rv domain.Review) bool {
		return rv.HotelID == hotelID && rv.IsApproved
	}), nil
}

func (m *memRepo) ListPendingReviews(ctx context.Context) ([]domain.Review, error) {
	return m.listReviews(func(rv domain.Review) bool { return !rv.IsApproved }), nil
}

// ---- user + session fakes ----

type memUsers struct {
	mu  sync.Mutex
	m   map[string]domain.User
	seq int64
}

func newMemUsers() *memUsers { return &memUsers{m: map[string]domain.User{}} }

func (u *memUsers) CreateUser(ctx context.Context, usr domain.User) (domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.m[usr.Username]; ok {
		return domain.User{}, &domain.ValidationError{Field: "username", Reason: "is already taken"}
	}
	u.seq++
	usr.ID = u.seq
	u.m[usr.Username] = usr
	return usr, nil
}

func (u *memUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.m[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return usr, nil
}

type memSessions struct {
	mu sync.Mutex
	m  map[string]domain.Session
}

func newMemSessions() *memSessions { return &memSessions{m: map[string]domain.Session{}} }

func (s *memSessions) Put(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.Token] = sess
	return nil
}

func (s *memSessions) Get(ctx context.Context, token string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[token]
	return sess, ok, nil
}

func (s *memSessions) Del(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
	return nil
}

// ---- shared helpers ----

var (
	admin = domain.Actor{UserID: 1, Username: "admin", IsAdmin: true, Authenticated: true}
	guest = domain.Actor{UserID: 2, Username: "guest", Authenticated: true}
)

func seedHotel(t interface{ Fatalf(string, ...any) }, repo *memRepo, name, neighborhood string) domain.Hotel {
	h, err := repo.CreateHotel(context.Background(), domain.Hotel{
		Name:         name,
		Description:  "Un lugar agradable para quedarse",
		Address:      "Calle 10 #20-30",
		Neighborhood: neighborhood,
		Photos:       []string{"https://example.com/p.jpg"},
		Amenities:    []string{"WiFi"},
	})
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return h
}
