package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"barrio_hotels/internal/adapters/observability"
	"barrio_hotels/internal/domain"
)

// Store keeps login sessions in redis, JSON-encoded under "session:<token>"
// with the configured TTL. Expiry is redis's job; an expired session simply
// stops resolving.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func key(token string) string { return "session:" + token }

func (s *Store) Put(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	observability.ObserveSession("set")
	return s.c.Set(ctx, key(sess.Token), b, ttl).Err()
}

func (s *Store) Get(ctx context.Context, token string) (domain.Session, bool, error) {
	v, err := s.c.Get(ctx, key(token)).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("miss")
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var sess domain.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return domain.Session{}, false, err
	}
	observability.ObserveSession("hit")
	return sess, true, nil
}

func (s *Store) Del(ctx context.Context, token string) error {
	observability.ObserveSession("del")
	return s.c.Del(ctx, key(token)).Err()
}
