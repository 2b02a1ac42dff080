package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lease is a short-lived Redis lock so that only one replica runs a periodic
// job per interval. The holder token guards release against a lease that
// already expired and was taken by someone else.
type Lease struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Lease { return &Lease{rdb: rdb, ttl: ttl} }

func key(name string) string { return fmt.Sprintf("inv:lease:%s", name) }

// 仅当 value 仍是自己的 token 时删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Acquire tries to take the named lease. It returns the holder token and
// true on success, or false when another holder has it.
func (l *Lease) Acquire(ctx context.Context, name string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key(name), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lease if token still holds it.
func (l *Lease) Release(ctx context.Context, name, token string) error {
	err := releaseScript.Run(ctx, l.rdb, []string{key(name)}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lease %s: %w", name, err)
	}
	return nil
}
