package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-taken by another checkout is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutLock is a per-account mutex backed by SET NX with expiry.
// Key format: checkout:lock:<account_id>
type CheckoutLock struct {
	client redis.Cmdable
	log    zerolog.Logger
}

func NewCheckoutLock(client redis.Cmdable, log zerolog.Logger) *CheckoutLock {
	return &CheckoutLock{client: client, log: log}
}

// Acquire tries to take the lock for accountID. It returns acquired=false
// without error when another holder owns it.
func (l *CheckoutLock) Acquire(ctx context.Context, accountID int64, ttl time.Duration) (func(), bool, error) {
	key := l.key(accountID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("checkout lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The request context may already be cancelled; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Int64("account_id", accountID).Msg("failed to release checkout lock")
		}
	}
	return release, true, nil
}

func (l *CheckoutLock) key(accountID int64) string {
	return fmt.Sprintf("checkout:lock:%d", accountID)
}
