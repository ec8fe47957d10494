package booking

import (
	"context"
	"fmt"
	"time"

	"massobook/config"
	"massobook/models"
	"massobook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// AvailabilityChecker answers whether a slot is currently offered.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, date models.CivilDate, start models.TimeOfDay) (bool, error)
}

// Guard is consulted before a booking is written. The release func must be
// called once the write finished, whatever its outcome.
type Guard interface {
	Acquire(ctx context.Context, date models.CivilDate, start models.TimeOfDay) (release func(), err error)
}

func noRelease() {}

// NoGuard accepts every request.
type NoGuard struct{}

func (NoGuard) Acquire(context.Context, models.CivilDate, models.TimeOfDay) (func(), error) {
	return noRelease, nil
}

// RecheckGuard rejects slots the availability resolver would not offer right now.
type RecheckGuard struct {
	checker AvailabilityChecker
}

func NewRecheckGuard(checker AvailabilityChecker) *RecheckGuard {
	return &RecheckGuard{checker: checker}
}

func (g *RecheckGuard) Acquire(ctx context.Context, date models.CivilDate, start models.TimeOfDay) (func(), error) {
	ok, err := g.checker.IsAvailable(ctx, date, start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewConflictError("the requested slot is no longer available")
	}
	return noRelease, nil
}

// HoldStore keeps short-lived exclusive holds.
type HoldStore interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// HoldGuard takes a hold on the slot, then rechecks availability.
type HoldGuard struct {
	recheck *RecheckGuard
	store   HoldStore
	ttl     time.Duration
}

func NewHoldGuard(checker AvailabilityChecker, store HoldStore, ttl time.Duration) *HoldGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &HoldGuard{recheck: NewRecheckGuard(checker), store: store, ttl: ttl}
}

func HoldKey(date models.CivilDate, start models.TimeOfDay) string {
	return fmt.Sprintf("hold:%s:%s", date, start)
}

func (g *HoldGuard) Acquire(ctx context.Context, date models.CivilDate, start models.TimeOfDay) (func(), error) {
	key := HoldKey(date, start)
	token := uuid.NewString()

	ok, err := g.store.Acquire(ctx, key, token, g.ttl)
	if err != nil {
		return nil, utils.NewUpstreamError("slot hold unavailable", err)
	}
	if !ok {
		return nil, utils.NewConflictError("the requested slot is being booked by someone else")
	}

	release := func() {
		// detached from the request so a cancelled client still frees the slot
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = g.store.Release(ctx, key, token)
	}

	if _, err := g.recheck.Acquire(ctx, date, start); err != nil {
		release()
		return nil, err
	}
	return release, nil
}

// NewGuard picks the guard named by mode.
func NewGuard(mode string, checker AvailabilityChecker, store HoldStore, ttl time.Duration) (Guard, error) {
	switch mode {
	case config.GuardNone:
		return NoGuard{}, nil
	case config.GuardRecheck, "":
		return NewRecheckGuard(checker), nil
	case config.GuardHold:
		if store == nil {
			return nil, fmt.Errorf("booking guard %q needs a hold store", mode)
		}
		return NewHoldGuard(checker, store, ttl), nil
	default:
		return nil, fmt.Errorf("unknown booking guard %q", mode)
	}
}

// releaseScript deletes the hold only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisHoldStore keeps holds as expiring redis keys.
type RedisHoldStore struct {
	client *redis.Client
}

func NewRedisHoldStore(client *redis.Client) *RedisHoldStore {
	return &RedisHoldStore{client: client}
}

func (s *RedisHoldStore) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, token, ttl).Result()
}

func (s *RedisHoldStore) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, s.client, []string{key}, token).Err()
}
