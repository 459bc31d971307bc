package redis

import (
	"context"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// seedScript raises the counter to ARGV[1] if it is lower. It never lowers it.
var seedScript = goredis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if cur < floor then
  redis.call('SET', KEYS[1], floor)
  return floor
end
return cur
`)

// Sequence implements port.IDSequence with INCR, so ids are unique across
// every replica sharing the Redis instance.
type Sequence struct {
	rdb  goredis.UniversalClient
	keys keys
}

// NewSequence creates a sequence whose key lives under prefix.
func NewSequence(rdb goredis.UniversalClient, prefix string) *Sequence {
	return &Sequence{rdb: rdb, keys: keys{prefix: prefix}}
}

func (s *Sequence) Seed(ctx context.Context, floor int64) error {
	if err := seedScript.Run(ctx, s.rdb, []string{s.keys.sequence()}, floor).Err(); err != nil {
		return &domain.ErrExternalService{Service: "redis/sequence", Err: err}
	}
	return nil
}

func (s *Sequence) NextProviderID(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "Redis.NextProviderID")
	defer span.End()

	id, err := s.rdb.Incr(ctx, s.keys.sequence()).Result()
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "redis/sequence", Err: err}
	}
	return id, nil
}
