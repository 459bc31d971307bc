package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxEvents bounds the event list; older entries are trimmed.
const maxEvents = 10000

// incrementScript creates the row on first touch, records first-seen order,
// bumps one counter and optionally stamps last_viewed.
// KEYS[1]=row KEYS[2]=index ARGV[1]=provider_id ARGV[2]=field ARGV[3]=last_viewed or ""
var incrementScript = goredis.NewScript(`
if redis.call('HSETNX', KEYS[1], 'provider_id', ARGV[1]) == 1 then
  redis.call('RPUSH', KEYS[2], ARGV[1])
end
local v = redis.call('HINCRBY', KEYS[1], ARGV[2], 1)
if ARGV[3] ~= '' then
  redis.call('HSET', KEYS[1], 'last_viewed', ARGV[3])
end
return v
`)

// AnalyticsStore implements port.AnalyticsStore on Redis hashes and a list.
type AnalyticsStore struct {
	rdb    goredis.UniversalClient
	keys   keys
	logger *zap.Logger
}

// NewAnalyticsStore creates a store whose keys live under prefix.
func NewAnalyticsStore(rdb goredis.UniversalClient, prefix string, logger *zap.Logger) *AnalyticsStore {
	return &AnalyticsStore{rdb: rdb, keys: keys{prefix: prefix}, logger: logger}
}

// Ping reports whether Redis is reachable.
func (s *AnalyticsStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *AnalyticsStore) IncrementStat(ctx context.Context, providerID int64, stat domain.StatName, at time.Time) error {
	ctx, span := tracer.Start(ctx, "Redis.IncrementStat")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", providerID), attribute.String("stat", string(stat)))

	if !stat.Valid() {
		return &domain.ErrValidation{Field: "stat", Message: "unknown counter " + string(stat)}
	}

	lastViewed := ""
	if stat == domain.StatViews {
		lastViewed = at.UTC().Format(time.RFC3339Nano)
	}

	err := incrementScript.Run(ctx, s.rdb,
		[]string{s.keys.stats(providerID), s.keys.statIndex()},
		providerID, string(stat), lastViewed,
	).Err()
	if err != nil {
		return &domain.ErrExternalService{Service: "redis/analytics", Err: err}
	}
	return nil
}

func (s *AnalyticsStore) GetStats(ctx context.Context, providerID int64) (*domain.BusinessAnalyticsData, error) {
	ctx, span := tracer.Start(ctx, "Redis.GetStats")
	defer span.End()

	fields, err := s.rdb.HGetAll(ctx, s.keys.stats(providerID)).Result()
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "redis/analytics", Err: err}
	}
	if len(fields) == 0 {
		return nil, nil
	}
	row := decodeStats(providerID, fields)
	return &row, nil
}

// ListStats returns rows in first-seen order.
func (s *AnalyticsStore) ListStats(ctx context.Context) ([]domain.BusinessAnalyticsData, error) {
	ctx, span := tracer.Start(ctx, "Redis.ListStats")
	defer span.End()

	ids, err := s.rdb.LRange(ctx, s.keys.statIndex(), 0, -1).Result()
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "redis/analytics", Err: err}
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, 0, len(ids))
	parsed := make([]int64, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.logger.Warn("redis: skipping malformed analytics index entry", zap.String("value", raw))
			continue
		}
		parsed = append(parsed, id)
		cmds = append(cmds, pipe.HGetAll(ctx, s.keys.stats(id)))
	}
	if len(cmds) == 0 {
		return []domain.BusinessAnalyticsData{}, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "redis/analytics", Err: err}
	}

	out := make([]domain.BusinessAnalyticsData, 0, len(cmds))
	for i, cmd := range cmds {
		out = append(out, decodeStats(parsed[i], cmd.Val()))
	}
	return out, nil
}

func (s *AnalyticsStore) AppendEvent(ctx context.Context, e *domain.UserActivityEvent) error {
	ctx, span := tracer.Start(ctx, "Redis.AppendEvent")
	defer span.End()

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, s.keys.events(), payload)
	pipe.LTrim(ctx, s.keys.events(), 0, maxEvents-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return &domain.ErrExternalService{Service: "redis/events", Err: err}
	}
	return nil
}

func (s *AnalyticsStore) RecentEvents(ctx context.Context, limit int) ([]domain.UserActivityEvent, error) {
	ctx, span := tracer.Start(ctx, "Redis.RecentEvents")
	defer span.End()

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raws, err := s.rdb.LRange(ctx, s.keys.events(), 0, stop).Result()
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "redis/events", Err: err}
	}

	out := make([]domain.UserActivityEvent, 0, len(raws))
	for _, raw := range raws {
		var e domain.UserActivityEvent
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			s.logger.Warn("redis: skipping malformed event", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeStats(providerID int64, fields map[string]string) domain.BusinessAnalyticsData {
	row := domain.BusinessAnalyticsData{ProviderID: providerID}
	for _, stat := range []domain.StatName{domain.StatViews, domain.StatCalls, domain.StatWhatsapp, domain.StatShares} {
		if v, err := strconv.ParseInt(fields[string(stat)], 10, 64); err == nil {
			row.Add(stat, v)
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["last_viewed"]); err == nil {
		row.LastViewed = &ts
	}
	return row
}
