package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
)

const DefaultStatsKey = "wealthwatch:resolutions"

// Recorder counts resolution outcomes in a single Redis hash.
type Recorder struct {
	Client *redis.Client
	Key    string
}

var (
	_ application.ResolutionRecorder = (*Recorder)(nil)
	_ application.ResolutionStats    = (*Recorder)(nil)
)

func New(client *redis.Client, key string) *Recorder {
	if key == "" {
		key = DefaultStatsKey
	}
	return &Recorder{Client: client, Key: key}
}

// Fields bumped per resolution:
//
//	total, kind:<kind>, provenance:<tier> or not_found,
//	failure:<provider>:<reason> for every failed provider
func (r *Recorder) Record(ctx context.Context, res domain.Resolution) error {
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, r.Key, "total", 1)
		p.HIncrBy(ctx, r.Key, "kind:"+string(res.Kind), 1)
		if res.NotFound {
			p.HIncrBy(ctx, r.Key, "not_found", 1)
		} else {
			p.HIncrBy(ctx, r.Key, "provenance:"+string(res.Provenance), 1)
		}
		for _, f := range res.Failures {
			p.HIncrBy(ctx, r.Key, "failure:"+f.Provider+":"+string(f.Reason), 1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record: %w", err)
	}
	return nil
}

func (r *Recorder) Stats(ctx context.Context) (map[string]int64, error) {
	raw, err := r.Client.HGetAll(ctx, r.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis stats: %w", err)
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis stats %s=%q: %w", k, v, err)
		}
		out[k] = n
	}
	return out, nil
}

func (r *Recorder) Ping(ctx context.Context) error { return r.Client.Ping(ctx).Err() }
