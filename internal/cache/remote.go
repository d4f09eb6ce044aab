package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/csy100/touch-api/data"
	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix    = "user:"
	projectKeyPrefix = "project:"
)

// Remote is the shared Redis cache tier. Values are stored as JSON with the
// key prefixes "user:" and "project:" so instances of the API share lookups.
type Remote struct {
	client     *redis.Client
	userTTL    time.Duration
	projectTTL time.Duration
}

// NewRemote creates the Redis cache tier from a URL and verifies the
// connection.
func NewRemote(redisURL string, userTTL, projectTTL time.Duration) (*Remote, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return NewRemoteWithClient(client, userTTL, projectTTL), nil
}

// NewRemoteWithClient creates the Redis cache tier from an existing client.
func NewRemoteWithClient(client *redis.Client, userTTL, projectTTL time.Duration) *Remote {
	return &Remote{
		client:     client,
		userTTL:    userTTL,
		projectTTL: projectTTL,
	}
}

// GetUserBrief retrieves a cached user brief. A cache miss returns found
// false and a nil error.
func (r *Remote) GetUserBrief(ctx context.Context, userID string) (data.UserBrief, bool, error) {
	value, err := r.client.Get(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return data.UserBrief{}, false, nil
		}
		return data.UserBrief{}, false, err
	}
	var brief data.UserBrief
	err = json.Unmarshal([]byte(value), &brief)
	if err != nil {
		return data.UserBrief{}, false, err
	}
	return brief, true, nil
}

// GetUserBriefs retrieves cached user briefs for a set of users with a single
// pipelined round trip. Misses are simply absent from the result map.
func (r *Remote) GetUserBriefs(ctx context.Context, userIDs []string) (map[string]data.UserBrief, error) {
	briefs := map[string]data.UserBrief{}
	if len(userIDs) == 0 {
		return briefs, nil
	}
	pipe := r.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(userIDs))
	for _, userID := range userIDs {
		cmds[userID] = pipe.Get(ctx, userKeyPrefix+userID)
	}
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	for userID, cmd := range cmds {
		value, err := cmd.Result()
		if err != nil {
			continue
		}
		var brief data.UserBrief
		if err := json.Unmarshal([]byte(value), &brief); err != nil {
			continue
		}
		briefs[userID] = brief
	}
	return briefs, nil
}

// SetUserBrief caches a user brief.
func (r *Remote) SetUserBrief(ctx context.Context, brief data.UserBrief) error {
	value, err := json.Marshal(brief)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userKeyPrefix+brief.ID, value, r.userTTL).Err()
}

// SetUserBriefs caches a set of user briefs with a single pipelined round
// trip.
func (r *Remote) SetUserBriefs(ctx context.Context, briefs []data.UserBrief) error {
	if len(briefs) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, brief := range briefs {
		value, err := json.Marshal(brief)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKeyPrefix+brief.ID, value, r.userTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetProjectExists retrieves a cached project existence flag.
func (r *Remote) GetProjectExists(ctx context.Context, projectID string) (exists bool, found bool, err error) {
	value, err := r.client.Get(ctx, projectKeyPrefix+projectID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, err
	}
	return value == "1", true, nil
}

// SetProjectExists caches a project existence flag.
func (r *Remote) SetProjectExists(ctx context.Context, projectID string, exists bool) error {
	value := "0"
	if exists {
		value = "1"
	}
	return r.client.Set(ctx, projectKeyPrefix+projectID, value, r.projectTTL).Err()
}

// Ping checks that Redis is reachable.
func (r *Remote) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Remote) Close() error {
	return r.client.Close()
}
