package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/redis/go-redis/v9"
)

func sessionKey(token string) string { return fmt.Sprintf("session:%s", token) }

func userSessionsKey(username string) string { return fmt.Sprintf("user_sessions:%s", username) }

// removeTokenScript removes a token from the per-user set and deletes the set once empty.
const removeTokenScript = `
	local removed = redis.call('SREM', KEYS[1], ARGV[1])
	if removed > 0 then
		local count = redis.call('SCARD', KEYS[1])
		if count == 0 then
			redis.call('DEL', KEYS[1])
		end
	end
	return removed
`

// StoreSession mirrors a session into Redis as session:<token> -> username and
// records the token in the per-user set. No-op when Redis is not configured.
func StoreSession(ctx context.Context, token, username string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Set(ctx, sessionKey(token), username, ttl).Err(); err != nil {
		return err
	}
	return AddSessionToUserSet(ctx, username, token)
}

// LookupSession returns the username cached for token. found is false when
// Redis is not configured or the key is absent.
func LookupSession(ctx context.Context, token string) (username string, found bool, err error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return "", false, nil
	}
	username, err = rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return username, true, nil
}

// DeleteSession removes session:<token> and drops the token from the user's set.
func DeleteSession(ctx context.Context, token, username string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return err
	}
	if username == "" {
		return nil
	}
	return RemoveSessionTokenFromUserSet(ctx, username, token)
}

// AddSessionToUserSet adds the session token to the per-user Redis set.
// The set has no TTL and persists until explicitly cleaned up via
// RemoveSessionTokenFromUserSet or InvalidateUserSessions.
func AddSessionToUserSet(ctx context.Context, username, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(username)
	if err := rdb.SAdd(ctx, key, token).Err(); err != nil {
		return err
	}
	return rdb.Persist(ctx, key).Err()
}

// RemoveSessionTokenFromUserSet removes a single session token from the per-user set.
// If the set becomes empty after removal, it is deleted.
func RemoveSessionTokenFromUserSet(ctx context.Context, username, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return rdb.Eval(ctx, removeTokenScript, []string{userSessionsKey(username)}, token).Err()
}

// InvalidateUserSessions deletes all session:<token> keys for the given user and
// removes the per-user set.
func InvalidateUserSessions(ctx context.Context, username string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(username)
	members, err := rdb.SMembers(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, sessionKey(tok)).Err()
	}
	return rdb.Del(ctx, key).Err()
}
