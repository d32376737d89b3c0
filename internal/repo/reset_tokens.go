package repo

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cache"
)

// ResetTokens holds single-use password reset tokens in Redis; the TTL
// is the whole expiry story.
type ResetTokens struct {
	Redis *cache.Redis
	TTL   time.Duration
}

func resetKey(token string) string { return "pwreset:" + token }

func (r *ResetTokens) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := r.Redis.SetString(ctx, resetKey(token), strconv.FormatInt(userID, 10), r.TTL); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem consumes the token. A second redeem of the same token fails.
func (r *ResetTokens) Redeem(ctx context.Context, token string) (int64, error) {
	s, err := r.Redis.GetString(ctx, resetKey(token))
	if err != nil {
		if cache.IsMiss(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if err := r.Redis.Delete(ctx, resetKey(token)); err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}
