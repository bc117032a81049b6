package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/auth-service/internal/model"
)

// CodeRepo stores verification codes in Redis. Each email maps to a single
// key, so writing a new code atomically replaces any outstanding one (last
// write wins). The key TTL matches the code expiry, which means expired
// codes vanish on their own; the expiry instant is still kept inside the
// record so callers can compare against their own clock.
type CodeRepo struct{ RDB *redis.Client }

func NewCodeRepo(rdb *redis.Client) *CodeRepo { return &CodeRepo{RDB: rdb} }

func codeKey(email string) string { return "verify:" + email }

// Upsert replaces the stored code for rec.Email and sets the key to expire
// at rec.ExpiresAt.
func (r *CodeRepo) Upsert(ctx context.Context, rec model.VerificationCode) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal verification code: %w", err)
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second // already past due; keep it findable for a beat
	}
	if err := r.RDB.Set(ctx, codeKey(rec.Email), b, ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// Find returns the outstanding code for email, or ErrCodeNotFound when none
// is stored.
func (r *CodeRepo) Find(ctx context.Context, email string) (model.VerificationCode, error) {
	b, err := r.RDB.Get(ctx, codeKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.VerificationCode{}, ErrCodeNotFound
		}
		return model.VerificationCode{}, fmt.Errorf("load verification code: %w", err)
	}
	var rec model.VerificationCode
	if err := json.Unmarshal(b, &rec); err != nil {
		return model.VerificationCode{}, fmt.Errorf("decode verification code: %w", err)
	}
	return rec, nil
}

// Delete removes the code for email. Deleting a missing key is not an error.
func (r *CodeRepo) Delete(ctx context.Context, email string) error {
	return r.RDB.Del(ctx, codeKey(email)).Err()
}
