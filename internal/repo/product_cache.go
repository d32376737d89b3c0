package repo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"storefront/internal/cache"
	"storefront/internal/models"
)

// ProductsCached is a read-through cache over ProductsPG for the
// product-detail hot path. Cache failures fall through to Postgres;
// a broken Redis must never take the catalog down.
type ProductsCached struct {
	PG    *ProductsPG
	Redis *cache.Redis
	TTL   time.Duration
}

func productKey(id int64) string { return "product:" + strconv.FormatInt(id, 10) }

func (r *ProductsCached) GetByID(ctx context.Context, id int64) (models.Product, error) {
	if s, err := r.Redis.GetString(ctx, productKey(id)); err == nil {
		var p models.Product
		if err := json.Unmarshal([]byte(s), &p); err == nil {
			return p, nil
		}
	}

	p, err := r.PG.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if b, err := json.Marshal(p); err == nil {
		_ = r.Redis.SetString(ctx, productKey(id), string(b), r.TTL)
	}
	return p, nil
}

// Invalidate drops cached copies after a stock mutation.
func (r *ProductsCached) Invalidate(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	_ = r.Redis.Delete(ctx, keys...)
}
