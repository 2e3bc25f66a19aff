package service

import (
	"fmt"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"go.uber.org/zap"
)

// replay is what the replay cache holds for one idempotency key.
type replay struct {
	kind   domain.Kind
	record any
}

// idempotent runs create at most once per (user, key) within the cache
// TTL. Concurrent callers with the same key share one store write. An
// empty key disables replay. Reusing a key for another record kind is a
// conflict.
func idempotent[T any](s *FinanceService, kind domain.Kind, userID, key string, create func() (*T, error)) (*T, error) {
	if key == "" || s.replays == nil {
		created, err := create()
		if err != nil {
			return nil, err
		}
		s.metrics.IncrRecordWritten(kind)
		return created, nil
	}

	cacheKey := userID + ":" + key
	wrote := false
	v, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		if cached, ok := s.replays.Get(cacheKey); ok {
			return cached, nil
		}
		created, err := create()
		if err != nil {
			return nil, err
		}
		wrote = true
		s.metrics.IncrRecordWritten(kind)
		r := replay{kind: kind, record: created}
		s.replays.Set(cacheKey, r)
		return r, nil
	})
	if err != nil {
		return nil, err
	}

	r, ok := v.(replay)
	if !ok || r.kind != kind {
		s.logger.Warn("idempotency key reused for another record kind",
			zap.String("user_id", userID),
			zap.String("key", key),
			zap.String("kind", string(kind)),
		)
		return nil, &domain.ErrDuplicate{Key: key, Kind: r.kind}
	}
	rec, ok := r.record.(*T)
	if !ok {
		return nil, fmt.Errorf("idempotency key %q holds %T", key, r.record)
	}
	if !wrote {
		s.metrics.IncrReplay(kind)
	}
	return rec, nil
}
