package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// LeaderboardLoader fetches score records from a backing store (embedded data, Postgres).
type LeaderboardLoader interface {
	LoadScores(ctx context.Context, countryCode string) ([]domain.ScoreRecord, error)
	LoadCountries(ctx context.Context) ([]string, error)
}

const countriesKey = "\x00countries"

// LeaderboardRepository caches leaderboard reads with TTL to avoid repeated DB hits.
type LeaderboardRepository struct {
	loader LeaderboardLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu        sync.RWMutex
	rnd       *rand.Rand
	scores    map[string]cachedEntry[[]domain.ScoreRecord]
	countries cachedEntry[[]string]
}

type cachedEntry[T any] struct {
	value     T
	expiresAt time.Time
	set       bool
}

func (e cachedEntry[T]) fresh(now time.Time) bool {
	return e.set && e.expiresAt.After(now)
}

func NewLeaderboardRepository(loader LeaderboardLoader, ttl time.Duration) *LeaderboardRepository {
	return &LeaderboardRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		scores: make(map[string]cachedEntry[[]domain.ScoreRecord]),
	}
}

func (r *LeaderboardRepository) GetScores(ctx context.Context, countryCode string) ([]domain.ScoreRecord, error) {
	r.mu.RLock()
	if entry, ok := r.scores[countryCode]; ok && entry.fresh(r.clock()) {
		r.mu.RUnlock()
		return entry.value, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(countryCode, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.scores[countryCode]; ok && entry.fresh(now) {
			r.mu.RUnlock()
			return entry.value, nil
		}
		r.mu.RUnlock()

		records, err := r.loader.LoadScores(ctx, countryCode)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.scores[countryCode] = cachedEntry[[]domain.ScoreRecord]{
			value:     records,
			expiresAt: now.Add(r.ttlWithJitterLocked()),
			set:       true,
		}
		r.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ScoreRecord), nil
}

func (r *LeaderboardRepository) ListCountries(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	if r.countries.fresh(r.clock()) {
		codes := r.countries.value
		r.mu.RUnlock()
		return codes, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(countriesKey, func() (interface{}, error) {
		now := r.clock()
		codes, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.countries = cachedEntry[[]string]{
			value:     codes,
			expiresAt: now.Add(r.ttlWithJitterLocked()),
			set:       true,
		}
		r.mu.Unlock()
		return codes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// ttlWithJitterLocked must be called with mu held; rand.Rand is not safe for concurrent use.
func (r *LeaderboardRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
