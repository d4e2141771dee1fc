package database

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/providers"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/observability"
)

// assessmentByIDTTL applies to single assessments, which never change once stored
const assessmentByIDTTL = 15 * time.Minute

const historyStripes = 64

// historyStripe counts invalidations for the users hashed onto it. mu is held
// across the cache write of a history page and across invalidation, so a page
// read before an invalidation is never written after it.
type historyStripe struct {
	mu         sync.Mutex
	generation uint64
}

// CachedAssessmentAdapter wraps an AssessmentRepository with caching
type CachedAssessmentAdapter struct {
	adapter    repositories.AssessmentRepository
	cache      providers.CacheProvider
	historyTTL time.Duration
	metrics    *observability.Metrics
	stripes    [historyStripes]historyStripe
}

// NewCachedAssessmentAdapter creates a new cached assessment adapter
func NewCachedAssessmentAdapter(adapter repositories.AssessmentRepository, cache providers.CacheProvider, historyTTL time.Duration, metrics *observability.Metrics) repositories.AssessmentRepository {
	return &CachedAssessmentAdapter{
		adapter:    adapter,
		cache:      cache,
		historyTTL: historyTTL,
		metrics:    metrics,
	}
}

// Create stores an assessment and drops the user's cached history pages
func (a *CachedAssessmentAdapter) Create(ctx context.Context, assessment *entities.Assessment) error {
	if err := a.adapter.Create(ctx, assessment); err != nil {
		return err
	}

	stripe := a.stripe(assessment.UserID)
	stripe.mu.Lock()
	defer stripe.mu.Unlock()
	stripe.generation++

	if err := a.cache.DeletePattern(ctx, providers.AssessmentHistoryPattern(assessment.UserID)); err != nil {
		log.Warn().Err(err).Str("user_id", assessment.UserID).Msg("Failed to invalidate assessment history cache")
	}
	return nil
}

// GetByID retrieves an assessment by ID with caching
func (a *CachedAssessmentAdapter) GetByID(ctx context.Context, id string) (*entities.Assessment, error) {
	cacheKey := providers.AssessmentCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var assessment entities.Assessment
		if err := json.Unmarshal(cached, &assessment); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "assessment")
			return &assessment, nil
		}
		log.Warn().Err(err).Str("assessment_id", id).Msg("Failed to unmarshal cached assessment")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "assessment")

	assessment, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, assessment, assessmentByIDTTL)
	return assessment, nil
}

// ListByUser retrieves a page of a user's history with caching
func (a *CachedAssessmentAdapter) ListByUser(ctx context.Context, userID string, filter repositories.AssessmentFilter) ([]*entities.Assessment, error) {
	filter = filter.Normalize()
	cacheKey := providers.AssessmentHistoryCacheKey(userID, filter.Limit, filter.Offset)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var assessments []*entities.Assessment
		if err := json.Unmarshal(cached, &assessments); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "history")
			return assessments, nil
		}
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to unmarshal cached assessment history")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "history")

	stripe := a.stripe(userID)
	stripe.mu.Lock()
	generation := stripe.generation
	stripe.mu.Unlock()

	assessments, err := a.adapter.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	a.storeHistory(ctx, stripe, generation, cacheKey, assessments)
	return assessments, nil
}

// storeHistory writes a history page unless the user's history was
// invalidated after the page was read
func (a *CachedAssessmentAdapter) storeHistory(ctx context.Context, stripe *historyStripe, generation uint64, key string, assessments []*entities.Assessment) {
	data, err := json.Marshal(assessments)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal value for cache")
		return
	}

	stripe.mu.Lock()
	defer stripe.mu.Unlock()
	if stripe.generation != generation {
		log.Debug().Str("key", key).Msg("Skipping stale assessment history page")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := a.cache.Set(ctx, key, data, int(a.historyTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache value")
	}
}

func (a *CachedAssessmentAdapter) stripe(userID string) *historyStripe {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &a.stripes[h.Sum32()%historyStripes]
}

// store updates the cache in the background so reads never wait on Redis.
// Only used for single assessments, which are never invalidated.
func (a *CachedAssessmentAdapter) store(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal value for cache")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.cache.Set(ctx, key, data, int(ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache value")
		}
	}()
}
