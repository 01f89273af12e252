package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/types"
)

// ProgressConfig bounds per-session cooking progress.
type ProgressConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// RedisProgressStore keeps one hash per session, field = RecipeRef key, plus
// a sorted set of last-update times used to evict the oldest recipes once a
// session holds more than MaxEntries.
type RedisProgressStore struct {
	redis  *redis.Client
	config ProgressConfig
}

func NewRedisProgressStore(client *redis.Client, config ProgressConfig) *RedisProgressStore {
	return &RedisProgressStore{redis: client, config: config}
}

func progressKey(sessionID string) string {
	return "cooking:progress:" + sessionID
}

func progressIndexKey(sessionID string) string {
	return "cooking:progress:" + sessionID + ":lru"
}

func (s *RedisProgressStore) Get(ctx context.Context, sessionID string, ref types.RecipeRef) (*types.CookingProgress, error) {
	data, err := s.redis.HGet(ctx, progressKey(sessionID), ref.Key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cooking progress: %w", err)
	}

	var progress types.CookingProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to decode cooking progress: %w", err)
	}
	return &progress, nil
}

func (s *RedisProgressStore) Save(ctx context.Context, sessionID string, ref types.RecipeRef, progress *types.CookingProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}

	key, index := progressKey(sessionID), progressIndexKey(sessionID)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, ref.Key(), data)
		pipe.ZAdd(ctx, index, redis.Z{Score: float64(progress.LastUpdated.UnixNano()), Member: ref.Key()})
		pipe.Expire(ctx, key, s.config.TTL)
		pipe.Expire(ctx, index, s.config.TTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save cooking progress: %w", err)
	}
	return s.evict(ctx, sessionID)
}

// evict drops the least recently updated entries above MaxEntries.
func (s *RedisProgressStore) evict(ctx context.Context, sessionID string) error {
	if s.config.MaxEntries <= 0 {
		return nil
	}
	index := progressIndexKey(sessionID)
	count, err := s.redis.ZCard(ctx, index).Result()
	if err != nil {
		return err
	}
	extra := count - int64(s.config.MaxEntries)
	if extra <= 0 {
		return nil
	}

	popped, err := s.redis.ZPopMin(ctx, index, extra).Result()
	if err != nil {
		return err
	}
	fields := make([]string, 0, len(popped))
	for _, z := range popped {
		if member, ok := z.Member.(string); ok {
			fields = append(fields, member)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return s.redis.HDel(ctx, progressKey(sessionID), fields...).Err()
}

func (s *RedisProgressStore) Delete(ctx context.Context, sessionID string, ref types.RecipeRef) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, progressKey(sessionID), ref.Key())
		pipe.ZRem(ctx, progressIndexKey(sessionID), ref.Key())
		return nil
	})
	return err
}

func (s *RedisProgressStore) Clear(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, progressKey(sessionID), progressIndexKey(sessionID)).Err()
}

// MemoryProgressStore is the single-process store used when Redis is not
// configured. It applies the same TTL and size bound as the Redis store.
type MemoryProgressStore struct {
	config ProgressConfig
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*memorySession
}

type memorySession struct {
	entries   map[string]*types.CookingProgress
	expiresAt time.Time
}

func NewMemoryProgressStore(config ProgressConfig) *MemoryProgressStore {
	return &MemoryProgressStore{
		config:   config,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

func (s *MemoryProgressStore) session(sessionID string) *memorySession {
	sess, ok := s.sessions[sessionID]
	if ok && s.config.TTL > 0 && s.now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok {
		return nil
	}
	return sess
}

func (s *MemoryProgressStore) Get(_ context.Context, sessionID string, ref types.RecipeRef) (*types.CookingProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	if sess == nil {
		return nil, nil
	}
	p, ok := sess.entries[ref.Key()]
	if !ok {
		return nil, nil
	}
	clone := cloneProgress(p)
	return clone, nil
}

func (s *MemoryProgressStore) Save(_ context.Context, sessionID string, ref types.RecipeRef, progress *types.CookingProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	if sess == nil {
		sess = &memorySession{entries: make(map[string]*types.CookingProgress)}
		s.sessions[sessionID] = sess
	}
	sess.entries[ref.Key()] = cloneProgress(progress)
	sess.expiresAt = s.now().Add(s.config.TTL)

	if s.config.MaxEntries > 0 && len(sess.entries) > s.config.MaxEntries {
		keys := make([]string, 0, len(sess.entries))
		for k := range sess.entries {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return sess.entries[keys[i]].LastUpdated.Before(sess.entries[keys[j]].LastUpdated)
		})
		for _, k := range keys[:len(keys)-s.config.MaxEntries] {
			delete(sess.entries, k)
		}
	}
	return nil
}

func (s *MemoryProgressStore) Delete(_ context.Context, sessionID string, ref types.RecipeRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.session(sessionID); sess != nil {
		delete(sess.entries, ref.Key())
	}
	return nil
}

func (s *MemoryProgressStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func cloneProgress(p *types.CookingProgress) *types.CookingProgress {
	clone := *p
	clone.CompletedSteps = make(map[string]bool, len(p.CompletedSteps))
	for k, v := range p.CompletedSteps {
		clone.CompletedSteps[k] = v
	}
	clone.CheckedIngredients = make(map[string]bool, len(p.CheckedIngredients))
	for k, v := range p.CheckedIngredients {
		clone.CheckedIngredients[k] = v
	}
	return &clone
}

// CookingService reads and updates the cooking progress of a session.
type CookingService struct {
	store ProgressStore
	now   func() time.Time
}

func NewCookingService(store ProgressStore) *CookingService {
	return &CookingService{store: store, now: time.Now}
}

// Progress returns the saved progress, or fresh defaults.
func (s *CookingService) Progress(ctx context.Context, sessionID string, ref types.RecipeRef) (*types.CookingProgress, error) {
	p, err := s.store.Get(ctx, sessionID, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return types.NewCookingProgress(s.now()), nil
	}
	return p, nil
}

// SaveProgress replaces the stored progress. Omitted fields fall back to
// their defaults; the start time of an existing entry is kept.
func (s *CookingService) SaveProgress(ctx context.Context, sessionID string, ref types.RecipeRef, req *types.SaveProgressRequest) (*types.CookingProgress, error) {
	if req.CurrentStep == nil || *req.CurrentStep < 0 {
		return nil, apperror.Validation("currentStep", "Invalid currentStep")
	}
	if req.ServingMultiplier < 0 {
		return nil, apperror.Validation("servingMultiplier", "Invalid servingMultiplier")
	}

	existing, err := s.store.Get(ctx, sessionID, ref)
	if err != nil {
		return nil, err
	}

	now := s.now()
	progress := types.NewCookingProgress(now)
	if existing != nil {
		progress.StartTime = existing.StartTime
	}
	progress.CurrentStep = *req.CurrentStep
	if req.CompletedSteps != nil {
		progress.CompletedSteps = req.CompletedSteps
	}
	if req.CheckedIngredients != nil {
		progress.CheckedIngredients = req.CheckedIngredients
	}
	if req.ServingMultiplier > 0 {
		progress.ServingMultiplier = req.ServingMultiplier
	}

	if err := s.store.Save(ctx, sessionID, ref, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// ResetProgress forgets the progress of one recipe.
func (s *CookingService) ResetProgress(ctx context.Context, sessionID string, ref types.RecipeRef) error {
	return s.store.Delete(ctx, sessionID, ref)
}

// EndSession forgets all progress of the session.
func (s *CookingService) EndSession(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
