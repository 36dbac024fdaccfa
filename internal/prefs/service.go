// Package prefs owns the user preference records and notifies registered
// observers when a user's preferences change.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/pkg/logger"
	"github.com/lumina/glow-platform/internal/store"
)

// ErrInvalidPreferences is returned when an update carries values outside
// the declared enums.
var ErrInvalidPreferences = errors.New("prefs: invalid preference values")

// Observer is notified after a user's preferences change. Registration is
// explicit; there is no implicit subscription.
type Observer interface {
	PreferencesChanged(ctx context.Context, userID string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, userID string)

// PreferencesChanged calls f.
func (f ObserverFunc) PreferencesChanged(ctx context.Context, userID string) { f(ctx, userID) }

// Service reads and writes preference records through the document store,
// with an optional Redis cache in front.
type Service struct {
	store store.DocumentStore
	cache *store.Cache

	mu        sync.RWMutex
	observers []Observer
}

// NewService creates a preference service. cache may be nil.
func NewService(docs store.DocumentStore, cache *store.Cache) *Service {
	return &Service{store: docs, cache: cache}
}

// Register adds an observer to be notified on preference changes.
func (s *Service) Register(obs Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, obs)
	s.mu.Unlock()
}

func cacheKey(userID string) string { return "prefs:" + userID }

// Get returns the stored preferences for userID, or the default record when
// the user has none yet. First access does not persist the default.
func (s *Service) Get(ctx context.Context, userID string) (domain.UserPreferences, error) {
	if s.cache != nil {
		var cached domain.UserPreferences
		if ok, err := s.cache.Get(ctx, cacheKey(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	raw, err := s.store.FindOne(ctx, store.CollectionPreferences, store.Eq("user_id", userID))
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultPreferences(userID), nil
	}
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("loading preferences for %s: %w", userID, err)
	}

	var prefs domain.UserPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("decoding preferences for %s: %w", userID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(userID), prefs); err != nil {
			logger.Warn("Failed to cache preferences", "user_id", userID, "error", err.Error())
		}
	}
	return prefs, nil
}

// Update replaces the user's preference record wholesale. Partial updates
// are not supported; callers send the full record.
func (s *Service) Update(ctx context.Context, userID string, prefs domain.UserPreferences) (domain.UserPreferences, error) {
	if !domain.ValidSkinType(prefs.SkinType) || !domain.ValidBudgetTier(prefs.BudgetTier) {
		return domain.UserPreferences{}, ErrInvalidPreferences
	}

	prefs.UserID = userID
	prefs.UpdatedAt = time.Now().UTC()

	n, err := s.store.Update(ctx, store.CollectionPreferences, prefs, store.Eq("user_id", userID))
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("updating preferences for %s: %w", userID, err)
	}
	if n == 0 {
		if _, err := s.store.Insert(ctx, store.CollectionPreferences, prefs); err != nil {
			return domain.UserPreferences{}, fmt.Errorf("inserting preferences for %s: %w", userID, err)
		}
	}

	s.afterChange(ctx, userID)
	return prefs, nil
}

// Reset removes the user's stored record, restoring the defaults on the
// next read.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if _, err := s.store.Delete(ctx, store.CollectionPreferences, store.Eq("user_id", userID)); err != nil {
		return fmt.Errorf("resetting preferences for %s: %w", userID, err)
	}
	s.afterChange(ctx, userID)
	return nil
}

func (s *Service) afterChange(ctx context.Context, userID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cacheKey(userID)); err != nil {
			logger.Warn("Failed to invalidate preference cache", "user_id", userID, "error", err.Error())
		}
	}

	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, obs := range observers {
		obs.PreferencesChanged(ctx, userID)
	}
}
