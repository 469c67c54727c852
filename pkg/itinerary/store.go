package itinerary

import (
	"context"
	"fmt"

	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/familytrip/tripplanner/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Store persists serialized day content under the day's key.
type Store struct {
	kv storage.Store
}

func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) Save(ctx context.Context, key datekey.DateKey, content string) error {
	if err := s.kv.Set(ctx, string(key), content); err != nil {
		return fmt.Errorf("failed to save itinerary for %s: %w", key, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key datekey.DateKey) (string, bool, error) {
	content, found, err := s.kv.Get(ctx, string(key))
	if err != nil {
		return "", false, fmt.Errorf("failed to load itinerary for %s: %w", key, err)
	}
	return content, found, nil
}

func (s *Store) Delete(ctx context.Context, key datekey.DateKey) error {
	if err := s.kv.Delete(ctx, string(key)); err != nil {
		return fmt.Errorf("failed to delete itinerary for %s: %w", key, err)
	}
	return nil
}

// ListDatesWithContent returns every day key whose stored content is not blank.
func (s *Store) ListDatesWithContent(ctx context.Context) (map[datekey.DateKey]struct{}, error) {
	dates := make(map[datekey.DateKey]struct{})
	err := s.scan(ctx, func(key datekey.DateKey, content string) error {
		if !IsBlankContent(content) {
			dates[key] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// PurgeEmpty removes day keys holding blank content and reports how many were removed.
func (s *Store) PurgeEmpty(ctx context.Context) (int, error) {
	removed := 0
	err := s.scan(ctx, func(key datekey.DateKey, content string) error {
		if !IsBlankContent(content) {
			return nil
		}
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
		log.Debugf("removed empty itinerary %s", key)
		removed++
		return nil
	})
	return removed, err
}

func (s *Store) scan(ctx context.Context, fn func(key datekey.DateKey, content string) error) error {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored keys: %w", err)
	}
	for _, k := range keys {
		if !datekey.IsKey(k) {
			continue
		}
		content, found, err := s.kv.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", k, err)
		}
		if !found {
			continue
		}
		if err := fn(datekey.DateKey(k), content); err != nil {
			return err
		}
	}
	return nil
}
