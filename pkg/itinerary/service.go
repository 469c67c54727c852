package itinerary

import (
	"context"
	"fmt"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/pkg/datekey"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetDay(ctx context.Context, key datekey.DateKey) (DayItinerary, error)
	SaveDay(ctx context.Context, key datekey.DateKey, day DayItinerary) error
	HasContent(ctx context.Context, key datekey.DateKey) (bool, error)
	DatesWithContent(ctx context.Context) (map[datekey.DateKey]struct{}, error)
	PurgeEmpty(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	store    *Store
	eventBus *event_bus.EventBus
}

func NewService(store *Store, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{store: store, eventBus: eventBus}
}

// GetDay loads the day's entries. Unreadable stored content is logged and read as an empty day.
func (s *ServiceImpl) GetDay(ctx context.Context, key datekey.DateKey) (DayItinerary, error) {
	content, found, err := s.store.Load(ctx, key)
	if err != nil {
		return DayItinerary{}, err
	}
	if !found {
		return DayItinerary{}, nil
	}
	day, err := Decode(content)
	if err != nil {
		log.Warnf("ignoring unreadable itinerary stored for %s: %v", key, err)
		return DayItinerary{}, nil
	}
	return day, nil
}

// SaveDay writes the day sorted by time. An empty day removes the stored record, so saved-empty
// and never-planned days look the same to the calendar.
func (s *ServiceImpl) SaveDay(ctx context.Context, key datekey.DateKey, day DayItinerary) error {
	for i, e := range day.Entries {
		if err := ValidateTime(e.Hour, e.Minute); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	sorted := day.Sorted()
	if sorted.IsEmpty() {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	} else {
		content, err := Encode(sorted)
		if err != nil {
			return err
		}
		if err := s.store.Save(ctx, key, content); err != nil {
			return err
		}
	}

	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TypeItineraryDaySaved, event_bus.ItineraryDaySaved{
		Date:       key,
		Entries:    len(sorted.Entries),
		HasContent: !sorted.IsEmpty(),
	}))
	if err != nil {
		// the day is stored already; a stale calendar refreshes on the next render
		log.Errorf("failed to publish itinerary saved event: %v", err)
	}
	return nil
}

func (s *ServiceImpl) HasContent(ctx context.Context, key datekey.DateKey) (bool, error) {
	content, found, err := s.store.Load(ctx, key)
	if err != nil {
		return false, err
	}
	return found && !IsBlankContent(content), nil
}

func (s *ServiceImpl) DatesWithContent(ctx context.Context) (map[datekey.DateKey]struct{}, error) {
	return s.store.ListDatesWithContent(ctx)
}

func (s *ServiceImpl) PurgeEmpty(ctx context.Context) (int, error) {
	removed, err := s.store.PurgeEmpty(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to purge empty itineraries: %w", err)
	}
	if removed > 0 {
		log.Infof("removed %d empty itinerary records", removed)
	}
	return removed, nil
}
