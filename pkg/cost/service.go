package cost

import (
	"context"
	"errors"
	"fmt"

	"github.com/familytrip/tripplanner/pkg/datekey"
	log "github.com/sirupsen/logrus"
)

var ErrNoItinerary = errors.New("date has no itinerary")

// NoItineraryNotice is shown when costs are requested for a day with nothing planned.
const NoItineraryNotice = "此日期尚無行程，請先新增行程後再計算成本。"

// ContentChecker tells whether a day has itinerary content.
type ContentChecker interface {
	HasContent(ctx context.Context, key datekey.DateKey) (bool, error)
}

type Service interface {
	GetRecord(ctx context.Context, date datekey.DateKey) (Record, error)
	SaveRecord(ctx context.Context, date datekey.DateKey, record Record) error
	CanEdit(ctx context.Context, date datekey.DateKey) (bool, error)
}

type ServiceImpl struct {
	repo    Repository
	content ContentChecker
}

func NewService(repo Repository, content ContentChecker) *ServiceImpl {
	return &ServiceImpl{repo: repo, content: content}
}

func (s *ServiceImpl) GetRecord(ctx context.Context, date datekey.DateKey) (Record, error) {
	return s.repo.Get(ctx, date)
}

// CanEdit reports whether costs may be edited for date, which requires planned itinerary.
func (s *ServiceImpl) CanEdit(ctx context.Context, date datekey.DateKey) (bool, error) {
	has, err := s.content.HasContent(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check itinerary of %s: %w", date, err)
	}
	return has, nil
}

// SaveRecord stores record in its saved form. Days without itinerary are rejected with ErrNoItinerary.
func (s *ServiceImpl) SaveRecord(ctx context.Context, date datekey.DateKey, record Record) error {
	ok, err := s.CanEdit(ctx, date)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoItinerary, date)
	}
	saved := NewLedger(record).Record()
	if err := s.repo.Store(ctx, date, saved); err != nil {
		return err
	}
	log.Debugf("stored costs for %s (%d + %d rows)", date, len(saved.SchemeA.Rows), len(saved.SchemeB.Rows))
	return nil
}
