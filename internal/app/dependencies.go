package app

import (
	"fmt"

	"github.com/familytrip/tripplanner/internal/config"
	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/internal/utils"
	"github.com/familytrip/tripplanner/pkg/calendar"
	"github.com/familytrip/tripplanner/pkg/cost"
	"github.com/familytrip/tripplanner/pkg/itinerary"
	"github.com/familytrip/tripplanner/pkg/planner"
	"github.com/familytrip/tripplanner/pkg/storage"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Store    storage.Store
	EventBus *event_bus.EventBus
	Clock    utils.Clock
	Metrics  *Metrics

	ItineraryStore   *itinerary.Store
	ItineraryService *itinerary.ServiceImpl
	ItineraryHandler *itinerary.Handler

	CalendarHandler *calendar.Handler

	CostRepository *cost.RepositoryImpl
	CostService    *cost.ServiceImpl
	CostHandler    *cost.Handler

	Planner        *planner.Planner
	PlannerHandler *planner.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(kv storage.Store, cfg config.Application) (*Dependencies, error) {
	location, err := utils.LoadLocation(cfg.Planner.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid planner timezone %q: %w", cfg.Planner.Timezone, err)
	}
	policy, err := itinerary.ParseBulkValidation(cfg.Planner.BulkValidation)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	deps.Store = kv
	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{Location: location}
	deps.Metrics = NewMetrics()

	deps.ItineraryStore = itinerary.NewStore(kv)
	deps.ItineraryService = itinerary.NewService(deps.ItineraryStore, deps.EventBus)
	deps.ItineraryHandler = itinerary.NewHandler(deps.ItineraryService)

	deps.CalendarHandler = calendar.NewHandler(deps.ItineraryService, deps.Clock)

	deps.CostRepository = cost.NewRepository(kv)
	deps.CostService = cost.NewService(deps.CostRepository, deps.ItineraryService)
	deps.CostHandler = cost.NewHandler(deps.CostService)

	deps.Planner = planner.NewPlanner(deps.EventBus, deps.ItineraryService, deps.CostService, deps.Clock, policy)
	deps.PlannerHandler = planner.NewHandler(deps.Planner)

	deps.Metrics.ObserveItinerarySaves(deps.EventBus)

	return deps, nil
}
