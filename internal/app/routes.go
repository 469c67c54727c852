package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	p := deps.PlannerHandler

	// Itinerary; writes share the planner session lock
	r.HandleFunc("/api/itinerary", deps.ItineraryHandler.ListDates).Methods("GET")
	r.HandleFunc("/api/itinerary/{date}", deps.ItineraryHandler.GetDay).Methods("GET")
	r.Handle("/api/itinerary/{date}", p.Exclusive(http.HandlerFunc(deps.ItineraryHandler.PutDay))).Methods("PUT")
	r.Handle("/api/itinerary/{date}", p.Exclusive(http.HandlerFunc(deps.ItineraryHandler.DeleteDay))).Methods("DELETE")

	// Calendar
	r.HandleFunc("/api/calendar", deps.CalendarHandler.GetCalendar).Methods("GET")

	// Costs
	r.HandleFunc("/api/costs/{date}", deps.CostHandler.GetCosts).Methods("GET")
	r.HandleFunc("/api/costs/{date}", deps.CostHandler.PutCosts).Methods("PUT")

	// Planner session
	r.HandleFunc("/api/planner", p.GetState).Methods("GET")
	r.HandleFunc("/api/planner/select", p.Select).Methods("POST")
	r.HandleFunc("/api/planner/month/{direction}", p.ChangeMonth).Methods("POST")
	r.HandleFunc("/api/planner/rows", p.NewRow).Methods("POST")
	r.HandleFunc("/api/planner/rows/{rowId}", p.SetDraft).Methods("PUT")
	r.HandleFunc("/api/planner/rows/{rowId}", p.DeleteRow).Methods("DELETE")
	r.HandleFunc("/api/planner/rows/{rowId}/commit", p.CommitRow).Methods("POST")
	r.HandleFunc("/api/planner/rows/{rowId}/cancel", p.CancelRow).Methods("POST")
	r.HandleFunc("/api/planner/rows/{rowId}/edit", p.EditRow).Methods("POST")
	r.HandleFunc("/api/planner/edit-mode", p.ToggleEditMode).Methods("POST")

	// Planner cost modal
	r.HandleFunc("/api/planner/costs", p.GetCosts).Methods("GET")
	r.HandleFunc("/api/planner/costs/open", p.OpenCosts).Methods("POST")
	r.HandleFunc("/api/planner/costs/close", p.CloseCosts).Methods("POST")
	r.HandleFunc("/api/planner/costs/save", p.SaveCosts).Methods("POST")
	r.HandleFunc("/api/planner/costs/select", p.SelectCostDate).Methods("POST")
	r.HandleFunc("/api/planner/costs/month/{direction}", p.ChangeCostMonth).Methods("POST")
	r.HandleFunc("/api/planner/costs/schemes/{scheme}/rows", p.AddCostRow).Methods("POST")
	r.HandleFunc("/api/planner/costs/schemes/{scheme}/rows/{rowId}", p.UpdateCostRow).Methods("PUT")
	r.HandleFunc("/api/planner/costs/schemes/{scheme}/rows/{rowId}", p.DeleteCostRow).Methods("DELETE")
	r.HandleFunc("/api/planner/costs/schemes/{scheme}/name", p.RenameScheme).Methods("PUT")

	// Metrics
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})).Methods("GET")
}
