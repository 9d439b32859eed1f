package server

import (
	"net/http"

	"github.com/BuddyApator/Energie-Buddy/internal/consumption"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

type consumptionEntry struct {
	models.ConsumptionPoint
	Cost        float64 `json:"cost"`
	CostDisplay string  `json:"cost_display"`
}

type budgetStatus struct {
	Progress    float64 `json:"progress"` // fraction of daily budget used, capped at 1
	LatestCost  float64 `json:"latest_cost"`
	DailyBudget float64 `json:"daily_budget"`
}

type dashboardResponse struct {
	DisplayName   string              `json:"display_name"`
	Points        []models.Reading    `json:"points"`
	Consumption   []consumptionEntry  `json:"consumption"`
	Daily         []models.DailyTotal `json:"daily"`
	Recent        []models.Reading    `json:"recent"`
	Budget        *budgetStatus       `json:"budget,omitempty"`
	UnitPrice     float64             `json:"unit_price"`
	NotEnoughData bool                `json:"not_enough_data"`
}

// handleDashboard recomputes the full derived view from the user's ledger.
// There is no cached consumption state: every render pulls the history and
// runs it through the engine again.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) error {
	session := sessionFromContext(r.Context())

	cfg, err := s.settings.Load()
	if err != nil {
		return err
	}

	ordered, err := s.ledger.History(r.Context(), session.UserID)
	if err != nil {
		return err
	}

	points := consumption.PeriodConsumption(ordered)

	entries := make([]consumptionEntry, 0, len(points))
	for _, p := range points {
		cost := consumption.Cost(p.Delta, cfg.UnitPrice)
		entries = append(entries, consumptionEntry{
			ConsumptionPoint: p,
			Cost:             cost,
			CostDisplay:      consumption.FormatMoney(cost),
		})
	}

	resp := dashboardResponse{
		DisplayName:   session.DisplayName,
		Points:        ordered,
		Consumption:   entries,
		Daily:         consumption.DailyTotals(points),
		Recent:        consumption.Tail(ordered, defaultRecentCount),
		UnitPrice:     cfg.UnitPrice,
		NotEnoughData: len(ordered) < 2,
	}

	if len(entries) > 0 {
		latest := entries[len(entries)-1]
		progress, err := consumption.BudgetProgress(latest.Cost, cfg.DailyBudget)
		if err != nil {
			return err
		}
		resp.Budget = &budgetStatus{
			Progress:    progress,
			LatestCost:  latest.Cost,
			DailyBudget: cfg.DailyBudget,
		}
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
	return nil
}
