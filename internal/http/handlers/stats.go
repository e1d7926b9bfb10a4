package handlers

import (
	"net/http"

	"fundflow/internal/money"
	"fundflow/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var totalProjects, completed, pending, failed, totalRaised int64
	if err := row.Scan(&totalProjects, &completed, &pending, &failed, &totalRaised); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_projects":       totalProjects,
		"completed_donations":  completed,
		"pending_donations":    pending,
		"failed_donations":     failed,
		"total_raised":         totalRaised,
		"total_raised_display": money.FormatKES(totalRaised),
	})
}
